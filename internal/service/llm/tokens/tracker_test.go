package tokens

import (
	"testing"
	"time"
)

func TestTrackerBudget(t *testing.T) {
	tracker := NewTracker(0.001)

	if tracker.IsBudgetExceeded() {
		t.Fatal("fresh tracker should not exceed budget")
	}

	if err := tracker.RecordUsage(UsageEntry{Model: "gemini-1.5-pro", TotalCost: 0.002}); err != nil {
		t.Fatalf("RecordUsage failed: %v", err)
	}

	if !tracker.IsBudgetExceeded() {
		t.Error("budget should be exceeded after recording more than the limit")
	}
	if got := tracker.GetRemainingBudget(); got != 0 {
		t.Errorf("remaining = %v, want 0", got)
	}
}

func TestTrackerZeroBudgetIsUnlimited(t *testing.T) {
	tracker := NewTracker(0)
	_ = tracker.RecordUsage(UsageEntry{Model: "gemini-2.0-flash", PromptTokens: 1_000_000, CompletionTokens: 1_000_000})

	if tracker.IsBudgetExceeded() {
		t.Error("zero budget should never be exceeded")
	}

	summary := tracker.Summary()
	if summary.Requests != 1 {
		t.Errorf("Requests = %d, want 1", summary.Requests)
	}
	if summary.CostUSD <= 0 {
		t.Errorf("CostUSD = %v, want > 0", summary.CostUSD)
	}
}

func TestTrackerDayRollover(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	tracker := NewTracker(1)
	tracker.now = func() time.Time { return now }
	tracker.currentDay = now.Format("2006-01-02")

	_ = tracker.RecordUsage(UsageEntry{Timestamp: now, TotalCost: 0.5})
	if got := tracker.Summary().CostUSD; got != 0.5 {
		t.Fatalf("CostUSD = %v, want 0.5", got)
	}

	now = now.Add(2 * time.Minute)
	summary := tracker.Summary()
	if summary.CostUSD != 0 || summary.Day != "2025-03-02" {
		t.Errorf("expected reset on new day, got %+v", summary)
	}
}

func TestTokensToCostUnknownModelUsesFallback(t *testing.T) {
	tracker := NewTracker(0)
	_, _, unknown := tracker.TokensToCost("mystery-model", 1000, 1000)
	_, _, fallback := tracker.TokensToCost(fallbackModel, 1000, 1000)

	if unknown != fallback {
		t.Errorf("unknown model cost %v, want fallback cost %v", unknown, fallback)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("abcdefgh"); got != 2 {
		t.Errorf("EstimateTokens = %d, want 2", got)
	}
}
