package tokens

import (
	"sync"
	"time"
	"unicode/utf8"
)

// Models maps model names to pricing information
var Models = map[string]ModelInfo{
	"gemini-2.0-flash": {
		TokensPerPromptDollar: 1000.0 / 0.0001, // $0.10 per 1M input tokens
		TokensPerOutputDollar: 1000.0 / 0.0004, // $0.40 per 1M output tokens
		MaxContextTokens:      1048576,
		Name:                  "gemini-2.0-flash",
		Provider:              "gemini",
	},
	"gemini-1.5-flash": {
		TokensPerPromptDollar: 1000.0 / 0.000075,
		TokensPerOutputDollar: 1000.0 / 0.0003,
		MaxContextTokens:      1048576,
		Name:                  "gemini-1.5-flash",
		Provider:              "gemini",
	},
	"gemini-1.5-pro": {
		TokensPerPromptDollar: 1000.0 / 0.00125,
		TokensPerOutputDollar: 1000.0 / 0.005,
		MaxContextTokens:      2097152,
		Name:                  "gemini-1.5-pro",
		Provider:              "gemini",
	},
}

// fallbackModel prices unknown models
const fallbackModel = "gemini-1.5-pro"

// ModelInfo contains pricing information for a model
type ModelInfo struct {
	TokensPerPromptDollar float64 // Tokens per dollar for input
	TokensPerOutputDollar float64 // Tokens per dollar for output
	MaxContextTokens      int     // Maximum context length
	Name                  string  // Model name
	Provider              string  // Provider name
}

// UsageEntry represents a token usage entry
type UsageEntry struct {
	Timestamp        time.Time
	Model            string
	Provider         string
	PromptTokens     int
	CompletionTokens int
	PromptCost       float64
	CompletionCost   float64
	TotalCost        float64
}

// Summary is the usage snapshot for the current day
type Summary struct {
	Day              string  `json:"day"`
	Requests         int     `json:"requests"`
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	CostUSD          float64 `json:"costUsd"`
	DailyBudgetUSD   float64 `json:"dailyBudgetUsd"`
	RemainingUSD     float64 `json:"remainingUsd"`
}

// Tracker tracks token usage and costs against a daily budget.
// A zero budget disables the limit.
type Tracker struct {
	dailyBudget float64
	currentDay  string
	today       Summary
	now         func() time.Time
	mu          sync.RWMutex
}

// NewTracker creates a new budget tracker
func NewTracker(dailyBudget float64) *Tracker {
	t := &Tracker{
		dailyBudget: dailyBudget,
		now:         time.Now,
	}
	t.currentDay = t.now().Format("2006-01-02")
	t.today.Day = t.currentDay
	return t
}

// TokensToCost converts tokens to cost for a given model
func (t *Tracker) TokensToCost(model string, promptTokens, completionTokens int) (float64, float64, float64) {
	modelInfo, ok := Models[model]
	if !ok {
		modelInfo = Models[fallbackModel]
	}

	promptCost := float64(promptTokens) / modelInfo.TokensPerPromptDollar
	completionCost := float64(completionTokens) / modelInfo.TokensPerOutputDollar
	totalCost := promptCost + completionCost

	return promptCost, completionCost, totalCost
}

// RecordUsage records token usage
func (t *Tracker) RecordUsage(entry UsageEntry) error {
	if entry.TotalCost == 0 {
		entry.PromptCost, entry.CompletionCost, entry.TotalCost =
			t.TokensToCost(entry.Model, entry.PromptTokens, entry.CompletionTokens)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = t.now()
	}

	day := entry.Timestamp.Format("2006-01-02")

	t.mu.Lock()
	defer t.mu.Unlock()

	if day != t.currentDay {
		t.currentDay = day
		t.today = Summary{Day: day}
	}

	t.today.Requests++
	t.today.PromptTokens += entry.PromptTokens
	t.today.CompletionTokens += entry.CompletionTokens
	t.today.CostUSD += entry.TotalCost

	return nil
}

// IsBudgetExceeded checks if daily budget is exceeded
func (t *Tracker) IsBudgetExceeded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollover()
	return t.dailyBudget > 0 && t.today.CostUSD >= t.dailyBudget
}

// GetRemainingBudget returns the remaining daily budget
func (t *Tracker) GetRemainingBudget() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollover()
	return t.remaining()
}

// Summary returns today's usage
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollover()
	s := t.today
	s.DailyBudgetUSD = t.dailyBudget
	s.RemainingUSD = t.remaining()
	return s
}

// rollover resets counters when the day changed. Callers hold mu.
func (t *Tracker) rollover() {
	day := t.now().Format("2006-01-02")
	if day != t.currentDay {
		t.currentDay = day
		t.today = Summary{Day: day}
	}
}

func (t *Tracker) remaining() float64 {
	if t.dailyBudget <= 0 {
		return 0
	}
	if t.today.CostUSD >= t.dailyBudget {
		return 0
	}
	return t.dailyBudget - t.today.CostUSD
}

// EstimateTokens estimates the number of tokens in a string
// This is a very rough approximation; different models tokenize differently
func EstimateTokens(text string) int {
	// Roughly 4 characters per token for English text
	return utf8.RuneCountInString(text) / 4
}

// CalculateContextSize calculates estimated token size for request/response
func CalculateContextSize(prompt, completion string) (int, int) {
	return EstimateTokens(prompt), EstimateTokens(completion)
}
