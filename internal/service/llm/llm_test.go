package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/tokens"
)

type stubProvider struct {
	calls     int
	failFirst int
	err       error
	text      string
}

func (p *stubProvider) Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error) {
	p.calls++
	if p.calls <= p.failFirst {
		return nil, p.err
	}
	return &GenerateResponse{Text: p.text, Model: "gemini-2.0-flash", PromptTokens: 10, CompletionTokens: 5}, nil
}

func (p *stubProvider) GetName() string { return "stub" }
func (p *stubProvider) Close() error    { return nil }

func newTestService(provider Provider, opts ServiceOptions) *Service {
	opts.RateLimit = rate.Inf
	opts.RetryDelay = time.Millisecond
	opts.Logger = logging.NopLogger{}
	s := NewService(opts)
	s.RegisterProvider(provider)
	return s
}

func TestGenerateNoRetryByDefault(t *testing.T) {
	provider := &stubProvider{failFirst: 1, err: errors.New("boom"), text: "ok"}
	s := newTestService(provider, ServiceOptions{})

	_, err := s.Generate(context.Background(), &GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, ErrAPIRequestFailed) {
		t.Fatalf("expected ErrAPIRequestFailed, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", provider.calls)
	}
}

func TestGenerateRetriesWhenConfigured(t *testing.T) {
	provider := &stubProvider{failFirst: 2, err: errors.New("transient"), text: "ok"}
	s := newTestService(provider, ServiceOptions{MaxRetries: 2})

	resp, err := s.Generate(context.Background(), &GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" || resp.ProviderUsed != "stub" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 calls, got %d", provider.calls)
	}
}

func TestGenerateDoesNotRetryBlockedPrompt(t *testing.T) {
	provider := &stubProvider{failFirst: 5, err: ErrBlocked}
	s := newTestService(provider, ServiceOptions{MaxRetries: 3})

	_, err := s.Generate(context.Background(), &GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, ErrBlocked) || !errors.Is(err, ErrAPIRequestFailed) {
		t.Fatalf("expected blocked API failure, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("blocked prompts should not be retried, got %d calls", provider.calls)
	}
}

func TestGenerateBudgetExceeded(t *testing.T) {
	tracker := tokens.NewTracker(0.0001)
	_ = tracker.RecordUsage(tokens.UsageEntry{TotalCost: 1})

	provider := &stubProvider{text: "ok"}
	s := newTestService(provider, ServiceOptions{Tracker: tracker})

	_, err := s.Generate(context.Background(), &GenerateRequest{Prompt: "hi"})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider should not be called when over budget")
	}
}

func TestGenerateRecordsUsage(t *testing.T) {
	tracker := tokens.NewTracker(0)
	s := newTestService(&stubProvider{text: "ok"}, ServiceOptions{Tracker: tracker})

	if _, err := s.Generate(context.Background(), &GenerateRequest{Prompt: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := tracker.Summary()
	if summary.Requests != 1 || summary.PromptTokens != 10 || summary.CompletionTokens != 5 {
		t.Errorf("unexpected usage summary: %+v", summary)
	}
}

func TestGetProviderUnknown(t *testing.T) {
	s := newTestService(&stubProvider{}, ServiceOptions{})
	if _, err := s.GetProvider("openai"); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}

func TestCleanCodeBlocks(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"```\nplain\n```", "plain"},
		{"  no fences  ", "no fences"},
	}

	for _, tt := range tests {
		if got := CleanCodeBlocks(tt.in); got != tt.want {
			t.Errorf("CleanCodeBlocks(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
