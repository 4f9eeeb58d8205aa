package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/prompts"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/validation"
)

const validAnalysisJSON = `{
  "sections": [{
    "id": "hero-1", "type": "hero", "label": "Hero headline",
    "position": {"x": 0, "y": 0, "width": 100, "height": 30},
    "currentContent": "Welcome", "suggestedContent": "Ship faster with Acme",
    "contentVariants": [], "seoScore": 72, "keywords": ["acme"], "characterCount": 21
  }],
  "overallSeoScore": 68,
  "recommendations": ["Add a meta description"],
  "pageType": "landing"
}`

// fakeGenerator answers calls in order from a script
type fakeGenerator struct {
	mu       sync.Mutex
	replies  []reply
	requests []*llm.GenerateRequest
}

type reply struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return nil, errors.New("unexpected call")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.err != nil {
		return nil, r.err
	}
	return &llm.GenerateResponse{Text: r.text, Model: "fake"}, nil
}

func (f *fakeGenerator) calls() []*llm.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*llm.GenerateRequest(nil), f.requests...)
}

func newTestClient(replies ...reply) (*Client, *fakeGenerator) {
	gen := &fakeGenerator{replies: replies}
	client := NewClient(gen, logging.NopLogger{})
	client.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return client, gen
}

func png(name string) Image {
	return Image{Data: []byte("fake-png"), MIMEType: "image/png", FileName: name, URL: "/api/images/" + name}
}

func baseRequest() Request {
	return Request{
		Image:          png("home.png"),
		Keywords:       []string{"acme", "deploy"},
		TargetAudience: "platform engineers",
	}
}

func TestAnalyzeDecoratesResult(t *testing.T) {
	client, gen := newTestClient(reply{text: "```json\n" + validAnalysisJSON + "\n```"})

	result, err := client.Analyze(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.ImageURL != "/api/images/home.png" || result.ImageFileName != "home.png" {
		t.Errorf("image not decorated: %q %q", result.ImageURL, result.ImageFileName)
	}
	if result.Timestamp == nil || result.Timestamp.Year() != 2025 {
		t.Errorf("timestamp not set: %v", result.Timestamp)
	}
	if len(result.Sections) != 1 || result.Sections[0].Type != models.SectionHero {
		t.Errorf("unexpected sections: %+v", result.Sections)
	}

	calls := gen.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one model call, got %d", len(calls))
	}
	if calls[0].Schema == nil || len(calls[0].Images) != 1 || calls[0].Images[0].MIMEType != "image/png" {
		t.Errorf("request missing schema or image: %+v", calls[0])
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"no image", func(r *Request) { r.Image.Data = nil }, ErrNoImage},
		{"not an image", func(r *Request) { r.Image.MIMEType = "application/pdf" }, ErrUnsupportedImage},
		{"no audience", func(r *Request) { r.TargetAudience = "  " }, prompts.ErrMissingAudience},
		{"no keywords", func(r *Request) { r.Keywords = nil }, prompts.ErrMissingKeywords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, gen := newTestClient()
			req := baseRequest()
			tt.mutate(&req)

			_, err := client.Analyze(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(gen.calls()) != 0 {
				t.Error("model must not be called for invalid input")
			}
		})
	}
}

func TestAnalyzeErrorKinds(t *testing.T) {
	transport := errors.New("connection reset")

	tests := []struct {
		name  string
		reply reply
		check func(error) bool
	}{
		{"transport", reply{err: transport}, func(err error) bool { return errors.Is(err, transport) }},
		{"malformed json", reply{text: "{sections:"}, func(err error) bool { return errors.Is(err, llm.ErrResponseProcessing) }},
		{"contract violation", reply{text: `{"sections":[],"overallSeoScore":500,"recommendations":[],"pageType":"x"}`}, func(err error) bool {
			var verr *validation.ValidationError
			return errors.As(err, &verr) && errors.Is(err, validation.ErrInvalidModelResponse)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(tt.reply)
			_, err := client.Analyze(context.Background(), baseRequest())
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRefine(t *testing.T) {
	client, gen := newTestClient(reply{text: "  Deploy in minutes with Acme.\n"})

	got, err := client.Refine(context.Background(), RefineRequest{
		OriginalContent: "Deploy fast",
		UserFeedback:    "make it punchier",
		Context:         prompts.RefineContext{SectionType: models.SectionHero, Keywords: []string{"acme"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "Deploy in minutes with Acme." {
		t.Errorf("Refine = %q", got)
	}

	call := gen.calls()[0]
	if call.Schema != nil || !call.Cacheable || !strings.Contains(call.Prompt, "make it punchier") {
		t.Errorf("unexpected refine request: %+v", call)
	}
}

func TestRefinePropagatesFailure(t *testing.T) {
	boom := errors.New("quota")
	client, _ := newTestClient(reply{err: boom})

	_, err := client.Refine(context.Background(), RefineRequest{OriginalContent: "a", UserFeedback: "b"})
	if !errors.Is(err, boom) {
		t.Errorf("expected underlying error, got %v", err)
	}

	if _, err := client.Refine(context.Background(), RefineRequest{OriginalContent: "a"}); !errors.Is(err, ErrMissingFeedback) {
		t.Errorf("expected ErrMissingFeedback, got %v", err)
	}
}
