package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

func validResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		OverallSeoScore: 72,
		PageType:        "landing",
		Recommendations: []string{"Add a clearer CTA"},
		Sections: []models.DetectedSection{
			{
				ID:               "s1",
				Type:             models.SectionHero,
				Label:            "Hero",
				Position:         models.Position{X: 0, Y: 0, Width: 100, Height: 30},
				SuggestedContent: "Grow faster with our CRM",
				SeoScore:         80,
				Keywords:         []string{"crm"},
				CharacterCount:   24,
				ContentVariants: []models.ContentVariant{
					{ID: "v1", Content: "Sell more", SeoScore: 70, Tone: models.ToneCasual, LengthCategory: models.LengthShort},
				},
			},
		},
	}
}

func TestValidateAnalysisAcceptsValidResult(t *testing.T) {
	if err := ValidateAnalysis(validResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAnalysisAllowsOverflowingBox(t *testing.T) {
	r := validResult()
	r.Sections[0].Position = models.Position{X: 80, Y: 90, Width: 40, Height: 20}

	if err := ValidateAnalysis(r); err != nil {
		t.Fatalf("x+width beyond 100 should be accepted: %v", err)
	}
}

func TestValidateAnalysisReportsEveryIssue(t *testing.T) {
	sentiment := 1.5
	r := validResult()
	r.OverallSeoScore = 140
	r.Sections[0].Type = "sidebar"
	r.Sections[0].SeoScore = -3
	r.Sections[0].SentimentScore = &sentiment
	r.Sections[0].Position.Width = 120
	r.Sections[0].ContentVariants[0].Tone = "sarcastic"

	err := ValidateAnalysis(r)
	if !errors.Is(err, ErrInvalidModelResponse) {
		t.Fatalf("expected ErrInvalidModelResponse, got %v", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(vErr.Issues) != 6 {
		t.Errorf("expected 6 issues, got %d: %v", len(vErr.Issues), vErr.Issues)
	}
	if !strings.Contains(err.Error(), "sections[0].type") {
		t.Errorf("error should name the offending field: %v", err)
	}
}

func TestValidateAnalysisEmptySections(t *testing.T) {
	r := validResult()
	r.Sections = nil

	err := ValidateAnalysis(r)
	if err == nil || !strings.Contains(err.Error(), "sections must not be empty") {
		t.Errorf("expected empty sections error, got %v", err)
	}
}

func TestValidateAnalysisNil(t *testing.T) {
	if err := ValidateAnalysis(nil); !errors.Is(err, ErrInvalidModelResponse) {
		t.Errorf("expected ErrInvalidModelResponse for nil, got %v", err)
	}
}
