package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// ErrInvalidModelResponse marks a parsed response that breaks the output contract
var ErrInvalidModelResponse = errors.New("invalid model response")

// ValidationError lists every field-level problem found in a response
type ValidationError struct {
	Issues []string `json:"issues"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidModelResponse, strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidModelResponse
}

type collector struct {
	issues []string
}

func (c *collector) addf(format string, args ...interface{}) {
	c.issues = append(c.issues, fmt.Sprintf(format, args...))
}

func (c *collector) scoreInt(field string, v int) {
	if v < 0 || v > 100 {
		c.addf("%s out of range [0,100]: %d", field, v)
	}
}

func (c *collector) scoreFloat(field string, v *float64, min, max float64) {
	if v != nil && (*v < min || *v > max) {
		c.addf("%s out of range [%g,%g]: %g", field, min, max, *v)
	}
}

// ValidateAnalysis re-checks a parsed analysis against the output contract:
// non-empty sections, score ranges, enum membership and bounding-box sanity.
func ValidateAnalysis(result *models.AnalysisResult) error {
	if result == nil {
		return &ValidationError{Issues: []string{"response is empty"}}
	}

	c := &collector{}

	if len(result.Sections) == 0 {
		c.addf("sections must not be empty")
	}
	c.scoreInt("overallSeoScore", result.OverallSeoScore)
	if strings.TrimSpace(result.PageType) == "" {
		c.addf("pageType must not be empty")
	}

	for i, s := range result.Sections {
		prefix := fmt.Sprintf("sections[%d]", i)
		if s.ID == "" {
			c.addf("%s.id must not be empty", prefix)
		}
		if !s.Type.Valid() {
			c.addf("%s.type %q is not a known section type", prefix, s.Type)
		}
		if strings.TrimSpace(s.SuggestedContent) == "" {
			c.addf("%s.suggestedContent must not be empty", prefix)
		}
		c.scoreInt(prefix+".seoScore", s.SeoScore)
		c.scoreFloat(prefix+".readabilityScore", s.ReadabilityScore, 0, 100)
		c.scoreFloat(prefix+".sentimentScore", s.SentimentScore, -1, 1)
		c.scoreFloat(prefix+".brandVoiceMatch", s.BrandVoiceMatch, 0, 100)
		validatePosition(c, prefix+".position", s.Position)

		for j, v := range s.ContentVariants {
			vp := fmt.Sprintf("%s.contentVariants[%d]", prefix, j)
			if !v.Tone.Valid() {
				c.addf("%s.tone %q is not a known tone", vp, v.Tone)
			}
			if !v.LengthCategory.Valid() {
				c.addf("%s.lengthCategory %q is not a known length", vp, v.LengthCategory)
			}
			c.scoreInt(vp+".seoScore", v.SeoScore)
		}
	}

	if len(c.issues) > 0 {
		return &ValidationError{Issues: c.issues}
	}
	return nil
}

// validatePosition checks each component lies in [0,100]. The producer does not
// guarantee x+width or y+height stay within the image, so sums are not checked.
func validatePosition(c *collector, field string, p models.Position) {
	for _, comp := range []struct {
		name string
		v    float64
	}{{"x", p.X}, {"y", p.Y}, {"width", p.Width}, {"height", p.Height}} {
		if comp.v < 0 || comp.v > 100 {
			c.addf("%s.%s out of range [0,100]: %g", field, comp.name, comp.v)
		}
	}
}
