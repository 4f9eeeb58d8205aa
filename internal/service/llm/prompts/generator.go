package prompts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

var (
	ErrMissingAudience = errors.New("target audience is required")
	ErrMissingKeywords = errors.New("at least one keyword is required")
)

// AnalysisParams are the user-supplied inputs of a screenshot analysis
type AnalysisParams struct {
	WebsiteURL        string
	Keywords          []string
	TargetAudience    string
	BrandVoice        *models.BrandVoiceProfile
	GenerateVariants  bool
	CompetitorContext []string
}

// ValidateParams checks the only preconditions the builder relies on
func ValidateParams(params AnalysisParams) error {
	if strings.TrimSpace(params.TargetAudience) == "" {
		return ErrMissingAudience
	}
	if len(params.Keywords) == 0 {
		return ErrMissingKeywords
	}
	return nil
}

// ParseKeywords splits comma-separated input into trimmed, non-empty keywords
func ParseKeywords(input string) []string {
	parts := strings.Split(input, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Generator creates prompts for LLM services
type Generator struct{}

// NewGenerator creates a new prompt generator
func NewGenerator() *Generator {
	return &Generator{}
}

// AnalysisPrompt creates the instruction that accompanies a screenshot.
// Optional context blocks are only written when present.
func (g *Generator) AnalysisPrompt(params AnalysisParams) string {
	var sb strings.Builder

	sb.WriteString("You are an expert SEO copywriter and conversion-focused UX analyst.\n\n")
	sb.WriteString("Analyze the attached webpage screenshot. Identify every visually and semantically distinct content section ")
	sb.WriteString("and, for each one, transcribe its current text and write improved, SEO-optimized content.\n\n")

	if params.WebsiteURL != "" {
		sb.WriteString(fmt.Sprintf("Website: %s\n", params.WebsiteURL))
	}
	sb.WriteString(fmt.Sprintf("Target Audience: %s\n", params.TargetAudience))
	sb.WriteString(fmt.Sprintf("Target Keywords: %s\n\n", strings.Join(params.Keywords, ", ")))

	if params.BrandVoice != nil {
		writeBrandVoice(&sb, params.BrandVoice)
	}

	if len(params.CompetitorContext) > 0 {
		sb.WriteString("Competitor Context:\n")
		for _, c := range params.CompetitorContext {
			sb.WriteString(fmt.Sprintf("- %s\n", c))
		}
		sb.WriteString("Differentiate the suggested content from these competitors.\n\n")
	}

	sb.WriteString("For each section provide:\n")
	sb.WriteString(fmt.Sprintf("- a unique id and a type from: %s\n", joinSectionTypes()))
	sb.WriteString("- a short human-readable label\n")
	sb.WriteString("- its bounding box as x, y, width and height in percent (0-100) of the image dimensions\n")
	sb.WriteString("- the transcribed current content, if any\n")
	sb.WriteString("- suggestedContent that naturally integrates the target keywords\n")
	sb.WriteString("- an SEO score from 0 to 100, the keywords actually used and the character count of suggestedContent\n")
	sb.WriteString("- optional readabilityScore (0-100), sentimentScore (-1 to 1), technical SEO and accessibility issues\n")

	if params.GenerateVariants {
		sb.WriteString("- 3 to 5 contentVariants with different tones (professional, casual, friendly, authoritative, playful, empathetic) ")
		sb.WriteString("and lengths (short, medium, long), each with its own SEO score, an optional predictedCTR and a one-sentence reasoning\n")
	} else {
		sb.WriteString("- an empty contentVariants list\n")
	}
	if params.BrandVoice != nil {
		sb.WriteString("- brandVoiceMatch (0-100) describing how well suggestedContent fits the brand voice\n")
	}

	sb.WriteString("\nAlso provide an overallSeoScore (0-100), a prioritized list of recommendations, the pageType ")
	sb.WriteString("(for example landing, product, blog, pricing), technicalSeo suggestions and estimated performanceMetrics.")
	if params.BrandVoice != nil {
		sb.WriteString(" Include a brandVoiceAnalysis of the current page against the brand voice.")
	}
	sb.WriteString("\n\nRespond only with JSON that matches the provided schema.")

	return sb.String()
}

func writeBrandVoice(sb *strings.Builder, bv *models.BrandVoiceProfile) {
	sb.WriteString("Brand Voice:\n")
	if bv.Tone != "" {
		sb.WriteString(fmt.Sprintf("- Tone: %s\n", bv.Tone))
	}
	sb.WriteString(fmt.Sprintf("- Formality: %d/10\n", bv.Formality))
	if bv.TargetReadingLevel > 0 {
		sb.WriteString(fmt.Sprintf("- Target reading grade level: %d\n", bv.TargetReadingLevel))
	}
	if bv.SentenceStructure != "" {
		sb.WriteString(fmt.Sprintf("- Sentence structure: %s\n", bv.SentenceStructure))
	}
	if len(bv.PreferredVocabulary) > 0 {
		sb.WriteString(fmt.Sprintf("- Preferred vocabulary: %s\n", strings.Join(bv.PreferredVocabulary, ", ")))
	}
	if len(bv.AvoidWords) > 0 {
		sb.WriteString(fmt.Sprintf("- Never use: %s\n", strings.Join(bv.AvoidWords, ", ")))
	}
	sb.WriteString("\n")
}

func joinSectionTypes() string {
	names := make([]string, len(models.SectionTypes))
	for i, t := range models.SectionTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
