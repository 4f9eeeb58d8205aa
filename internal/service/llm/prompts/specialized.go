package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// RefineContext describes where a piece of content lives
type RefineContext struct {
	SectionType    models.SectionType `json:"sectionType"`
	Keywords       []string           `json:"keywords"`
	TargetAudience string             `json:"targetAudience"`
}

// RefinePrompt creates a prompt that rewrites one content string from user feedback
func (g *Generator) RefinePrompt(original, feedback string, ctx RefineContext) string {
	var sb strings.Builder

	sb.WriteString("You are an expert SEO copywriter.\n\n")
	sb.WriteString("Rewrite the following website content according to the user's feedback.\n\n")
	sb.WriteString(fmt.Sprintf("Original content:\n%s\n\n", original))
	sb.WriteString(fmt.Sprintf("User feedback:\n%s\n\n", feedback))

	if ctx.SectionType != "" {
		sb.WriteString(fmt.Sprintf("Section type: %s\n", ctx.SectionType))
	}
	if len(ctx.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords to keep: %s\n", strings.Join(ctx.Keywords, ", ")))
	}
	if ctx.TargetAudience != "" {
		sb.WriteString(fmt.Sprintf("Target audience: %s\n", ctx.TargetAudience))
	}

	sb.WriteString("\nReturn only the rewritten content, without quotes, explanations or markdown formatting.")

	return sb.String()
}

// insightDigest is the compact view of an analysis sent to the synthesis call
type insightDigest struct {
	Label           string   `json:"label"`
	PageType        string   `json:"pageType"`
	OverallSeoScore int      `json:"overallSeoScore"`
	Sections        []string `json:"sections"`
	Keywords        []string `json:"keywords"`
}

func digest(label string, r *models.AnalysisResult) insightDigest {
	d := insightDigest{Label: label, PageType: r.PageType, OverallSeoScore: r.OverallSeoScore}
	seen := make(map[string]bool)
	for _, s := range r.Sections {
		d.Sections = append(d.Sections, fmt.Sprintf("%s (%s, score %d)", s.Label, s.Type, s.SeoScore))
		for _, kw := range s.Keywords {
			if !seen[kw] {
				seen[kw] = true
				d.Keywords = append(d.Keywords, kw)
			}
		}
	}
	return d
}

// InsightsPrompt creates the text-only prompt comparing the primary page with competitors
func (g *Generator) InsightsPrompt(yours *models.AnalysisResult, competitors []*models.AnalysisResult, keywords []string) string {
	var sb strings.Builder

	sb.WriteString("You are a competitive SEO strategist.\n\n")
	sb.WriteString(fmt.Sprintf("Target keywords: %s\n\n", strings.Join(keywords, ", ")))

	yoursJSON, _ := json.Marshal(digest("Your page", yours))
	sb.WriteString("Your page analysis (JSON):\n")
	sb.Write(yoursJSON)
	sb.WriteString("\n\n")

	for i, c := range competitors {
		label := fmt.Sprintf("Competitor %d", i+1)
		cJSON, _ := json.Marshal(digest(label, c))
		sb.WriteString(fmt.Sprintf("%s analysis (JSON):\n", label))
		sb.Write(cJSON)
		sb.WriteString("\n\n")
	}

	sb.WriteString("For each competitor, list its strengths, its weaknesses, how your page can differentiate, ")
	sb.WriteString("and keyword gaps (keywords the competitor covers that your page does not).\n")
	sb.WriteString("Respond only with a JSON array with one object per competitor, using the competitor label as 'competitor'.")

	return sb.String()
}
