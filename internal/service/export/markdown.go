package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// Markdown renders a readable report
func Markdown(result *models.AnalysisResult, config models.AnalysisConfig) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Content Analysis Report\n\n")

	if config.WebsiteURL != "" {
		sb.WriteString(fmt.Sprintf("**Website:** %s\n\n", config.WebsiteURL))
	}
	if config.TargetAudience != "" {
		sb.WriteString(fmt.Sprintf("**Target Audience:** %s\n\n", config.TargetAudience))
	}
	if len(config.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("**Keywords:** %s\n\n", strings.Join(config.Keywords, ", ")))
	}
	sb.WriteString(fmt.Sprintf("**Page Type:** %s\n\n", result.PageType))
	sb.WriteString(fmt.Sprintf("**Overall SEO Score:** %d/100\n\n", result.OverallSeoScore))
	if result.Timestamp != nil {
		sb.WriteString(fmt.Sprintf("**Analyzed:** %s\n\n", result.Timestamp.Format(time.RFC1123)))
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for _, r := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Sections\n\n")
	for i, s := range result.Sections {
		writeSection(&sb, i+1, s)
	}

	if t := result.TechnicalSEO; t != nil {
		sb.WriteString("## Technical SEO\n\n")
		writeField(&sb, "Meta Title", t.MetaTitle)
		writeField(&sb, "Meta Description", t.MetaDescription)
		sb.WriteString("\n")
		writeList(&sb, "H1 Tags", t.H1Tags)
		writeList(&sb, "Image Alt Texts", t.ImageAltTexts)
		writeList(&sb, "Internal Links", t.InternalLinks)
		if t.SchemaMarkup != "" {
			sb.WriteString("**Schema Markup:**\n\n```json\n")
			sb.WriteString(t.SchemaMarkup)
			sb.WriteString("\n```\n\n")
		}
	}

	if bv := result.BrandVoiceAnalysis; bv != nil {
		sb.WriteString("## Brand Voice\n\n")
		writeField(&sb, "Detected Tone", bv.DetectedTone)
		sb.WriteString(fmt.Sprintf("- **Consistency:** %.0f%%\n\n", bv.Consistency))
		writeList(&sb, "Suggestions", bv.Suggestions)
	}

	if pm := result.PerformanceMetrics; pm != nil {
		sb.WriteString("## Performance\n\n")
		sb.WriteString(fmt.Sprintf("- **Estimated Load Time:** %.1fs\n", pm.EstimatedLoadTime))
		sb.WriteString(fmt.Sprintf("- **Mobile Optimization:** %.0f/100\n", pm.MobileOptimization))
		if cwv := pm.CoreWebVitals; cwv != nil {
			sb.WriteString(fmt.Sprintf("- **Core Web Vitals:** LCP %.1fs, FID %.0fms, CLS %.2f\n", cwv.LCP, cwv.FID, cwv.CLS))
		}
		sb.WriteString("\n")
	}

	if len(result.CompetitorInsights) > 0 {
		sb.WriteString("## Competitor Insights\n\n")
		for _, ci := range result.CompetitorInsights {
			sb.WriteString(fmt.Sprintf("### %s\n\n", ci.Competitor))
			writeList(&sb, "Strengths", ci.Strengths)
			writeList(&sb, "Weaknesses", ci.Weaknesses)
			writeList(&sb, "Differentiators", ci.Differentiators)
			writeList(&sb, "Keyword Gaps", ci.KeywordGaps)
		}
	}

	return sb.String(), nil
}

func writeSection(sb *strings.Builder, n int, s models.DetectedSection) {
	sb.WriteString(fmt.Sprintf("### %d. %s (%s)\n\n", n, s.Label, s.Type))
	sb.WriteString(fmt.Sprintf("- **SEO Score:** %d/100\n", s.SeoScore))
	if len(s.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("- **Keywords:** %s\n", strings.Join(s.Keywords, ", ")))
	}
	sb.WriteString(fmt.Sprintf("- **Characters:** %d\n", s.CharacterCount))
	if s.ReadabilityScore != nil {
		sb.WriteString(fmt.Sprintf("- **Readability:** %.0f/100\n", *s.ReadabilityScore))
	}
	sb.WriteString("\n")

	if s.CurrentContent != "" {
		sb.WriteString("**Current Content:**\n\n")
		sb.WriteString(blockquote(s.CurrentContent))
	}
	sb.WriteString("**Suggested Content:**\n\n")
	sb.WriteString(blockquote(s.SuggestedContent))

	if len(s.ContentVariants) > 0 {
		sb.WriteString("**Variants:**\n\n")
		for _, v := range s.ContentVariants {
			sb.WriteString(fmt.Sprintf("- *%s, %s* (SEO %d): %s\n", v.Tone, v.LengthCategory, v.SeoScore, v.Content))
			if v.Reasoning != "" {
				sb.WriteString(fmt.Sprintf("  - %s\n", v.Reasoning))
			}
		}
		sb.WriteString("\n")
	}

	issues := append(append([]string{}, s.TechnicalSeoIssues...), s.AccessibilityIssues...)
	writeList(sb, "Issues", issues)
}

func blockquote(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return "> " + strings.Join(lines, "\n> ") + "\n\n"
}

func writeField(sb *strings.Builder, name, value string) {
	if value != "" {
		sb.WriteString(fmt.Sprintf("- **%s:** %s\n", name, value))
	}
}

func writeList(sb *strings.Builder, name string, values []string) {
	if len(values) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("**%s:**\n\n", name))
	for _, v := range values {
		sb.WriteString(fmt.Sprintf("- %s\n", v))
	}
	sb.WriteString("\n")
}
