package prompts

import (
	"github.com/google/generative-ai-go/genai"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func num(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Description: desc}
}

func integer(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger, Description: desc}
}

func strList(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: &genai.Schema{Type: genai.TypeString}}
}

func enum(desc string, values []string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Format: "enum", Description: desc, Enum: values}
}

func sectionTypeValues() []string {
	out := make([]string, len(models.SectionTypes))
	for i, t := range models.SectionTypes {
		out[i] = string(t)
	}
	return out
}

func toneValues() []string {
	out := make([]string, len(models.Tones))
	for i, t := range models.Tones {
		out[i] = string(t)
	}
	return out
}

func lengthValues() []string {
	out := make([]string, len(models.LengthCategories))
	for i, l := range models.LengthCategories {
		out[i] = string(l)
	}
	return out
}

func variantSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":             str("Variant id, unique within the section"),
			"content":        str("Alternative phrasing"),
			"seoScore":       integer("SEO score 0-100"),
			"tone":           enum("Tone of the variant", toneValues()),
			"lengthCategory": enum("Relative length", lengthValues()),
			"predictedCTR":   num("Predicted click-through rate in percent"),
			"reasoning":      str("Why this variant could perform well"),
		},
		Required: []string{"id", "content", "seoScore", "tone", "lengthCategory", "reasoning"},
	}
}

func sectionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":    str("Section id, unique within this analysis"),
			"type":  enum("Section kind", sectionTypeValues()),
			"label": str("Short display label"),
			"position": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"x":      num("Left edge in percent of image width"),
					"y":      num("Top edge in percent of image height"),
					"width":  num("Width in percent of image width"),
					"height": num("Height in percent of image height"),
				},
				Required: []string{"x", "y", "width", "height"},
			},
			"currentContent":      str("Transcribed original text"),
			"suggestedContent":    str("Primary rewritten text"),
			"contentVariants":     {Type: genai.TypeArray, Items: variantSchema()},
			"seoScore":            integer("SEO score 0-100"),
			"keywords":            strList("Keywords used in suggestedContent"),
			"characterCount":      integer("Character count of suggestedContent"),
			"readabilityScore":    num("Readability 0-100"),
			"sentimentScore":      num("Sentiment between -1 and 1"),
			"brandVoiceMatch":     num("Brand voice match 0-100"),
			"technicalSeoIssues":  strList("Technical SEO issues"),
			"accessibilityIssues": strList("Accessibility issues"),
		},
		Required: []string{
			"id", "type", "label", "position", "suggestedContent",
			"contentVariants", "seoScore", "keywords", "characterCount",
		},
	}
}

// AnalysisSchema declares the structured output expected from a screenshot analysis
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sections":        {Type: genai.TypeArray, Items: sectionSchema()},
			"overallSeoScore": integer("Overall SEO score 0-100"),
			"recommendations": strList("Prioritized recommendations"),
			"pageType":        str("Kind of page"),
			"technicalSeo": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"metaTitle":       str("Suggested meta title"),
					"metaDescription": str("Suggested meta description"),
					"h1Tags":          strList("Suggested H1 tags"),
					"imageAltTexts":   strList("Suggested image alt texts"),
					"schemaMarkup":    str("Suggested schema.org type or JSON-LD"),
					"internalLinks":   strList("Internal link suggestions"),
				},
			},
			"brandVoiceAnalysis": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"detectedTone": str("Tone detected on the page"),
					"consistency":  num("Consistency 0-100"),
					"suggestions":  strList("Suggestions to align with the brand voice"),
				},
				Required: []string{"detectedTone", "consistency", "suggestions"},
			},
			"performanceMetrics": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"estimatedLoadTime":  num("Estimated load time in seconds"),
					"mobileOptimization": num("Mobile optimization score 0-100"),
					"coreWebVitals": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"lcp": num("Largest contentful paint in seconds"),
							"fid": num("First input delay in milliseconds"),
							"cls": num("Cumulative layout shift"),
						},
						Required: []string{"lcp", "fid", "cls"},
					},
				},
			},
		},
		Required: []string{"sections", "overallSeoScore", "recommendations", "pageType"},
	}
}

// InsightsSchema declares the array returned by the competitor synthesis call
func InsightsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"competitor":      str("Competitor label"),
				"strengths":       strList("Competitor strengths"),
				"weaknesses":      strList("Competitor weaknesses"),
				"differentiators": strList("How your page can differentiate"),
				"keywordGaps":     strList("Keywords the competitor covers that your page does not"),
			},
			Required: []string{"competitor", "strengths", "weaknesses", "differentiators", "keywordGaps"},
		},
	}
}
