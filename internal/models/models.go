// internal/models/models.go
package models

import (
	"time"
)

// SectionType is the closed set of region kinds the model may detect
type SectionType string

const (
	SectionHero        SectionType = "hero"
	SectionSubheading  SectionType = "subheading"
	SectionFeatures    SectionType = "features"
	SectionCTAButton   SectionType = "cta_button"
	SectionBodyText    SectionType = "body_text"
	SectionFooter      SectionType = "footer"
	SectionNavigation  SectionType = "navigation"
	SectionTestimonial SectionType = "testimonial"
	SectionPricing     SectionType = "pricing"
	SectionForm        SectionType = "form"
)

// SectionTypes lists every SectionType in declaration order
var SectionTypes = []SectionType{
	SectionHero, SectionSubheading, SectionFeatures, SectionCTAButton, SectionBodyText,
	SectionFooter, SectionNavigation, SectionTestimonial, SectionPricing, SectionForm,
}

// Valid reports whether t is a member of the closed set
func (t SectionType) Valid() bool {
	for _, v := range SectionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Tone of a content variant
type Tone string

const (
	ToneProfessional  Tone = "professional"
	ToneCasual        Tone = "casual"
	ToneFriendly      Tone = "friendly"
	ToneAuthoritative Tone = "authoritative"
	TonePlayful       Tone = "playful"
	ToneEmpathetic    Tone = "empathetic"
)

// Tones lists every Tone
var Tones = []Tone{ToneProfessional, ToneCasual, ToneFriendly, ToneAuthoritative, TonePlayful, ToneEmpathetic}

// Valid reports whether t is a known tone
func (t Tone) Valid() bool {
	for _, v := range Tones {
		if v == t {
			return true
		}
	}
	return false
}

// LengthCategory of a content variant
type LengthCategory string

const (
	LengthShort  LengthCategory = "short"
	LengthMedium LengthCategory = "medium"
	LengthLong   LengthCategory = "long"
)

// LengthCategories lists every LengthCategory
var LengthCategories = []LengthCategory{LengthShort, LengthMedium, LengthLong}

// Valid reports whether l is a known length category
func (l LengthCategory) Valid() bool {
	for _, v := range LengthCategories {
		if v == l {
			return true
		}
	}
	return false
}

// Position is a bounding box expressed in percentages of the image dimensions
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the centre point of the box
func (p Position) Center() (float64, float64) {
	return p.X + p.Width/2, p.Y + p.Height/2
}

// ContentVariant is an alternative phrasing of a section's content
type ContentVariant struct {
	ID             string         `json:"id"`
	Content        string         `json:"content"`
	SeoScore       int            `json:"seoScore"`
	Tone           Tone           `json:"tone"`
	LengthCategory LengthCategory `json:"lengthCategory"`
	PredictedCTR   *float64       `json:"predictedCTR,omitempty"`
	Reasoning      string         `json:"reasoning"`
}

// DetectedSection is one distinct region of the source screenshot
type DetectedSection struct {
	ID                  string           `json:"id"`
	Type                SectionType      `json:"type"`
	Label               string           `json:"label"`
	Position            Position         `json:"position"`
	CurrentContent      string           `json:"currentContent,omitempty"`
	SuggestedContent    string           `json:"suggestedContent"`
	ContentVariants     []ContentVariant `json:"contentVariants"`
	SeoScore            int              `json:"seoScore"`
	Keywords            []string         `json:"keywords"`
	CharacterCount      int              `json:"characterCount"`
	ReadabilityScore    *float64         `json:"readabilityScore,omitempty"`
	SentimentScore      *float64         `json:"sentimentScore,omitempty"`
	BrandVoiceMatch     *float64         `json:"brandVoiceMatch,omitempty"`
	TechnicalSeoIssues  []string         `json:"technicalSeoIssues"`
	AccessibilityIssues []string         `json:"accessibilityIssues"`
}

// TechnicalSEO holds page-level technical SEO suggestions
type TechnicalSEO struct {
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	H1Tags          []string `json:"h1Tags"`
	ImageAltTexts   []string `json:"imageAltTexts"`
	SchemaMarkup    string   `json:"schemaMarkup,omitempty"`
	InternalLinks   []string `json:"internalLinks"`
}

// CompetitorInsight summarises one competitor against the primary page
type CompetitorInsight struct {
	Competitor      string   `json:"competitor"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Differentiators []string `json:"differentiators"`
	KeywordGaps     []string `json:"keywordGaps"`
}

// BrandVoiceAnalysis is the model's assessment of tone consistency
type BrandVoiceAnalysis struct {
	DetectedTone string   `json:"detectedTone"`
	Consistency  float64  `json:"consistency"`
	Suggestions  []string `json:"suggestions"`
}

// CoreWebVitals estimated from the screenshot
type CoreWebVitals struct {
	LCP float64 `json:"lcp"`
	FID float64 `json:"fid"`
	CLS float64 `json:"cls"`
}

// PerformanceMetrics estimated from the screenshot
type PerformanceMetrics struct {
	EstimatedLoadTime  float64        `json:"estimatedLoadTime"`
	MobileOptimization float64        `json:"mobileOptimization"`
	CoreWebVitals      *CoreWebVitals `json:"coreWebVitals,omitempty"`
}

// AnalysisResult is the root aggregate produced by one model invocation
type AnalysisResult struct {
	Sections           []DetectedSection   `json:"sections"`
	OverallSeoScore    int                 `json:"overallSeoScore"`
	Recommendations    []string            `json:"recommendations"`
	PageType           string              `json:"pageType"`
	ImageURL           string              `json:"imageUrl"`
	ImageFileName      string              `json:"imageFileName,omitempty"`
	Timestamp          *time.Time          `json:"timestamp,omitempty"`
	TechnicalSEO       *TechnicalSEO       `json:"technicalSeo,omitempty"`
	CompetitorInsights []CompetitorInsight `json:"competitorInsights"`
	BrandVoiceAnalysis *BrandVoiceAnalysis `json:"brandVoiceAnalysis,omitempty"`
	PerformanceMetrics *PerformanceMetrics `json:"performanceMetrics,omitempty"`
}

// SectionByID returns the section with the given id, if any
func (r *AnalysisResult) SectionByID(id string) (*DetectedSection, bool) {
	for i := range r.Sections {
		if r.Sections[i].ID == id {
			return &r.Sections[i], true
		}
	}
	return nil, false
}

// BrandVoiceProfile is the user-authored style configuration
type BrandVoiceProfile struct {
	Tone                Tone     `json:"tone"`
	Formality           int      `json:"formality"`
	TargetReadingLevel  int      `json:"targetReadingLevel"`
	SentenceStructure   string   `json:"sentenceStructure"`
	PreferredVocabulary []string `json:"preferredVocabulary"`
	AvoidWords          []string `json:"avoidWords"`
}

// AnalysisConfig is the input configuration that produced an analysis
type AnalysisConfig struct {
	WebsiteURL     string   `json:"websiteUrl"`
	Keywords       []string `json:"keywords"`
	TargetAudience string   `json:"targetAudience"`
}

// HistoryRecord wraps one persisted analysis
type HistoryRecord struct {
	ID        string         `json:"id"`
	Result    AnalysisResult `json:"result"`
	Timestamp time.Time      `json:"timestamp"`
	Config    AnalysisConfig `json:"config"`
}
