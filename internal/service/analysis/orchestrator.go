package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/prompts"
)

// CompetitorPlaceholder replaces the website label of competitor screenshots
const CompetitorPlaceholder = "Competitor website"

const insightsTemperature = 0.5

// ErrNoImages is returned when an orchestrator receives nothing to analyze
var ErrNoImages = errors.New("at least one image is required")

// ProgressFunc receives a percentage and the file about to be analyzed
type ProgressFunc func(percent int, fileName string)

// BatchRequest analyzes several screenshots with shared settings
type BatchRequest struct {
	Images           []Image
	WebsiteURL       string
	Keywords         []string
	TargetAudience   string
	BrandVoice       *models.BrandVoiceProfile
	GenerateVariants bool
	OnProgress       ProgressFunc
}

// BatchResult holds the successful analyses in input order and one entry per
// failed input
type BatchResult struct {
	Results  []*models.AnalysisResult `json:"results"`
	Failures []models.BatchFailure    `json:"failures"`
}

// BatchAnalyze runs one analysis per image, strictly in sequence. A failed
// item is logged, recorded in Failures and skipped. Progress is reported
// before each call and reaches 100 once the loop ends. Only cancellation of
// ctx stops the loop early; the partial result is returned with ctx's error.
func (c *Client) BatchAnalyze(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if len(req.Images) == 0 {
		return nil, ErrNoImages
	}
	if err := prompts.ValidateParams(prompts.AnalysisParams{Keywords: req.Keywords, TargetAudience: req.TargetAudience}); err != nil {
		return nil, err
	}

	progress := req.OnProgress
	if progress == nil {
		progress = func(int, string) {}
	}

	out := &BatchResult{
		Results:  make([]*models.AnalysisResult, 0, len(req.Images)),
		Failures: []models.BatchFailure{},
	}
	total := len(req.Images)

	for i, img := range req.Images {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		progress(i*100/total, img.FileName)

		result, err := c.Analyze(ctx, Request{
			Image:            img,
			WebsiteURL:       req.WebsiteURL,
			Keywords:         req.Keywords,
			TargetAudience:   req.TargetAudience,
			BrandVoice:       req.BrandVoice,
			GenerateVariants: req.GenerateVariants,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			c.logger.Error("Batch item failed",
				"index", i,
				"file", img.FileName,
				"error", err)
			out.Failures = append(out.Failures, models.BatchFailure{
				Index:    i,
				FileName: img.FileName,
				Error:    err.Error(),
			})
			continue
		}
		out.Results = append(out.Results, result)
	}

	progress(100, "")

	c.logger.Info("Batch analysis finished",
		"total", total,
		"succeeded", len(out.Results),
		"failed", len(out.Failures))

	return out, nil
}

// CompareRequest analyzes a primary screenshot against competitors
type CompareRequest struct {
	YourImage        Image
	CompetitorImages []Image
	WebsiteURL       string
	Keywords         []string
	TargetAudience   string
	BrandVoice       *models.BrandVoiceProfile
	OnProgress       ProgressFunc
}

// Compare analyzes the primary image with variants, then each competitor
// without variants under a placeholder label, then synthesises insights in
// one text-only call. A failed competitor is skipped. A failed synthesis
// yields an empty insights list.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*models.ComparisonResult, error) {
	if len(req.CompetitorImages) == 0 {
		return nil, ErrNoImages
	}

	progress := req.OnProgress
	if progress == nil {
		progress = func(int, string) {}
	}
	steps := len(req.CompetitorImages) + 2

	progress(0, req.YourImage.FileName)
	yours, err := c.Analyze(ctx, Request{
		Image:            req.YourImage,
		WebsiteURL:       req.WebsiteURL,
		Keywords:         req.Keywords,
		TargetAudience:   req.TargetAudience,
		BrandVoice:       req.BrandVoice,
		GenerateVariants: true,
	})
	if err != nil {
		return nil, err
	}

	competitors := make([]*models.AnalysisResult, 0, len(req.CompetitorImages))
	for i, img := range req.CompetitorImages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		progress((i+1)*100/steps, img.FileName)

		result, err := c.Analyze(ctx, Request{
			Image:            img,
			WebsiteURL:       CompetitorPlaceholder,
			Keywords:         req.Keywords,
			TargetAudience:   req.TargetAudience,
			GenerateVariants: false,
		})
		if err != nil {
			c.logger.Error("Competitor analysis failed",
				"index", i,
				"file", img.FileName,
				"error", err)
			continue
		}
		competitors = append(competitors, result)
	}

	progress((steps-1)*100/steps, "")

	comparison := &models.ComparisonResult{
		YourAnalysis:       yours,
		CompetitorAnalyses: competitors,
		Insights:           []models.CompetitorInsight{},
	}

	if len(competitors) > 0 {
		insights, err := c.synthesizeInsights(ctx, yours, competitors, req.Keywords)
		if err != nil {
			c.logger.Warn("Competitor insight synthesis failed", "error", err)
		} else {
			comparison.Insights = insights
		}
	}

	progress(100, "")
	return comparison, nil
}

func (c *Client) synthesizeInsights(ctx context.Context, yours *models.AnalysisResult, competitors []*models.AnalysisResult, keywords []string) ([]models.CompetitorInsight, error) {
	response, err := c.generator.Generate(ctx, &llm.GenerateRequest{
		Prompt:      c.prompts.InsightsPrompt(yours, competitors, keywords),
		Schema:      prompts.InsightsSchema(),
		Temperature: insightsTemperature,
	})
	if err != nil {
		return nil, err
	}

	var insights []models.CompetitorInsight
	if err := json.Unmarshal([]byte(llm.CleanCodeBlocks(response.Text)), &insights); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrResponseProcessing, err)
	}
	if insights == nil {
		insights = []models.CompetitorInsight{}
	}
	return insights, nil
}
