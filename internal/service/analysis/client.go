package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/prompts"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/validation"
)

var (
	ErrNoImage          = errors.New("an image is required")
	ErrUnsupportedImage = errors.New("file must be an image")
	ErrMissingContent   = errors.New("original content is required")
	ErrMissingFeedback  = errors.New("feedback is required")
)

const (
	analysisTemperature = 0.4
	refineTemperature   = 0.7
)

// Image is an uploaded screenshot. URL is the revocable reference the
// result is decorated with.
type Image struct {
	Data     []byte
	MIMEType string
	FileName string
	URL      string
}

func (img Image) validate() error {
	if len(img.Data) == 0 {
		return ErrNoImage
	}
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, img.MIMEType)
	}
	return nil
}

// Request is one single-image analysis
type Request struct {
	Image             Image
	WebsiteURL        string
	Keywords          []string
	TargetAudience    string
	BrandVoice        *models.BrandVoiceProfile
	GenerateVariants  bool
	CompetitorContext []string
}

func (r Request) params() prompts.AnalysisParams {
	return prompts.AnalysisParams{
		WebsiteURL:        r.WebsiteURL,
		Keywords:          r.Keywords,
		TargetAudience:    r.TargetAudience,
		BrandVoice:        r.BrandVoice,
		GenerateVariants:  r.GenerateVariants,
		CompetitorContext: r.CompetitorContext,
	}
}

// Validate checks the inputs the model call depends on
func (r Request) Validate() error {
	if err := r.Image.validate(); err != nil {
		return err
	}
	return prompts.ValidateParams(r.params())
}

// Client turns screenshots into content maps through the model gateway
type Client struct {
	generator llm.Generator
	prompts   *prompts.Generator
	logger    logging.Logger
	now       func() time.Time
}

// NewClient creates an analysis client over an explicitly constructed generator
func NewClient(generator llm.Generator, logger logging.Logger) *Client {
	if logger == nil {
		logger = &logging.DefaultLogger{}
	}
	return &Client{
		generator: generator,
		prompts:   prompts.NewGenerator(),
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze performs one model round trip for one screenshot
func (c *Client) Analyze(ctx context.Context, req Request) (*models.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	response, err := c.generator.Generate(ctx, &llm.GenerateRequest{
		Prompt:      c.prompts.AnalysisPrompt(req.params()),
		Images:      []llm.Image{{MIMEType: req.Image.MIMEType, Data: req.Image.Data}},
		Schema:      prompts.AnalysisSchema(),
		Temperature: analysisTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", req.Image.FileName, err)
	}

	result, err := ParseAnalysis(response.Text)
	if err != nil {
		c.logger.Warn("Model returned an unusable analysis",
			"file", req.Image.FileName,
			"error", err)
		return nil, err
	}

	now := c.now().UTC()
	result.ImageURL = req.Image.URL
	result.ImageFileName = req.Image.FileName
	result.Timestamp = &now

	c.logger.Info("Screenshot analyzed",
		"file", req.Image.FileName,
		"sections", len(result.Sections),
		"score", result.OverallSeoScore)

	return result, nil
}

// ParseAnalysis decodes model output and checks it against the output contract.
// Decode failures wrap llm.ErrResponseProcessing; contract violations are a
// *validation.ValidationError.
func ParseAnalysis(text string) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(llm.CleanCodeBlocks(text)), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrResponseProcessing, err)
	}
	if err := validation.ValidateAnalysis(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RefineRequest rewrites one piece of content from user feedback
type RefineRequest struct {
	OriginalContent string                `json:"originalContent"`
	UserFeedback    string                `json:"userFeedback"`
	Context         prompts.RefineContext `json:"context"`
}

// Refine performs one plain-text model call and returns the trimmed answer
func (c *Client) Refine(ctx context.Context, req RefineRequest) (string, error) {
	if strings.TrimSpace(req.OriginalContent) == "" {
		return "", ErrMissingContent
	}
	if strings.TrimSpace(req.UserFeedback) == "" {
		return "", ErrMissingFeedback
	}

	response, err := c.generator.Generate(ctx, &llm.GenerateRequest{
		Prompt:      c.prompts.RefinePrompt(req.OriginalContent, req.UserFeedback, req.Context),
		Temperature: refineTemperature,
		Cacheable:   true,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(response.Text), nil
}
