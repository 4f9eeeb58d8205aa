package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm"
)

// DefaultGeminiModel is used when no model name is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements the llm.Provider interface for Google's Gemini API
type GeminiProvider struct {
	modelName string
	client    *genai.Client
	logger    logging.Logger
}

// NewGeminiProvider creates a new Gemini provider using the official client.
// The credential and model are passed explicitly; nothing is read from globals.
func NewGeminiProvider(ctx context.Context, apiKey string, modelName string, logger logging.Logger) (*GeminiProvider, error) {
	if apiKey == "" || apiKey == "YOUR_GEMINI_API_KEY" {
		return nil, errors.New("a valid Gemini API key is required")
	}

	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	if logger == nil {
		logger = &logging.DefaultLogger{}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		modelName: modelName,
		client:    client,
		logger:    logger,
	}, nil
}

// GetName returns the provider name
func (p *GeminiProvider) GetName() string {
	return "gemini"
}

// Generate implements the llm.Provider interface
func (p *GeminiProvider) Generate(ctx context.Context, request *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	model := p.client.GenerativeModel(p.modelName)

	temperature := request.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	model.SetTemperature(temperature)
	model.SetTopP(0.95)
	model.SetTopK(40)
	model.SetMaxOutputTokens(8192)

	if request.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = request.Schema
	}

	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockOnlyHigh},
	}

	parts := make([]genai.Part, 0, len(request.Images)+1)
	for _, img := range request.Images {
		parts = append(parts, genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	}
	parts = append(parts, genai.Text(request.Prompt))

	p.logger.Debug("Sending prompt to Gemini",
		"model", p.modelName,
		"images", len(request.Images),
		"prompt_chars", len(request.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		p.logger.Error("Gemini API error", "error", err)
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return nil, fmt.Errorf("%w: %s", llm.ErrBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, llm.ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, llm.ErrEmptyResponse
	}

	p.logger.Debug("Received response from Gemini", "chars", len(text))

	response := &llm.GenerateResponse{
		Text:  text,
		Model: p.modelName,
	}
	if resp.UsageMetadata != nil {
		response.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		response.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return response, nil
}

// Close closes the Gemini client
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
