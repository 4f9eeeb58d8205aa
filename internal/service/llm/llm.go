package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/tokens"
)

// Common errors
var (
	ErrAPIRequestFailed   = errors.New("LLM API request failed")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrBudgetExceeded     = errors.New("daily LLM budget exceeded")
	ErrResponseProcessing = errors.New("failed to process LLM response")
	ErrInvalidProvider    = errors.New("invalid LLM provider specified")
	ErrEmptyResponse      = errors.New("model returned no content")
	ErrBlocked            = errors.New("prompt blocked by provider")
	ErrCacheMiss          = errors.New("cache miss")
)

// Image is an inline image part sent alongside the prompt
type Image struct {
	MIMEType string
	Data     []byte
}

// GenerateRequest is one model invocation. A nil Schema requests free text.
type GenerateRequest struct {
	Provider    string
	Prompt      string
	Images      []Image
	Schema      *genai.Schema
	Temperature float32
	// Cacheable marks text-only requests whose answer may be served from cache
	Cacheable bool
}

// GenerateResponse is the raw text answer plus accounting metadata
type GenerateResponse struct {
	Text             string        `json:"text"`
	Model            string        `json:"model"`
	ProviderUsed     string        `json:"provider_used,omitempty"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	CachedResult     bool          `json:"cached_result"`
	ProcessingTime   time.Duration `json:"processing_time,omitempty"`
}

// Generator is what callers of the model need
type Generator interface {
	Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error)
}

// Provider interface for LLM providers
type Provider interface {
	// Generate performs a single model call
	Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error)

	// GetName returns the name of the provider
	GetName() string

	// Close performs any necessary cleanup
	Close() error
}

// Service handles LLM API interactions with rate limiting, budgeting and optional retries
type Service struct {
	providers       map[string]Provider
	defaultProvider string
	redisClient     *redis.Client
	limiter         *rate.Limiter
	tracker         *tokens.Tracker
	cacheTTL        time.Duration
	maxRetries      int
	retryDelay      time.Duration
	mutex           sync.RWMutex
	logger          logging.Logger
}

// ServiceOptions contains configuration for the LLM service
type ServiceOptions struct {
	DefaultProvider string
	RedisClient     *redis.Client
	RateLimit       rate.Limit
	RateBurst       int
	CacheTTL        time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	Tracker         *tokens.Tracker
	Logger          logging.Logger
}

// NewService creates a new LLM service with the specified options.
// MaxRetries defaults to zero: failures surface to the caller immediately.
func NewService(opts ServiceOptions) *Service {
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = rate.Limit(2)
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 1 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = &logging.DefaultLogger{}
	}

	return &Service{
		providers:       make(map[string]Provider),
		defaultProvider: opts.DefaultProvider,
		redisClient:     opts.RedisClient,
		limiter:         rate.NewLimiter(opts.RateLimit, opts.RateBurst),
		tracker:         opts.Tracker,
		cacheTTL:        opts.CacheTTL,
		maxRetries:      opts.MaxRetries,
		retryDelay:      opts.RetryDelay,
		logger:          opts.Logger,
	}
}

// RegisterProvider registers an LLM provider with the service
func (s *Service) RegisterProvider(provider Provider) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	providerName := provider.GetName()
	s.providers[providerName] = provider

	if s.defaultProvider == "" {
		s.defaultProvider = providerName
	}

	s.logger.Info("Registered LLM provider", "provider", providerName)
}

// GetProvider returns a provider by name, using the default if name is empty
func (s *Service) GetProvider(name string) (Provider, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if name == "" {
		name = s.defaultProvider
	}

	provider, exists := s.providers[name]
	if !exists {
		return nil, ErrInvalidProvider
	}

	return provider, nil
}

// Close closes every registered provider
func (s *Service) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var errs []error
	for name, provider := range s.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// generateCacheKey derives a cache key from the provider and prompt text
func (s *Service) generateCacheKey(provider string, request *GenerateRequest) string {
	sum := sha256.Sum256([]byte(request.Prompt))
	return fmt.Sprintf("llm:%s:%s", provider, hex.EncodeToString(sum[:]))
}

func (s *Service) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redisClient == nil {
		return "", ErrCacheMiss
	}

	text, err := s.redisClient.Get(ctx, key).Result()
	if err != nil || text == "" {
		return "", ErrCacheMiss
	}
	return text, nil
}

// Generate performs one model call with caching, rate limiting, budget checks and retries
func (s *Service) Generate(ctx context.Context, request *GenerateRequest) (*GenerateResponse, error) {
	startTime := time.Now()

	provider, err := s.GetProvider(request.Provider)
	if err != nil {
		return nil, err
	}

	cacheable := request.Cacheable && request.Schema == nil && len(request.Images) == 0
	cacheKey := s.generateCacheKey(provider.GetName(), request)
	if cacheable {
		if text, err := s.getFromCache(ctx, cacheKey); err == nil {
			s.logger.Debug("Cache hit for generation", "provider", provider.GetName())
			return &GenerateResponse{
				Text:           text,
				ProviderUsed:   provider.GetName(),
				CachedResult:   true,
				ProcessingTime: time.Since(startTime),
			}, nil
		}
	}

	if s.tracker != nil && s.tracker.IsBudgetExceeded() {
		s.logger.Warn("Daily LLM budget exhausted", "remaining", s.tracker.GetRemainingBudget())
		return nil, ErrBudgetExceeded
	}

	// Apply rate limiting
	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Error("Rate limit exceeded", "error", err)
		return nil, ErrRateLimitExceeded
	}

	var response *GenerateResponse
	var lastErr error

	for retry := 0; retry <= s.maxRetries; retry++ {
		if retry > 0 {
			s.logger.Info("Retrying LLM API request",
				"attempt", retry,
				"provider", provider.GetName())

			// Wait before retry with exponential backoff
			select {
			case <-time.After(s.retryDelay * time.Duration(1<<uint(retry-1))):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		response, lastErr = provider.Generate(ctx, request)
		if lastErr == nil {
			break
		}

		s.logger.Error("LLM API request failed",
			"error", lastErr,
			"provider", provider.GetName(),
			"retry", retry)

		if errors.Is(lastErr, ErrBlocked) {
			break
		}
	}

	if lastErr != nil {
		if errors.Is(lastErr, ErrBlocked) || errors.Is(lastErr, ErrEmptyResponse) {
			return nil, fmt.Errorf("%w: %w", ErrAPIRequestFailed, lastErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrAPIRequestFailed, lastErr)
	}

	response.ProviderUsed = provider.GetName()
	response.ProcessingTime = time.Since(startTime)
	response.CachedResult = false

	s.recordUsage(request, response)

	if cacheable && s.redisClient != nil {
		if err := s.redisClient.Set(ctx, cacheKey, response.Text, s.cacheTTL).Err(); err != nil {
			s.logger.Error("Failed to cache LLM response", "error", err)
		}
	}

	s.logger.Info("Generated content successfully",
		"provider", provider.GetName(),
		"model", response.Model,
		"images", len(request.Images),
		"structured", request.Schema != nil,
		"time", response.ProcessingTime)

	return response, nil
}

func (s *Service) recordUsage(request *GenerateRequest, response *GenerateResponse) {
	if s.tracker == nil {
		return
	}

	promptTokens, completionTokens := response.PromptTokens, response.CompletionTokens
	if promptTokens == 0 && completionTokens == 0 {
		promptTokens, completionTokens = tokens.CalculateContextSize(request.Prompt, response.Text)
	}

	if err := s.tracker.RecordUsage(tokens.UsageEntry{
		Timestamp:        time.Now(),
		Model:            response.Model,
		Provider:         response.ProviderUsed,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
	}); err != nil {
		s.logger.Warn("Failed to record token usage", "error", err)
	}
}

var codeBlocksRegex = regexp.MustCompile("(?s)```(?:[a-zA-Z]+)?\\s*(.+?)```")

// CleanCodeBlocks removes markdown code blocks from text
func CleanCodeBlocks(text string) string {
	if matches := codeBlocksRegex.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// If no code blocks found, return the original text
	return strings.TrimSpace(text)
}
