package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/chynybekuuludastan/content_mapper/internal/api"
	ws "github.com/chynybekuuludastan/content_mapper/internal/api/websocket"
	"github.com/chynybekuuludastan/content_mapper/internal/config"
	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/service/analysis"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/providers"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/tokens"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
	"github.com/chynybekuuludastan/content_mapper/internal/storage/images"
)

// @title Content Mapper API
// @version 1.0
// @description Maps website screenshots to SEO-optimised content with a vision model

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize configuration
	cfg := config.NewConfig()

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if zl, ok := logger.(*logging.ZapLogger); ok {
		defer zl.Sync()
	}

	ctx := context.Background()

	// Redis backs the redis storage backend and the refinement cache. With
	// postgres storage a missing Redis only disables the cache.
	var redisClient *redis.Client
	if cfg.StorageBackend != "memory" {
		redisClient, err = storage.InitRedis(ctx, cfg.RedisURI)
		if err != nil {
			if cfg.StorageBackend == "redis" {
				log.Fatalf("Failed to connect to Redis: %v", err)
			}
			logger.Warn("Redis unavailable, refinement cache disabled", "error", err)
			redisClient = nil
		}
	}

	backend, err := openBackend(cfg, redisClient)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	store := storage.NewStore(backend, storage.StoreOptions{
		Namespace: cfg.StorageNamespace,
		Logger:    logger,
	})
	defer store.Close()

	imageStore, err := openImageStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s image store: %v", cfg.ImageStore, err)
	}

	// Model gateway
	tracker := tokens.NewTracker(cfg.LLMDailyBudget)
	llmService := llm.NewService(llm.ServiceOptions{
		RedisClient: redisClient,
		RateLimit:   rate.Limit(cfg.LLMRateLimit),
		RateBurst:   cfg.LLMRateBurst,
		CacheTTL:    cfg.RefineCacheTTL,
		MaxRetries:  cfg.LLMMaxRetries,
		RetryDelay:  cfg.LLMRetryDelay,
		Tracker:     tracker,
		Logger:      logger,
	})
	defer llmService.Close()

	gemini, err := providers.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini provider: %v", err)
	}
	llmService.RegisterProvider(gemini)

	hub := ws.NewHub(logger)
	go hub.Run()

	workspaces := analysis.NewWorkspaces(imageStore, analysis.WorkspaceOptions{
		IdleTTL:     cfg.SessionIdleTTL,
		MaxSessions: cfg.MaxSessions,
		Logger:      logger,
	})
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go workspaces.Run(sweepCtx, time.Minute)

	app := api.NewApp(cfg)
	api.SetupSwagger(app)
	api.SetupRoutes(app, api.Dependencies{
		Config:     cfg,
		Logger:     logger,
		Client:     analysis.NewClient(llmService, logger),
		Jobs:       analysis.NewJobs(imageStore, analysis.DefaultMaxJobs, logger),
		Workspaces: workspaces,
		Store:      store,
		Images:     imageStore,
		Hub:        hub,
		Tracker:    tracker,
	})

	// Start server
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	logger.Info("Server started",
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
		"images", cfg.ImageStore,
		"model", cfg.GeminiModel)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}

func openBackend(cfg *config.Config, redisClient *redis.Client) (storage.Backend, error) {
	switch cfg.StorageBackend {
	case "redis":
		return storage.NewRedisBackend(redisClient), nil
	case "postgres":
		return storage.InitPostgreSQL(cfg.PostgresURI, !cfg.IsProduction())
	default:
		return storage.NewMemoryBackend(), nil
	}
}

func openImageStore(ctx context.Context, cfg *config.Config) (images.Store, error) {
	if cfg.ImageStore != "minio" {
		return images.NewMemoryStore(), nil
	}
	return images.NewMinioStore(ctx, images.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
}
