package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/api/handlers"
	"github.com/chynybekuuludastan/content_mapper/internal/api/middleware"
	ws "github.com/chynybekuuludastan/content_mapper/internal/api/websocket"
	"github.com/chynybekuuludastan/content_mapper/internal/config"
	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/service/analysis"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/tokens"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
	"github.com/chynybekuuludastan/content_mapper/internal/storage/images"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Config     *config.Config
	Logger     logging.Logger
	Client     *analysis.Client
	Jobs       *analysis.Jobs
	Workspaces *analysis.Workspaces
	Store      *storage.Store
	Images     images.Store
	Hub        *ws.Hub
	Tracker    *tokens.Tracker
}

// NewApp creates the fiber app with the shared middleware and error handler
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "content-mapper",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		// One batch upload may carry MaxBatchImages screenshots
		BodyLimit: int(cfg.MaxUploadBytes) * handlers.MaxBatchImages,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	if !cfg.IsProduction() {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.SessionHeader,
		AllowMethods:  "GET, POST, PUT, DELETE, PATCH",
		ExposeHeaders: middleware.SessionHeader + ", Content-Disposition",
	}))

	return app
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, deps Dependencies) {
	if deps.Logger == nil {
		deps.Logger = &logging.DefaultLogger{}
	}

	// Initialize handlers
	analysisHandler := &handlers.AnalysisHandler{
		Client:     deps.Client,
		Jobs:       deps.Jobs,
		Workspaces: deps.Workspaces,
		Store:      deps.Store,
		Images:     deps.Images,
		Hub:        deps.Hub,
		Config:     deps.Config,
		Logger:     deps.Logger,
	}
	historyHandler := &handlers.HistoryHandler{
		Store:          deps.Store,
		Workspaces:     deps.Workspaces,
		MaxImportBytes: deps.Config.MaxUploadBytes,
	}
	exportHandler := &handlers.ExportHandler{
		Store:      deps.Store,
		Workspaces: deps.Workspaces,
	}
	settingsHandler := &handlers.SettingsHandler{
		Store:   deps.Store,
		Tracker: deps.Tracker,
	}
	wsHandler := &handlers.WebSocketHandler{
		Hub:        deps.Hub,
		Store:      deps.Store,
		Workspaces: deps.Workspaces,
		Logger:     deps.Logger,
	}

	// API group
	api := app.Group("/api", middleware.Session())

	// Health check route
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Analysis routes
	api.Post("/analyses", analysisHandler.Analyze)
	api.Post("/analyses/batch", analysisHandler.StartBatch)
	api.Post("/analyses/compare", analysisHandler.Compare)
	api.Get("/jobs/:id", analysisHandler.GetJob)
	api.Post("/refine", analysisHandler.Refine)
	api.Get("/images/:id", analysisHandler.GetImage)

	// Export
	api.Post("/export", exportHandler.Export)

	// History routes; static paths before :id
	history := api.Group("/history")
	history.Get("/", historyHandler.List)
	history.Post("/", historyHandler.Save)
	history.Delete("/", historyHandler.Clear)
	history.Get("/compare", historyHandler.Compare)
	history.Get("/export", historyHandler.Export)
	history.Post("/import", historyHandler.Import)
	history.Get("/:id", historyHandler.Get)
	history.Delete("/:id", historyHandler.Delete)
	history.Get("/:id/export", historyHandler.ExportRecord)
	api.Get("/statistics", historyHandler.Statistics)

	// Settings routes
	api.Get("/brand-voice", settingsHandler.GetBrandVoice)
	api.Put("/brand-voice", settingsHandler.SaveBrandVoice)
	api.Delete("/brand-voice", settingsHandler.ClearBrandVoice)
	api.Get("/preferences", settingsHandler.GetPreferences)
	api.Patch("/preferences", settingsHandler.UpdatePreferences)
	api.Get("/recent/keywords", settingsHandler.GetRecentKeywords)
	api.Post("/recent/keywords", settingsHandler.AddRecentKeyword)
	api.Get("/recent/audiences", settingsHandler.GetRecentAudiences)
	api.Post("/recent/audiences", settingsHandler.AddRecentAudience)
	api.Get("/shortcuts", settingsHandler.Shortcuts)
	api.Get("/usage", settingsHandler.Usage)

	// WebSocket endpoint for session events and shortcut dispatch
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws/session", middleware.Session(), websocket.New(wsHandler.HandleSession))
}
