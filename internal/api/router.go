// Package api wires the HTTP surface: middleware chain, service
// construction, and route registration.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meal-planner/internal/api/handlers/health"
	planHandler "meal-planner/internal/api/handlers/plan"
	recoHandler "meal-planner/internal/api/handlers/reco"
	recipeHandler "meal-planner/internal/api/handlers/recipe"
	"meal-planner/internal/api/handlers/settings"
	shoppingHandler "meal-planner/internal/api/handlers/shopping"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/cache"
	"meal-planner/internal/core/plan"
	"meal-planner/internal/core/prefill"
	"meal-planner/internal/core/reco"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/core/scrape"
	"meal-planner/internal/core/search"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/core/store"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

const (
	// Recommendation runs make several sequential upstream calls.
	timeoutDuration = 120 * time.Second
	// Request body cap (10MB).
	maxBodySize = 10 << 20
)

// SetupRouter builds the engine with the full middleware chain and every
// route group mounted.
func SetupRouter(cfg *config.Config, st store.Store, cacheStore cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// Per-request timeout covering the slow recommendation pipeline.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("store_backend", cfg.Store.Backend),
		zap.Bool("gemini_configured", cfg.Gemini.APIKey != ""),
		zap.Bool("youtube_configured", cfg.YouTube.APIKey != ""),
	)

	var generator ai.TextGenerator
	if cfg.Gemini.APIKey != "" {
		client, err := ai.NewGeminiClient(context.Background(), cfg.Gemini)
		if err != nil {
			common.LogError("Failed to initialize Gemini client", zap.Error(err))
			return nil, err
		}
		generator = client
	}

	youtube := search.NewYouTubeClient(cfg.YouTube)
	mcp := search.NewMCPClient(cfg.MCPSearchURL)
	scraper := scrape.New()

	planSvc := plan.NewService(st)
	shoppingSvc := shopping.NewService(st, planSvc)
	recipeSvc := recipe.NewService(st, planSvc, shoppingSvc)
	importer := recipe.NewImporter(youtube, mcp, scraper)
	prefillSvc := prefill.NewService(youtube, generator, scraper, cacheStore)
	recoSvc := reco.NewService(st, planSvc, youtube, generator, prefillSvc)

	healthHandler := health.NewHandler(cfg, st)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	apiGroup := router.Group("/api/v1")
	{
		planHandler.NewHandler(planSvc, st).Register(apiGroup.Group("/plan"))
		recipeHandler.NewHandler(recipeSvc, importer, prefillSvc).Register(apiGroup.Group("/recipes"))
		shoppingHandler.NewHandler(shoppingSvc).Register(apiGroup)
		recoHandler.NewHandler(recoSvc).Register(apiGroup)
		settings.NewHandler(st).Register(apiGroup)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
