package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"careerpilot-api/internal/api/handlers"
	"careerpilot-api/internal/api/middleware"
	"careerpilot-api/internal/config"
	"careerpilot-api/internal/insights"
	"careerpilot-api/internal/llm"
	"careerpilot-api/internal/sweep"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, svc *insights.Service, llmManager *llm.Manager, sweeper *sweep.Sweeper, redisClient *redis.Client) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.Server.CORSAllowedOrigins))
	e.Use(middleware.RequestValidation())

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(llmManager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Scheduled sweep trigger, authenticated by its own bearer secret.
	// Registered directly so the caller-auth middleware does not apply.
	e.POST("/api/v1/cron/refresh-insights", handlers.SweepHandler(sweeper, cfg.Insights.CronSecret))

	// API v1 routes, authenticated per caller. Profile updates can sit
	// on a cold-industry generation, so the budget is generous.
	v1 := e.Group("/api/v1")
	v1.Use(middleware.TimeoutConfig(2 * cfg.Insights.TxTimeout))
	v1.Use(middleware.Auth(cfg.Auth.JWTSecret))
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(redisClient, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Window))
	}
	{
		profile := v1.Group("/profile")
		{
			profile.GET("", handlers.GetProfileHandler(svc))
			profile.PUT("", handlers.UpdateProfileHandler(svc))
			profile.GET("/onboarding", handlers.OnboardingStatusHandler(svc))
		}

		v1.GET("/insights", handlers.GetInsightHandler(svc))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "CareerPilot API",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
