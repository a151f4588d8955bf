package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"careerpilot-api/internal/api/routes"
	"careerpilot-api/internal/config"
	"careerpilot-api/internal/insights"
	"careerpilot-api/internal/jobs"
	"careerpilot-api/internal/llm"
	"careerpilot-api/internal/logging"
	"careerpilot-api/internal/store"
	"careerpilot-api/internal/sweep"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	if len(cfg.Logging.Adapters) > 0 {
		logCfg.Adapters = nil
		for _, a := range cfg.Logging.Adapters {
			logCfg.Adapters = append(logCfg.Adapters, logging.AdapterConfig{
				Name:    a.Name,
				Type:    a.Type,
				Enabled: a.Enabled,
				Options: a.Options,
			})
		}
	}
	if err := logging.InitializeLogging(logCfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.ShutdownLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting CareerPilot API")

	// Database
	db, err := store.Open(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	st := store.New(db)

	// Redis for distributed rate limiting
	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.Redis.URL); err == nil {
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		opts.DB = cfg.Redis.DB
		redisClient = redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unreachable - rate limiting disabled", map[string]interface{}{
				"error": err.Error(),
			})
			redisClient = nil
		}
		cancel()
	} else {
		logger.Warn("Invalid Redis URL - rate limiting disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	// Insight pipeline
	generator := insights.NewLLMGenerator(llmManager.AsProvider())
	svc := insights.NewService(st, generator, cfg.Insights.TxTimeout, cfg.Insights.RefreshInterval)

	// Durable job producer; sweeps fall back to inline refreshes when
	// Temporal is not configured
	temporalClient, err := jobs.NewClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", map[string]interface{}{"error": err.Error()})
	}
	producer := jobs.NewProducer(temporalClient, cfg.Temporal.TaskQueue)

	sweeper := sweep.New(svc, svc, producer, cfg.Insights.SweepBudget)

	// In-process schedule alongside the HTTP trigger
	var scheduler *sweep.Scheduler
	if cfg.Insights.SweepSchedule != "" {
		scheduler = sweep.NewScheduler(sweeper, cfg.Insights.SweepSchedule)
		if err := scheduler.Start(); err != nil {
			logger.Fatal("Failed to start sweep scheduler", map[string]interface{}{"error": err.Error()})
		}
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout
	routes.SetupRoutes(e, cfg, svc, llmManager, sweeper, redisClient)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if scheduler != nil {
			scheduler.Stop()
		}

		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
		}

		if temporalClient != nil {
			temporalClient.Close()
		}

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Error("Error closing Redis client", map[string]interface{}{"error": err.Error()})
			}
		}

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
}
