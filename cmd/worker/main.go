package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"careerpilot-api/internal/config"
	"careerpilot-api/internal/insights"
	"careerpilot-api/internal/jobs"
	"careerpilot-api/internal/llm"
	"careerpilot-api/internal/logging"
	"careerpilot-api/internal/store"
)

func main() {
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	if err := logging.InitializeLogging(logCfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.ShutdownLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting CareerPilot insight worker")

	db, err := store.Open(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	st := store.New(db)

	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}
	defer llmManager.Stop()

	generator := insights.NewLLMGenerator(llmManager.AsProvider())
	svc := insights.NewService(st, generator, cfg.Insights.TxTimeout, cfg.Insights.RefreshInterval)

	temporalClient, err := jobs.NewClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", map[string]interface{}{"error": err.Error()})
	}
	if temporalClient == nil {
		logger.Fatal("Worker requires a configured Temporal address")
	}
	defer temporalClient.Close()

	runner, err := jobs.NewRunner(temporalClient, cfg, &jobs.Activities{Service: svc})
	if err != nil {
		logger.Fatal("Failed to build worker", map[string]interface{}{"error": err.Error()})
	}
	if err := runner.Start(); err != nil {
		logger.Fatal("Failed to start worker", map[string]interface{}{"error": err.Error()})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down worker...")
	runner.Stop()
}
