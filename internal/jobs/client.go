package jobs

import (
	"context"
	"fmt"
	"time"

	temporalsdkclient "go.temporal.io/sdk/client"

	"careerpilot-api/internal/config"
	"careerpilot-api/internal/logging"
)

// NewClient dials the configured Temporal cluster. Returns (nil, nil)
// when no address is configured so callers can fall back to inline
// execution.
func NewClient(cfg *config.Config) (temporalsdkclient.Client, error) {
	logger := logging.GetGlobalLogger()

	if cfg.Temporal.Address == "" {
		logger.Warn("Temporal address not configured - insight refreshes run inline")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := temporalsdkclient.DialContext(ctx, temporalsdkclient.Options{
		HostPort:  cfg.Temporal.Address,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("temporal dial failed (address=%s namespace=%s): %w",
			cfg.Temporal.Address, cfg.Temporal.Namespace, err)
	}

	logger.Info("Connected to Temporal", map[string]interface{}{
		"address":    cfg.Temporal.Address,
		"namespace":  cfg.Temporal.Namespace,
		"task_queue": cfg.Temporal.TaskQueue,
	})
	return client, nil
}
