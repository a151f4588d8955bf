package jobs

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"careerpilot-api/pkg/models"
)

// Fallback attempt budget for a single insight refresh. Each attempt
// gets its own timeout so one slow model call cannot eat the whole
// budget.
const (
	defaultAttemptTimeout = 30 * time.Second
	defaultMaxAttempts    = 3
)

// Workflows carries the refresh attempt budget so the registered
// workflow picks it up from configuration instead of hard-coding it.
type Workflows struct {
	attemptTimeout time.Duration
	maxAttempts    int
}

// NewWorkflows builds the workflow set with the given refresh budget.
// Zero values fall back to the defaults.
func NewWorkflows(attemptTimeout time.Duration, maxAttempts int) *Workflows {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Workflows{attemptTimeout: attemptTimeout, maxAttempts: maxAttempts}
}

// GenerateInsights refreshes the insight payload for a single industry.
// All retry behavior lives in the activity options; the workflow body
// stays a single durable step.
func (w *Workflows) GenerateInsights(ctx workflow.Context, event models.InsightEvent) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Refreshing industry insight", "industry", event.Industry)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.attemptTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    int32(w.maxAttempts),
		},
	})

	if err := workflow.ExecuteActivity(ctx, ActivityRefreshInsight, event).Get(ctx, nil); err != nil {
		logger.Error("Insight refresh exhausted attempts", "industry", event.Industry, "error", err)
		return err
	}

	logger.Info("Industry insight refreshed", "industry", event.Industry)
	return nil
}
