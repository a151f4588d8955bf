package jobs

import (
	"fmt"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"careerpilot-api/internal/config"
	"careerpilot-api/internal/logging"
)

// Runner hosts the Temporal worker that executes insight refresh
// workflows.
type Runner struct {
	worker worker.Worker
	logger logging.Logger
}

// NewRunner builds a worker bound to the configured task queue with the
// refresh workflow and activities registered.
func NewRunner(client temporalsdkclient.Client, cfg *config.Config, acts *Activities) (*Runner, error) {
	if client == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if acts == nil || acts.Service == nil {
		return nil, fmt.Errorf("worker missing refresh service")
	}

	wfs := NewWorkflows(cfg.Insights.AttemptTimeout, cfg.Insights.MaxAttempts)

	w := worker.New(client, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(wfs.GenerateInsights, workflow.RegisterOptions{Name: WorkflowGenerateInsights})
	w.RegisterActivityWithOptions(acts.RefreshInsight, activity.RegisterOptions{Name: ActivityRefreshInsight})

	return &Runner{
		worker: w,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// Start begins polling the task queue. It returns once the worker is
// running.
func (r *Runner) Start() error {
	if err := r.worker.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	r.logger.Info("Insight worker started")
	return nil
}

// Stop drains and shuts down the worker
func (r *Runner) Stop() {
	r.worker.Stop()
	r.logger.Info("Insight worker stopped")
}
