package jobs

import (
	"context"
	"fmt"

	"go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	"careerpilot-api/internal/logging"
	"careerpilot-api/pkg/models"
	"careerpilot-api/pkg/utils"
)

// ErrProducerUnavailable is returned when no Temporal client is
// configured. Callers decide whether to fall back to inline execution.
var ErrProducerUnavailable = fmt.Errorf("insight job producer unavailable")

// Producer enqueues durable insight refresh jobs
type Producer struct {
	client    temporalsdkclient.Client
	taskQueue string
	logger    logging.Logger
}

// NewProducer creates a producer. The client may be nil when Temporal is
// not configured; Enqueue then reports ErrProducerUnavailable.
func NewProducer(client temporalsdkclient.Client, taskQueue string) *Producer {
	return &Producer{
		client:    client,
		taskQueue: taskQueue,
		logger:    logging.GetGlobalLogger(),
	}
}

// Available reports whether durable execution is configured
func (p *Producer) Available() bool {
	return p != nil && p.client != nil
}

// Enqueue starts a refresh workflow for the industry. The workflow ID is
// derived from the industry so concurrent triggers for the same industry
// collapse onto one running refresh.
func (p *Producer) Enqueue(ctx context.Context, event models.InsightEvent) error {
	if !p.Available() {
		return ErrProducerUnavailable
	}
	if event.Industry == "" {
		return fmt.Errorf("refresh event missing industry")
	}

	opts := temporalsdkclient.StartWorkflowOptions{
		ID:                    "industry-insight-" + utils.IndustrySlug(event.Industry),
		TaskQueue:             p.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}

	run, err := p.client.ExecuteWorkflow(ctx, opts, WorkflowGenerateInsights, event)
	if err != nil {
		return fmt.Errorf("failed to enqueue insight refresh: %w", err)
	}

	p.logger.Info("Enqueued insight refresh", map[string]interface{}{
		"industry":    event.Industry,
		"workflow_id": run.GetID(),
		"run_id":      run.GetRunID(),
	})
	return nil
}
