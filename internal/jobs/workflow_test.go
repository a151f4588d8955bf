package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"careerpilot-api/pkg/models"
)

type countingRefresher struct {
	calls    int
	failures int // fail the first N calls
}

func (r *countingRefresher) RefreshIndustry(ctx context.Context, industry string) error {
	r.calls++
	if r.calls <= r.failures {
		return errors.New("transient generation failure")
	}
	return nil
}

func newWorkflowEnv(t *testing.T, refresher *countingRefresher, wfs *Workflows) *testsuite.TestWorkflowEnvironment {
	t.Helper()

	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	acts := &Activities{Service: refresher}
	env.RegisterWorkflowWithOptions(wfs.GenerateInsights, workflow.RegisterOptions{Name: WorkflowGenerateInsights})
	env.RegisterActivityWithOptions(acts.RefreshInsight, activity.RegisterOptions{Name: ActivityRefreshInsight})
	return env
}

func TestWorkflowSucceedsFirstAttempt(t *testing.T) {
	refresher := &countingRefresher{}
	env := newWorkflowEnv(t, refresher, NewWorkflows(0, 0))

	env.ExecuteWorkflow(WorkflowGenerateInsights, models.InsightEvent{Industry: "Technology"})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("unexpected workflow error: %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected 1 refresh call, got %d", refresher.calls)
	}
}

func TestWorkflowRetriesUntilSuccess(t *testing.T) {
	// Two transient failures, third attempt succeeds
	refresher := &countingRefresher{failures: 2}
	env := newWorkflowEnv(t, refresher, NewWorkflows(0, 0))

	env.ExecuteWorkflow(WorkflowGenerateInsights, models.InsightEvent{Industry: "Technology"})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if refresher.calls != 3 {
		t.Fatalf("expected 3 refresh attempts, got %d", refresher.calls)
	}
}

func TestWorkflowFailsAfterAttemptsExhausted(t *testing.T) {
	refresher := &countingRefresher{failures: 10}
	env := newWorkflowEnv(t, refresher, NewWorkflows(0, 0))

	env.ExecuteWorkflow(WorkflowGenerateInsights, models.InsightEvent{Industry: "Technology"})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err == nil {
		t.Fatal("expected workflow error after exhausting attempts")
	}
	if refresher.calls != defaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultMaxAttempts, refresher.calls)
	}
}

func TestWorkflowHonorsConfiguredAttemptBudget(t *testing.T) {
	refresher := &countingRefresher{failures: 10}
	env := newWorkflowEnv(t, refresher, NewWorkflows(10*time.Second, 2))

	env.ExecuteWorkflow(WorkflowGenerateInsights, models.InsightEvent{Industry: "Technology"})

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err == nil {
		t.Fatal("expected workflow error after exhausting attempts")
	}
	if refresher.calls != 2 {
		t.Fatalf("expected the configured 2 attempts, got %d", refresher.calls)
	}
}

func TestActivityRejectsMissingIndustry(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()

	refresher := &countingRefresher{}
	acts := &Activities{Service: refresher}
	env.RegisterActivityWithOptions(acts.RefreshInsight, activity.RegisterOptions{Name: ActivityRefreshInsight})

	_, err := env.ExecuteActivity(ActivityRefreshInsight, models.InsightEvent{})
	if err == nil {
		t.Fatal("expected error for missing industry")
	}
	if !strings.Contains(err.Error(), "missing industry") {
		t.Fatalf("unexpected error: %v", err)
	}
	if refresher.calls != 0 {
		t.Fatalf("refresher should not run, got %d calls", refresher.calls)
	}
}

func TestProducerUnavailableWithoutClient(t *testing.T) {
	p := NewProducer(nil, "industry-insights")

	if p.Available() {
		t.Fatal("producer should be unavailable without a client")
	}
	err := p.Enqueue(context.Background(), models.InsightEvent{Industry: "Technology"})
	if !errors.Is(err, ErrProducerUnavailable) {
		t.Fatalf("expected ErrProducerUnavailable, got %v", err)
	}
}
