package jobs

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"careerpilot-api/pkg/models"
)

// Refresher regenerates and persists the insight payload for an industry
type Refresher interface {
	RefreshIndustry(ctx context.Context, industry string) error
}

// Activities holds the dependencies of the insight refresh activities
type Activities struct {
	Service Refresher
}

// RefreshInsight regenerates the stored insight for the industry named
// by the event. Errors propagate to Temporal, which owns the retry
// schedule.
func (a *Activities) RefreshInsight(ctx context.Context, event models.InsightEvent) error {
	if event.Industry == "" {
		return fmt.Errorf("refresh event missing industry")
	}

	logger := activity.GetLogger(ctx)
	info := activity.GetInfo(ctx)
	logger.Info("Running insight refresh", "industry", event.Industry, "attempt", info.Attempt)

	if err := a.Service.RefreshIndustry(ctx, event.Industry); err != nil {
		return fmt.Errorf("refresh %s: %w", event.Industry, err)
	}
	return nil
}
