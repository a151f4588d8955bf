package sweep

import (
	"context"
	"time"

	"careerpilot-api/internal/logging"
	"careerpilot-api/pkg/models"
)

// Refresher regenerates the stored insight for one industry
type Refresher interface {
	RefreshIndustry(ctx context.Context, industry string) error
}

// Lister enumerates industries that already have a stored insight
type Lister interface {
	ListIndustries(ctx context.Context) ([]string, error)
}

// Enqueuer dispatches a durable refresh job for an industry
type Enqueuer interface {
	Available() bool
	Enqueue(ctx context.Context, event models.InsightEvent) error
}

// Result summarizes one sweep run
type Result struct {
	Total     int
	Refreshed int
	Failed    int
}

// Sweeper walks every stored industry and refreshes its insight. It
// never creates rows for industries nobody has requested; lazy creation
// on the request path owns that.
type Sweeper struct {
	lister    Lister
	refresher Refresher
	producer  Enqueuer
	budget    time.Duration
	logger    logging.Logger
}

// New creates a sweeper. The producer may be nil; refreshes then run
// inline through the refresher.
func New(lister Lister, refresher Refresher, producer Enqueuer, budget time.Duration) *Sweeper {
	return &Sweeper{
		lister:    lister,
		refresher: refresher,
		producer:  producer,
		budget:    budget,
		logger:    logging.GetGlobalLogger(),
	}
}

// Run refreshes every stored industry within the sweep budget. One
// industry failing does not stop the others; failures are counted and
// retried on the next sweep since their rows keep the old next_update.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	started := time.Now()

	industries, err := s.lister.ListIndustries(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Total: len(industries)}

	sweepCtx := ctx
	if s.budget > 0 {
		var cancel context.CancelFunc
		sweepCtx, cancel = context.WithTimeout(ctx, s.budget)
		defer cancel()
	}

	for _, industry := range industries {
		if sweepCtx.Err() != nil {
			s.logger.Warn("Sweep budget exhausted", map[string]interface{}{
				"total":     result.Total,
				"refreshed": result.Refreshed,
				"failed":    result.Failed,
			})
			result.Failed += result.Total - result.Refreshed - result.Failed
			break
		}

		if err := s.refreshOne(sweepCtx, industry); err != nil {
			result.Failed++
			s.logger.Error("Industry refresh failed", map[string]interface{}{
				"industry": industry,
				"error":    err.Error(),
			})
			continue
		}
		result.Refreshed++
	}

	s.logger.Info("Insight sweep finished", map[string]interface{}{
		"total":     result.Total,
		"refreshed": result.Refreshed,
		"failed":    result.Failed,
		"elapsed":   time.Since(started).String(),
	})
	return result, nil
}

// refreshOne dispatches a durable job when a producer is configured and
// runs the refresh inline otherwise.
func (s *Sweeper) refreshOne(ctx context.Context, industry string) error {
	if s.producer != nil && s.producer.Available() {
		return s.producer.Enqueue(ctx, models.InsightEvent{Industry: industry})
	}
	return s.refresher.RefreshIndustry(ctx, industry)
}
