package sweep

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"careerpilot-api/internal/logging"
)

// Scheduler runs the sweep on a cron schedule in-process. Deployments
// that trigger sweeps through the HTTP endpoint instead can leave it
// stopped.
type Scheduler struct {
	cron     *cron.Cron
	sweeper  *Sweeper
	schedule string
	logger   logging.Logger
}

// NewScheduler creates a scheduler for the given cron expression
func NewScheduler(sweeper *Sweeper, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sweeper:  sweeper,
		schedule: schedule,
		logger:   logging.GetGlobalLogger(),
	}
}

// Start registers the sweep job and starts the cron loop
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.sweeper.Run(context.Background()); err != nil {
			s.logger.Error("Scheduled sweep failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Sweep scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sweep scheduler stopped")
}
