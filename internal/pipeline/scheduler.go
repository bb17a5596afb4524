package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler triggers a digest run once per day at a configured local time.
type Scheduler struct {
	pipeline *Pipeline
	spec     string
	logger   zerolog.Logger
}

// NewScheduler creates a scheduler firing daily at hour:minute.
func NewScheduler(p *Pipeline, hour, minute int, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		pipeline: p,
		spec:     fmt.Sprintf("%d %d * * *", minute, hour),
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start runs the schedule until ctx is cancelled. An in-progress digest
// run is allowed to finish before Start returns.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.Local))

	_, err := c.AddFunc(s.spec, func() { s.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("failed to register schedule %q: %w", s.spec, err)
	}

	c.Start()
	s.logger.Info().Str("schedule", s.spec).Msg("scheduler started")

	<-ctx.Done()

	// Stop accepting new runs, then wait for any in-flight run.
	stopCtx := c.Stop()
	<-stopCtx.Done()

	s.logger.Info().Msg("scheduler stopped")
	return ctx.Err()
}

// runOnce executes a single digest run. The run is detached from the
// scheduler's cancellation: once started it finishes even if shutdown
// begins mid-pipeline, with Start waiting for it via cron's stop context.
func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx := context.WithoutCancel(ctx)

	runStarted := time.Now()
	if _, err := s.pipeline.Run(runCtx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled digest run failed")
		return
	}
	s.logger.Info().Dur("duration", time.Since(runStarted)).Msg("scheduled digest run finished")
}
