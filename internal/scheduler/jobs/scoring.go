package jobs

import (
	"context"
	"fmt"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/internal/scoring"
	"github.com/equitylens/backend/pkg/config"
	"github.com/equitylens/backend/pkg/logger"
)

// Broadcaster pushes completed scores to streaming clients.
type Broadcaster interface {
	Broadcast(result *contracts.ScoreResult)
}

// ScoringJob rescores the configured universe on a schedule.
type ScoringJob struct {
	pipeline *scoring.Pipeline
	stream   Broadcaster
	universe []string
	schedule string
	workers  int
	logger   *logger.Logger
}

// NewScoringJob creates a new scoring job. stream may be nil.
func NewScoringJob(pipeline *scoring.Pipeline, stream Broadcaster, cfg config.ScoringConfig, log *logger.Logger) *ScoringJob {
	workers := cfg.Workers
	if workers < 1 {
		workers = scoring.DefaultWorkers
	}
	return &ScoringJob{
		pipeline: pipeline,
		stream:   stream,
		universe: cfg.Universe,
		schedule: cfg.CronSchedule,
		workers:  workers,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScoringJob) Name() string {
	return "universe_scoring"
}

// Schedule returns the cron schedule (with seconds)
func (j *ScoringJob) Schedule() string {
	return j.schedule
}

// Run scores every ticker in the universe
func (j *ScoringJob) Run(ctx context.Context) error {
	if len(j.universe) == 0 {
		j.logger.Warn("Scoring universe is empty, nothing to do")
		return nil
	}

	j.logger.WithField("tickers", len(j.universe)).Info("Starting scheduled universe scoring")

	results := j.pipeline.ScoreUniverse(ctx, j.universe, j.workers)

	scored := 0
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		scored++
		if j.stream != nil {
			j.stream.Broadcast(res.Result)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"scored": scored,
		"failed": failed,
	}).Info("Universe scoring completed")

	if scored == 0 && failed > 0 {
		return fmt.Errorf("all %d tickers failed to score", failed)
	}

	return nil
}
