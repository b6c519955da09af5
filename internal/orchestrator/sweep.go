package orchestrator

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/openscrapers/docketproc/internal/jurisdiction"
)

// SweepScheduler runs recurring jurisdiction-wide ProcessAndIngest sweeps —
// an optional convenience on top of the on-demand HTTP routes, for
// jurisdictions that want periodic reprocessing rather than
// externally-triggered jobs.
type SweepScheduler struct {
	cron   gocron.Scheduler
	orch   *Orchestrator
	logger *zap.Logger
}

// NewSweepScheduler builds a scheduler. Call Start to begin running jobs
// and Shutdown to stop it.
func NewSweepScheduler(orch *Orchestrator, logger *zap.Logger) (*SweepScheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: create sweep scheduler: %w", err)
	}
	return &SweepScheduler{cron: cron, orch: orch, logger: logger.Named("orchestrator.sweep")}, nil
}

// AddSweep registers a recurring ByJurisdiction+ProcessAndIngest sweep on
// cronExpr for j. Overlapping runs are skipped (singleton mode) so a slow
// sweep never piles up behind itself.
func (s *SweepScheduler) AddSweep(cronExpr string, j jurisdiction.FixedJurisdiction) error {
	_, err := s.cron.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			result, err := s.orch.RunByJurisdiction(context.Background(), j, ActionProcessAndIngest)
			if err != nil {
				s.logger.Error("scheduled sweep failed to start", zap.Stringer("jurisdiction", j), zap.Error(err))
				return
			}
			s.logger.Info("scheduled sweep completed",
				zap.Stringer("jurisdiction", j),
				zap.Int("success_count", result.SuccessCount),
				zap.Int("error_count", result.ErrorCount),
			)
		}),
		gocron.WithTags(j.SchemaName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("orchestrator: register sweep for %s: %w", j, err)
	}
	return nil
}

// Start begins running registered sweeps.
func (s *SweepScheduler) Start() { s.cron.Start() }

// Shutdown stops the scheduler, waiting for any in-flight sweep to finish.
func (s *SweepScheduler) Shutdown() error { return s.cron.Shutdown() }
