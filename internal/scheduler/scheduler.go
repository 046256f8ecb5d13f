package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"RiskPulse/pkg/logger"
)

// Scheduler runs recurring jobs (bot cycles, retraining) on cron specs.
// Jobs receive a context that is canceled when the scheduler stops.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(l *logger.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: l,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers a named job. Cron expressions use six fields (with seconds).
func (s *Scheduler) Add(spec, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := fn(s.ctx); err != nil {
			s.logger.Error("scheduled job failed",
				logger.String("job", name),
				logger.Duration("took", time.Since(start)),
				logger.Error(err))
			return
		}
		s.logger.Info("scheduled job finished",
			logger.String("job", name),
			logger.Duration("took", time.Since(start)))
	})
	if err != nil {
		return err
	}
	s.logger.Info("scheduled job registered",
		logger.String("job", name),
		logger.String("spec", spec))
	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for in-flight ones to finish, up
// to the context deadline.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
