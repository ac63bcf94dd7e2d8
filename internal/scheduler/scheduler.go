// Package scheduler runs the job search on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler wraps robfig/cron. Overlapping runs are skipped, including an
// immediate run that is still going when the first tick fires.
type Scheduler struct {
	cron    *cron.Cron
	chain   cron.Chain
	wrapped cron.Job
	spec    string
	job     Job
	logger  *zap.Logger

	wg sync.WaitGroup
}

func New(spec string, job Job, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl)),
		chain:  cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		spec:   spec,
		job:    job,
		logger: logger,
	}
}

// Start registers the job and starts ticking. When runNow is set the job also
// runs once immediately.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	//one wrapped job so ticks and the immediate run share the overlap guard
	s.wrapped = s.chain.Then(cron.FuncJob(func() { s.run(ctx) }))
	if _, err := s.cron.AddJob(s.spec, s.wrapped); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("schedule", s.spec))

	if runNow {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.wrapped.Run()
		}()
	}
	return nil
}

// Stop waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Info("Scheduled run started")
	if err := s.job(ctx); err != nil {
		s.logger.Error("Scheduled run failed", zap.Error(err))
		return
	}
	s.logger.Info("Scheduled run complete")
}

type cronLogger struct {
	*zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, append(keysAndValues, "error", err)...)
}
