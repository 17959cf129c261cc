// Package schedule runs the service's periodic maintenance jobs, such
// as the cache sweep, on standard five-field cron expressions.
package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Job is a unit of background maintenance work. Run must honor ctx
// cancellation; a returned error is logged, not retried.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler interface {
	AddJob(job Job, spec string) error
	Start(ctx context.Context)
	Stop()
}

type CronScheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	ctx     context.Context
}

func NewCronScheduler() *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
	}
}

func (c *CronScheduler) AddJob(job Job, spec string) error {
	name := job.Name()
	logger := logutil.GetLogger(context.Background()).With(zap.String("job", name), zap.String("cron", spec))
	entryID, err := c.cron.AddFunc(spec, c.guarded(job))
	if err != nil {
		logger.Error("register maintenance job failed", zap.Error(err))
		return err
	}
	c.entries[name] = entryID
	logger.Info("maintenance job registered")
	return nil
}

// Start begins firing jobs. ctx is handed to every Run call so jobs
// stop with the service.
func (c *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx = ctx
	c.cron.Start()
}

// Stop blocks until in-flight jobs return.
func (c *CronScheduler) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

// guarded wraps a job so overlapping firings collapse into one run. A
// tick that arrives while the previous run is still going is dropped.
func (c *CronScheduler) guarded(job Job) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			logutil.GetLogger(context.Background()).With(zap.String("job", job.Name())).Info("previous run still active, tick dropped")
			return
		}
		defer running.Store(false)

		ctx := c.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		logger := logutil.GetLogger(ctx).With(zap.String("job", job.Name()))
		start := time.Now()
		logger.Info("maintenance job started")
		err := job.Run(ctx)
		elapsed := time.Since(start)
		if err != nil {
			logger.Error("maintenance job failed", zap.Error(err), zap.Duration("duration", elapsed))
			return
		}
		logger.Info("maintenance job finished", zap.Duration("duration", elapsed))
	}
}
