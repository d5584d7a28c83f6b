// Package scheduler drives the periodic ERP reconciliation pass.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sanoh-intern/be-finance-accounting/internal/clock"
	"github.com/sanoh-intern/be-finance-accounting/internal/observability/metrics"
	"github.com/sanoh-intern/be-finance-accounting/internal/reconcile"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

const jobSyncInvLines = "sync_inv_lines"

type Params struct {
	fx.In

	Log    *zap.Logger
	Clock  clock.Clock
	Syncer *reconcile.Syncer
	Config Config `optional:"true"`
}

type Scheduler struct {
	log    *zap.Logger
	cfg    Config
	clock  clock.Clock
	syncer *reconcile.Syncer
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Syncer == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:    p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:    p.Config.withDefaults(),
		clock:  p.Clock,
		syncer: p.Syncer,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	metrics.IncJobRun(name)
	log.Info("job started")

	err := fn(ctx)
	metrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		log.Info("job finished", zap.Duration("elapsed", time.Since(start)))
		return nil
	}

	metrics.IncJobError(name)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}
	log.Error("job failed", zap.Error(err))
	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes every scheduled job a single time.
func (s *Scheduler) RunOnce(parent context.Context) error {
	return s.runJob(parent, jobSyncInvLines, s.cfg.JobTimeout, s.syncer.Run)
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
