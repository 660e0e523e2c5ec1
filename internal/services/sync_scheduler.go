package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncResult summarizes one sync cycle.
type SyncResult struct {
	Users     int
	Triggered int
	Failed    int
}

// SyncScheduler periodically asks the ingestion workflow to reload offers
// for every user with an enabled job source.
type SyncScheduler interface {
	Start() error
	Stop()
	RunOnce(ctx context.Context) (SyncResult, error)
}

type syncScheduler struct {
	cron         *cron.Cron
	schedule     string
	concurrency  int
	cycleTimeout time.Duration
	catalog      CatalogService
	trigger      JobLoadTrigger
	log          *zap.Logger
	now          func() time.Time
}

func NewSyncScheduler(
	schedule string,
	concurrency int,
	cycleTimeout time.Duration,
	catalog CatalogService,
	trigger JobLoadTrigger,
	log *zap.Logger,
) SyncScheduler {
	if concurrency < 1 {
		concurrency = 1
	}

	return &syncScheduler{
		cron:         cron.New(),
		schedule:     schedule,
		concurrency:  concurrency,
		cycleTimeout: cycleTimeout,
		catalog:      catalog,
		trigger:      trigger,
		log:          log,
		now:          time.Now,
	}
}

// Start implements SyncScheduler. An empty schedule leaves the scheduler idle.
func (s *syncScheduler) Start() error {
	if s.schedule == "" {
		s.log.Info("job sync scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cycleTimeout)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("job sync cycle failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.log.Info("job sync scheduler started",
		zap.String("schedule", s.schedule),
		zap.Int("concurrency", s.concurrency),
	)

	return nil
}

// Stop implements SyncScheduler. It waits for a running cycle to finish.
func (s *syncScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("job sync scheduler stopped")
}

// RunOnce implements SyncScheduler. A failing user is logged and counted;
// the rest of the cycle continues.
func (s *syncScheduler) RunOnce(ctx context.Context) (SyncResult, error) {
	owners, err := s.catalog.ActiveSourceOwners(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	var triggered, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, email := range owners {
		email := email
		g.Go(func() error {
			if err := s.trigger.TriggerJobLoad(ctx, email); err != nil {
				failed.Add(1)
				s.log.Warn("job sync failed for user", zap.String("email", email), zap.Error(err))
				return nil
			}
			if err := s.catalog.MarkSourcesSynced(ctx, email, s.now()); err != nil {
				failed.Add(1)
				s.log.Warn("failed to stamp last sync", zap.String("email", email), zap.Error(err))
				return nil
			}
			triggered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result := SyncResult{
		Users:     len(owners),
		Triggered: int(triggered.Load()),
		Failed:    int(failed.Load()),
	}
	s.log.Info("job sync cycle complete",
		zap.Int("users", result.Users),
		zap.Int("triggered", result.Triggered),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
