// Package scheduler runs periodic background jobs. The engines themselves do
// no scheduling; retraining cadence is a caller concern and lives here.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/metrics"
	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/recommend"
)

// RetrainScheduler periodically rebuilds the recommendation indices so scores
// pick up new orders. Between runs the engine serves the last-built snapshot.
type RetrainScheduler struct {
	engine    *recommend.Engine
	collector *metrics.Collector
	logger    *slog.Logger
	stopChan  chan struct{}
	interval  time.Duration
}

// NewRetrainScheduler creates a scheduler that retrains every interval.
func NewRetrainScheduler(engine *recommend.Engine, collector *metrics.Collector, interval time.Duration, logger *slog.Logger) *RetrainScheduler {
	return &RetrainScheduler{
		engine:    engine,
		collector: collector,
		logger:    logger,
		stopChan:  make(chan struct{}),
		interval:  interval,
	}
}

// Start begins the scheduler loop. It trains once immediately so the first
// storefront request does not pay the lazy-training cost.
func (s *RetrainScheduler) Start(ctx context.Context) {
	s.logger.Info("starting recommendation retrain scheduler", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.retrain(ctx)

	for {
		select {
		case <-ticker.C:
			s.retrain(ctx)
		case <-s.stopChan:
			s.logger.Info("retrain scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("retrain scheduler stopping due to context cancellation")
			return
		}
	}
}

// Stop stops the scheduler.
func (s *RetrainScheduler) Stop() {
	close(s.stopChan)
}

func (s *RetrainScheduler) retrain(ctx context.Context) {
	start := time.Now()
	stats, err := s.engine.Train(ctx)
	if s.collector != nil {
		s.collector.ObserveTrain(time.Since(start), err)
	}
	if err != nil {
		// Keep serving the previous snapshot; the next tick retries.
		s.logger.Error("scheduled retrain failed", "error", err)
		return
	}

	s.logger.Info("scheduled retrain completed",
		"orders", stats.Orders,
		"products", stats.Products,
		"co_purchase_pairs", stats.CoPurchasePairs,
		"duration", stats.Duration)
}
