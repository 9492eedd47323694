package appstate

import (
	"context"
	"time"

	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

// DefaultAnalyticsInterval is the ticker period.
const DefaultAnalyticsInterval = 5 * time.Second

// AnalyticsActions are the labels a synthetic sample may carry.
var AnalyticsActions = []string{"Viewed Product", "Added to Cart", "Checkout", "Search", "Browse Gallery"}

// TickAnalytics synthesizes one traffic sample, logs it to storage, and
// mirrors the same append-and-cap into memory.
func (s *Store) TickAnalytics(ctx context.Context) (model.AnalyticsMetric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metric := model.AnalyticsMetric{
		Timestamp:    s.now().UnixMilli(),
		ActiveUsers:  s.rng.IntN(20) + 10,
		PageViews:    s.rng.IntN(5),
		RecentAction: AnalyticsActions[s.rng.IntN(len(AnalyticsActions))],
	}

	if err := s.db.Analytics().Log(ctx, metric); err != nil {
		s.logger.Error("analytics log failed", "error", err)
		return metric, err
	}
	s.analytics = store.TrimAnalytics(append(s.analytics, metric), store.AnalyticsRetain)
	return metric, nil
}

// StartAnalytics runs TickAnalytics every interval until ctx is done, the
// returned task is stopped, or the Store is closed.
func (s *Store) StartAnalytics(ctx context.Context, interval time.Duration) *Task {
	if interval <= 0 {
		interval = DefaultAnalyticsInterval
	}
	t := StartTask(ctx, s.logger, "analytics", interval, func(ctx context.Context) {
		if _, err := s.TickAnalytics(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("analytics tick skipped", "error", err)
		}
	})

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return t
}
