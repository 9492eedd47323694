package store

import (
	"context"

	"github.com/roach88/artisha/internal/model"
)

// Analytics is the capped analytics sample log.
type Analytics struct {
	c collection[model.AnalyticsMetric]
}

// Analytics returns the analytics sample log.
func (s *Store) Analytics() Analytics {
	return Analytics{c: collection[model.AnalyticsMetric]{kv: s.local, key: KeyAnalytics}}
}

// GetRecent returns at most the AnalyticsRetain most recent samples,
// oldest first.
func (a Analytics) GetRecent(ctx context.Context) []model.AnalyticsMetric {
	return TrimAnalytics(a.c.load(ctx), AnalyticsRetain)
}

// Log appends a sample and drops the oldest ones beyond AnalyticsRetain.
func (a Analytics) Log(ctx context.Context, metric model.AnalyticsMetric) error {
	data := append(a.GetRecent(ctx), metric)
	return a.c.save(ctx, TrimAnalytics(data, AnalyticsRetain))
}

// TrimAnalytics keeps the last n samples of data.
func TrimAnalytics(data []model.AnalyticsMetric, n int) []model.AnalyticsMetric {
	if len(data) <= n {
		return data
	}
	out := make([]model.AnalyticsMetric, n)
	copy(out, data[len(data)-n:])
	return out
}
