package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/redis/go-redis/v9"
)

// MetricsCache memoizes hiring-metrics reports in redis. The funnel core is
// a pure function of its inputs, so a report is fully keyed by the caller
// scope, the window and the job filter.
type MetricsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMetricsCache(rdb *redis.Client, ttl time.Duration) *MetricsCache {
	return &MetricsCache{rdb: rdb, ttl: ttl}
}

func Key(scope, jobID string, window funnel.Window) string {
	start, end := "-", "-"
	if window.Start != nil {
		start = window.Start.UTC().Format(time.RFC3339)
	}
	if window.End != nil {
		end = window.End.UTC().Format(time.RFC3339)
	}
	if scope == "" {
		scope = "-"
	}
	if jobID == "" {
		jobID = "-"
	}
	return fmt.Sprintf("hiring-metrics:%s:%s:%s:%s", scope, jobID, start, end)
}

func (c *MetricsCache) Get(ctx context.Context, key string) (*funnel.Report, error) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var report funnel.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *MetricsCache) Set(ctx context.Context, key string, report funnel.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, payload, c.ttl).Err()
}
