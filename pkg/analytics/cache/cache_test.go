package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*MetricsCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewMetricsCache(client, ttl), mr
}

func TestMetricsCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	overall := 11.7
	report := funnel.Report{
		TimeToFill:        funnel.TimeToFill{OverallDays: &overall},
		TotalApplications: 10,
		TotalHires:        3,
		ConversionRate:    "30.00",
	}

	key := Key("recruiter-1", "", funnel.Window{})
	require.NoError(t, c.Set(ctx, key, report))

	cached, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 10, cached.TotalApplications)
	assert.Equal(t, "30.00", cached.ConversionRate)
	require.NotNil(t, cached.TimeToFill.OverallDays)
	assert.Equal(t, 11.7, *cached.TimeToFill.OverallDays)
}

func TestMetricsCacheMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	cached, err := c.Get(context.Background(), Key("", "", funnel.Window{}))
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestMetricsCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t, time.Second)
	ctx := context.Background()

	key := Key("", "job-1", funnel.Window{})
	require.NoError(t, c.Set(ctx, key, funnel.Report{ConversionRate: "0.00"}))

	mr.FastForward(2 * time.Second)

	cached, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestKeyDistinguishesScopeWindowAndJob(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 90)

	keys := map[string]bool{
		Key("", "", funnel.Window{}):                              true,
		Key("recruiter-1", "", funnel.Window{}):                   true,
		Key("recruiter-1", "job-1", funnel.Window{}):              true,
		Key("recruiter-1", "job-1", funnel.Window{Start: &start}): true,
		Key("recruiter-1", "job-1", funnel.Window{Start: &start, End: &end}): true,
	}
	assert.Len(t, keys, 5)
}
