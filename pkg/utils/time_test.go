package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestTimeFromQueryParam(t *testing.T) {
	ctx := queryContext(t, "startDate=2024-01-15")
	parsed, err := TimeFromQueryParam(ctx, "startDate")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), *parsed)

	ctx = queryContext(t, "startDate=2024-01-15T10:30:00Z")
	parsed, err = TimeFromQueryParam(ctx, "startDate")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, 10, parsed.Hour())

	ctx = queryContext(t, "")
	parsed, err = TimeFromQueryParam(ctx, "startDate")
	require.NoError(t, err)
	assert.Nil(t, parsed)

	ctx = queryContext(t, "startDate=yesterday")
	_, err = TimeFromQueryParam(ctx, "startDate")
	assert.Error(t, err)
}

func TestWholeDaysSince(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, WholeDaysSince(now, now))
	assert.Equal(t, 2, WholeDaysSince(now.Add(-60*time.Hour), now))
	// future timestamps clamp to zero
	assert.Equal(t, 0, WholeDaysSince(now.Add(24*time.Hour), now))
}
