package utils

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
)

// TimeFromQueryParam parses an optional date query parameter accepted as
// RFC3339 or plain 2006-01-02. Nil when the parameter is absent.
func TimeFromQueryParam(ctx echo.Context, paramName string) (*time.Time, error) {
	timeStr := ctx.QueryParam(paramName)
	if timeStr == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, timeStr); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", timeStr); err == nil {
		return &t, nil
	}
	return nil, errors.New("invalid time: " + timeStr)
}

// DaysBetween is the floating-point day distance between two instants.
func DaysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

// WholeDaysSince floors the elapsed days and clamps negatives (clock skew,
// future-dated rows) to zero.
func WholeDaysSince(from, now time.Time) int {
	days := int(now.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
