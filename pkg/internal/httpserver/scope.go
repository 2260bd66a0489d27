package httpserver

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	XHireflowRecruiterIdHeader = "X-Hireflow-RecruiterId"
	XHireflowUserIdHeader      = "X-Hireflow-UserId"
)

// GetRecruiterScope returns the recruiter id the auth layer stamped on the
// request. Empty means full visibility (internal callers).
func GetRecruiterScope(ctx echo.Context) string {
	return strings.TrimSpace(ctx.Request().Header.Get(XHireflowRecruiterIdHeader))
}

func GetUserID(ctx echo.Context) string {
	return strings.TrimSpace(ctx.Request().Header.Get(XHireflowUserIdHeader))
}
