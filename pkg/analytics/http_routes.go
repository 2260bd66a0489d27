package analytics

import (
	"net/http"
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics/api"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/cache"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/export"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/httpserver"
	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"github.com/hireflow-io/hireflow-engine/pkg/utils"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *HttpHandler) Register(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	analytics := v1.Group("/analytics")
	analytics.GET("/hiring-metrics", h.GetHiringMetrics)
	analytics.GET("/hiring-metrics/export", h.ExportHiringMetrics)
	analytics.GET("/nudges", h.GetNudges)
	analytics.GET("/jobs/:jobId/health", h.GetJobHealth)
}

// GetHiringMetrics godoc
//
//	@Summary		Hiring funnel metrics
//	@Description	returns time-to-fill, time-in-stage and conversion metrics over an optional window and job filter
//	@Tags			analytics
//	@Produce		json
//	@Param			startDate	query		string	false	"window start, RFC3339 or 2006-01-02"
//	@Param			endDate		query		string	false	"window end (exclusive), RFC3339 or 2006-01-02"
//	@Param			jobId		query		string	false	"restrict to one job"
//	@Param			refresh		query		bool	false	"bypass the cached report"
//	@Success		200			{object}	api.HiringMetricsResponse
//	@Router			/analytics/api/v1/analytics/hiring-metrics [get]
func (h *HttpHandler) GetHiringMetrics(ctx echo.Context) error {
	window, err := windowFromQuery(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	jobID := ctx.QueryParam("jobId")
	scope := httpserver.GetRecruiterScope(ctx)

	key := cache.Key(scope, jobID, window)
	if ctx.QueryParam("refresh") != "true" {
		cached, err := h.cache.Get(ctx.Request().Context(), key)
		if err != nil {
			h.logger.Warn("metrics cache get", zap.Error(err))
		}
		if cached != nil {
			metricsCacheHits.WithLabelValues("hit").Inc()
			return ctx.JSON(http.StatusOK, cached)
		}
		metricsCacheHits.WithLabelValues("miss").Inc()
	}

	s, err := h.loadSnapshot(scope)
	if err != nil {
		h.logger.Error("load snapshot", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load analytics data")
	}

	report := funnel.Aggregate(funnel.AggregateInput{
		Jobs:         s.jobs,
		Applications: s.applications,
		Stages:       s.stages,
		Transitions:  s.transitions,
		JobID:        jobID,
		Window:       window,
		Now:          time.Now(),
	})
	funnelComputations.WithLabelValues("hiring-metrics").Inc()

	if err := h.cache.Set(ctx.Request().Context(), key, report); err != nil {
		h.logger.Warn("metrics cache set", zap.Error(err))
	}

	return ctx.JSON(http.StatusOK, report)
}

// ExportHiringMetrics godoc
//
//	@Summary		Hiring funnel metrics workbook
//	@Description	returns the hiring metrics report as an XLSX attachment
//	@Tags			analytics
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success		200
//	@Router			/analytics/api/v1/analytics/hiring-metrics/export [get]
func (h *HttpHandler) ExportHiringMetrics(ctx echo.Context) error {
	window, err := windowFromQuery(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	scope := httpserver.GetRecruiterScope(ctx)

	s, err := h.loadSnapshot(scope)
	if err != nil {
		h.logger.Error("load snapshot", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load analytics data")
	}

	now := time.Now()
	report := funnel.Aggregate(funnel.AggregateInput{
		Jobs:         s.jobs,
		Applications: s.applications,
		Stages:       s.stages,
		Transitions:  s.transitions,
		JobID:        ctx.QueryParam("jobId"),
		Window:       window,
		Now:          now,
	})
	healths := h.classifyAll(s, now)
	funnelComputations.WithLabelValues("export").Inc()

	workbook, err := export.BuildMetricsWorkbook(report, healths)
	if err != nil {
		h.logger.Error("build workbook", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build workbook")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="hiring-metrics.xlsx"`)
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)
	return workbook.Write(ctx.Response().Writer)
}

// GetNudges godoc
//
//	@Summary		Recruiter nudges
//	@Description	returns jobs needing attention (non-green health) and per-job stale candidate counts
//	@Tags			analytics
//	@Produce		json
//	@Success		200	{object}	api.NudgesResponse
//	@Router			/analytics/api/v1/analytics/nudges [get]
func (h *HttpHandler) GetNudges(ctx echo.Context) error {
	scope := httpserver.GetRecruiterScope(ctx)

	s, err := h.loadSnapshot(scope)
	if err != nil {
		h.logger.Error("load snapshot", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load analytics data")
	}

	now := time.Now()
	response := api.NudgesResponse{
		JobsNeedingAttention: []api.JobHealthSummary{},
		StaleCandidates:      []funnel.StaleJobSummary{},
	}
	for _, health := range h.classifyAll(s, now) {
		if health.Status != types.HealthStatusGreen {
			response.JobsNeedingAttention = append(response.JobsNeedingAttention, health)
		}
	}
	if stale := funnel.DetectStaleCandidates(s.jobs, s.applications, h.staleThreshold, now); stale != nil {
		response.StaleCandidates = stale
	}
	funnelComputations.WithLabelValues("nudges").Inc()

	return ctx.JSON(http.StatusOK, response)
}

// GetJobHealth godoc
//
//	@Summary		Job health
//	@Description	classifies one job's pipeline health via the ordered rule cascade
//	@Tags			analytics
//	@Produce		json
//	@Param			jobId	path		string	true	"Job ID"
//	@Success		200		{object}	api.JobHealthSummary
//	@Router			/analytics/api/v1/analytics/jobs/{jobId}/health [get]
func (h *HttpHandler) GetJobHealth(ctx echo.Context) error {
	jobID := ctx.Param("jobId")
	scope := httpserver.GetRecruiterScope(ctx)

	s, err := h.loadSnapshot(scope)
	if err != nil {
		h.logger.Error("load snapshot", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load analytics data")
	}

	for _, job := range s.jobs {
		if job.ID != jobID {
			continue
		}
		summary := h.classifyJob(job, s, time.Now())
		funnelComputations.WithLabelValues("job-health").Inc()
		return ctx.JSON(http.StatusOK, summary)
	}
	return echo.NewHTTPError(http.StatusNotFound, "job not found")
}

func (h *HttpHandler) classifyAll(s *snapshot, now time.Time) []api.JobHealthSummary {
	summaries := make([]api.JobHealthSummary, 0, len(s.jobs))
	for _, job := range s.jobs {
		summaries = append(summaries, h.classifyJob(job, s, now))
	}
	return summaries
}

func (h *HttpHandler) classifyJob(job funnel.Job, s *snapshot, now time.Time) api.JobHealthSummary {
	var counter *funnel.Counter
	if c, ok := s.counters[job.ID]; ok {
		counter = &c
	}

	sig := funnel.BuildHealthSignals(job, s.applications, counter, now)
	result := funnel.ClassifyJobHealth(sig, h.healthPolicy)

	return api.JobHealthSummary{
		JobID:             job.ID,
		JobTitle:          job.Title,
		Status:            result.Status,
		Reason:            result.Reason,
		DaysSincePosted:   sig.DaysSincePosted,
		TotalApplications: sig.TotalApplications,
	}
}

// Unbounded queries default to the trailing 90 days. The default start is
// truncated to day granularity so cache keys stay stable within a day.
const defaultWindowDays = 90

func windowFromQuery(ctx echo.Context) (funnel.Window, error) {
	start, err := utils.TimeFromQueryParam(ctx, "startDate")
	if err != nil {
		return funnel.Window{}, err
	}
	end, err := utils.TimeFromQueryParam(ctx, "endDate")
	if err != nil {
		return funnel.Window{}, err
	}
	if start == nil && end == nil {
		from := time.Now().AddDate(0, 0, -defaultWindowDays).Truncate(24 * time.Hour)
		start = &from
	}
	return funnel.Window{Start: start, End: end}, nil
}
