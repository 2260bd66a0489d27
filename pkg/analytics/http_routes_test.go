package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/api"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/cache"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/client"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	idocker "github.com/hireflow-io/hireflow-engine/pkg/internal/dockertest"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/httpclient"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/httpserver"
	"github.com/hireflow-io/hireflow-engine/pkg/recruiting/db"
	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HttpHandlerSuite struct {
	suite.Suite

	handler *HttpHandler
	router  *echo.Echo
	orm     *gorm.DB
	mr      *miniredis.Miniredis
}

func (s *HttpHandlerSuite) SetupSuite() {
	require := s.Require()

	s.orm = idocker.StartupPostgreSQL(s.T())

	mr, err := miniredis.Run()
	require.NoError(err, "run miniredis")
	s.T().Cleanup(mr.Close)
	s.mr = mr

	logger, err := zap.NewProduction()
	require.NoError(err, "new logger")

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.handler = &HttpHandler{
		db:             db.NewDatabase(s.orm),
		cache:          cache.NewMetricsCache(rdb, time.Minute),
		logger:         logger,
		healthPolicy:   funnel.DefaultHealthPolicy(),
		staleThreshold: funnel.DefaultStaleThresholdDays,
	}

	s.router, _ = httpserver.Register(logger, s.handler)
}

func (s *HttpHandlerSuite) BeforeTest(suiteName, testName string) {
	require := s.Require()

	err := s.handler.db.Initialize()
	require.NoError(err, "initialize db")
}

func (s *HttpHandlerSuite) AfterTest(suiteName, testName string) {
	require := s.Require()

	for _, table := range []string{
		"application_stage_histories",
		"applications",
		"job_analytics_counters",
		"jobs",
		"pipeline_stages",
	} {
		tx := s.orm.Exec("DROP TABLE IF EXISTS " + table + ";")
		require.NoError(tx.Error, "drop %s", table)
	}
	s.mr.FlushAll()
}

func TestHttpHandlerSuite(t *testing.T) {
	suite.Run(t, &HttpHandlerSuite{})
}

func doJSONRequest(router *echo.Echo, method, path, recruiter string, response interface{}) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Add("content-type", "application/json")
	if recruiter != "" {
		req.Header.Add(httpserver.XHireflowRecruiterIdHeader, recruiter)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if response != nil {
		b, err := io.ReadAll(io.NopCloser(rec.Body))
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(b, response); err != nil {
			return nil, fmt.Errorf("unmarshal %q: %w", bytes.TrimSpace(b), err)
		}
	}

	return rec, nil
}

func (s *HttpHandlerSuite) seedJob(title string, active bool, status types.JobStatus, createdDaysAgo int) db.Job {
	require := s.Require()

	job := db.Job{
		Title:     title,
		IsActive:  active,
		Status:    status,
		PostedBy:  "recruiter-1",
		CreatedAt: time.Now().AddDate(0, 0, -createdDaysAgo),
	}
	require.NoError(s.handler.db.CreateJob(&job), "seed job")
	return job
}

func (s *HttpHandlerSuite) seedApplication(jobID string, status types.ApplicationStatus, appliedDaysAgo int, stageChangedDaysAgo *int) db.Application {
	require := s.Require()

	application := db.Application{
		JobID:          jobID,
		CandidateName:  "Candidate",
		CandidateEmail: "candidate@example.com",
		Status:         status,
		AppliedAt:      time.Now().AddDate(0, 0, -appliedDaysAgo),
	}
	if stageChangedDaysAgo != nil {
		changed := time.Now().AddDate(0, 0, -*stageChangedDaysAgo)
		application.StageChangedAt = &changed
	}
	require.NoError(s.handler.db.CreateApplication(&application), "seed application")
	return application
}

func (s *HttpHandlerSuite) hiredStageID() string {
	require := s.Require()

	stages, err := s.handler.db.ListStages()
	require.NoError(err, "list stages")
	for _, stage := range stages {
		if stage.IsTerminalHireStage {
			return stage.ID
		}
	}
	require.FailNow("no terminal hire stage seeded")
	return ""
}

func (s *HttpHandlerSuite) TestHiringMetrics() {
	require := s.Require()

	job := s.seedJob("Backend Engineer", true, types.JobStatusApproved, 60)
	hiredStage := s.hiredStageID()

	for i := 0; i < 10; i++ {
		application := s.seedApplication(job.ID, types.ApplicationStatusReviewed, 40-i, nil)
		if i < 3 {
			fillDays := []int{5, 10, 20}[i]
			err := s.handler.db.AppendStageHistory(&db.ApplicationStageHistory{
				ApplicationID: application.ID,
				ToStageID:     hiredStage,
				ChangedAt:     application.AppliedAt.AddDate(0, 0, fillDays),
			})
			require.NoError(err, "seed hire transition")
		}
	}

	var report api.HiringMetricsResponse
	rec, err := doJSONRequest(s.router, echo.GET, "/api/v1/analytics/hiring-metrics", "", &report)
	require.NoError(err, "get hiring metrics")
	require.Equal(http.StatusOK, rec.Code)

	require.Equal(10, report.TotalApplications)
	require.Equal(3, report.TotalHires)
	require.Equal("30.00", report.ConversionRate)
	require.NotNil(report.TimeToFill.OverallDays)
	require.Equal(11.7, *report.TimeToFill.OverallDays)
	require.Len(report.TimeToFill.ByJob, 1)
	require.Equal(job.ID, report.TimeToFill.ByJob[0].JobID)

	// second call is served from the cache and must be identical
	var cached api.HiringMetricsResponse
	rec, err = doJSONRequest(s.router, echo.GET, "/api/v1/analytics/hiring-metrics", "", &cached)
	require.NoError(err, "get cached hiring metrics")
	require.Equal(http.StatusOK, rec.Code)
	require.Equal(report, cached)
}

func (s *HttpHandlerSuite) TestHiringMetricsScopeFilter() {
	require := s.Require()

	job := s.seedJob("Backend Engineer", true, types.JobStatusApproved, 30)
	s.seedApplication(job.ID, types.ApplicationStatusSubmitted, 5, nil)

	var scoped api.HiringMetricsResponse
	rec, err := doJSONRequest(s.router, echo.GET, "/api/v1/analytics/hiring-metrics", "recruiter-2", &scoped)
	require.NoError(err, "get hiring metrics")
	require.Equal(http.StatusOK, rec.Code)

	// another recruiter sees none of recruiter-1's records
	require.Equal(0, scoped.TotalApplications)
	require.Equal("0.00", scoped.ConversionRate)
	require.Nil(scoped.TimeToFill.OverallDays)
}

func (s *HttpHandlerSuite) TestNudges() {
	require := s.Require()

	inactive := s.seedJob("Closed Role", false, types.JobStatusApproved, 30)
	lowVolume := s.seedJob("Quiet Role", true, types.JobStatusApproved, 20)
	s.seedApplication(lowVolume.ID, types.ApplicationStatusSubmitted, 18, nil)
	s.seedApplication(lowVolume.ID, types.ApplicationStatusSubmitted, 18, nil)

	staleJob := s.seedJob("Busy Role", true, types.JobStatusApproved, 5)
	twelve := 12
	s.seedApplication(staleJob.ID, types.ApplicationStatusShortlisted, 30, &twelve)
	s.seedApplication(staleJob.ID, types.ApplicationStatusRejected, 30, &twelve)

	var response api.NudgesResponse
	rec, err := doJSONRequest(s.router, echo.GET, "/api/v1/analytics/nudges", "", &response)
	require.NoError(err, "get nudges")
	require.Equal(http.StatusOK, rec.Code)

	reasons := map[string]string{}
	for _, health := range response.JobsNeedingAttention {
		require.NotEqual(types.HealthStatusGreen, health.Status)
		reasons[health.JobID] = health.Reason
	}
	require.Equal("Job is inactive", reasons[inactive.ID])
	require.Equal("Very low application volume for job age", reasons[lowVolume.ID])

	require.Len(response.StaleCandidates, 1, "rejected applications are never stale")
	require.Equal(staleJob.ID, response.StaleCandidates[0].JobID)
	require.Equal(1, response.StaleCandidates[0].Count)
	require.Equal(12, response.StaleCandidates[0].OldestStaleDays)

	for i := 1; i < len(response.StaleCandidates); i++ {
		require.GreaterOrEqual(response.StaleCandidates[i-1].Count, response.StaleCandidates[i].Count)
	}
}

func (s *HttpHandlerSuite) TestJobHealth() {
	require := s.Require()

	job := s.seedJob("Lonely Role", true, types.JobStatusApproved, 10)

	var health api.JobHealthSummary
	rec, err := doJSONRequest(s.router, echo.GET, "/api/v1/analytics/jobs/"+job.ID+"/health", "", &health)
	require.NoError(err, "get job health")
	require.Equal(http.StatusOK, rec.Code)

	require.Equal(job.ID, health.JobID)
	require.Equal(types.HealthStatusRed, health.Status)
	require.Equal("No applications after the first week", health.Reason)

	rec, err = doJSONRequest(s.router, echo.GET, "/api/v1/analytics/jobs/unknown/health", "", nil)
	require.NoError(err, "get unknown job health")
	require.Equal(http.StatusNotFound, rec.Code)
}

func (s *HttpHandlerSuite) TestAnalyticsServiceClient() {
	require := s.Require()

	job := s.seedJob("Lonely Role", true, types.JobStatusApproved, 10)

	server := httptest.NewServer(s.router)
	defer server.Close()

	c := client.NewAnalyticsServiceClient(server.URL)

	health, err := c.GetJobHealth(&httpclient.Context{RecruiterID: "recruiter-1"}, job.ID)
	require.NoError(err, "get job health via client")
	require.Equal(job.ID, health.JobID)
	require.Equal(types.HealthStatusRed, health.Status)

	metrics, err := c.GetHiringMetrics(&httpclient.Context{}, job.ID, "", "")
	require.NoError(err, "get hiring metrics via client")
	require.Equal(0, metrics.TotalApplications)

	_, err = c.GetJobHealth(&httpclient.Context{}, "unknown")
	require.Error(err, "unknown job surfaces the service error")
}

func (s *HttpHandlerSuite) TestExportHiringMetrics() {
	require := s.Require()

	job := s.seedJob("Backend Engineer", true, types.JobStatusApproved, 30)
	s.seedApplication(job.ID, types.ApplicationStatusSubmitted, 5, nil)

	rec, err := doJSONRequest(s.router, echo.GET, "/api/v1/analytics/hiring-metrics/export", "", nil)
	require.NoError(err, "export hiring metrics")
	require.Equal(http.StatusOK, rec.Code)
	require.Contains(rec.Header().Get(echo.HeaderContentDisposition), "hiring-metrics.xlsx")
	require.NotZero(rec.Body.Len())
}
