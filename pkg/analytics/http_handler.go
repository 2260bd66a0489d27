package analytics

import (
	"fmt"
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics/cache"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/config"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/postgres"
	"github.com/hireflow-io/hireflow-engine/pkg/recruiting/db"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

type HttpHandler struct {
	db     db.Database
	cache  *cache.MetricsCache
	logger *zap.Logger

	healthPolicy   funnel.HealthPolicy
	staleThreshold int
}

func InitializeHttpHandler(cnf config.Config, logger *zap.Logger) (*HttpHandler, error) {
	cfg := postgres.Config{
		Host:    cnf.Postgres.Host,
		Port:    cnf.Postgres.Port,
		User:    cnf.Postgres.Username,
		Passwd:  cnf.Postgres.Password,
		DB:      cnf.Postgres.DB,
		SSLMode: cnf.Postgres.SSLMode,
	}
	orm, err := postgres.NewClient(&cfg, logger.Named("postgres"))
	if err != nil {
		return nil, fmt.Errorf("new postgres client: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cnf.Redis.Address,
	})

	ttl := defaultCacheTTL
	if cnf.CacheTTLMinutes > 0 {
		ttl = time.Duration(cnf.CacheTTLMinutes) * time.Minute
	}

	policy := cnf.Health
	if policy == (funnel.HealthPolicy{}) {
		policy = funnel.DefaultHealthPolicy()
	}
	staleThreshold := cnf.StaleThresholdDays
	if staleThreshold <= 0 {
		staleThreshold = funnel.DefaultStaleThresholdDays
	}

	return &HttpHandler{
		db:             db.NewDatabase(orm),
		cache:          cache.NewMetricsCache(rdb, ttl),
		logger:         logger,
		healthPolicy:   policy,
		staleThreshold: staleThreshold,
	}, nil
}

// snapshot is the in-memory record set one analytics request operates on,
// already narrowed to the caller's visibility scope.
type snapshot struct {
	jobs         []funnel.Job
	applications []funnel.Application
	stages       []funnel.PipelineStage
	transitions  []funnel.StageTransition
	counters     map[string]funnel.Counter
}

func (h *HttpHandler) loadSnapshot(scope string) (*snapshot, error) {
	jobs, err := h.db.ListJobs(scope)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	jobIDs := make([]string, 0, len(jobs))
	for _, job := range jobs {
		jobIDs = append(jobIDs, job.ID)
	}

	applications, err := h.db.ListApplicationsForJobs(jobIDs)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	stages, err := h.db.ListStages()
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	history, err := h.db.ListStageHistoryForJobs(jobIDs)
	if err != nil {
		return nil, fmt.Errorf("list stage history: %w", err)
	}
	counters, err := h.db.ListAnalyticsCounters(jobIDs)
	if err != nil {
		return nil, fmt.Errorf("list analytics counters: %w", err)
	}

	s := snapshot{
		jobs:         make([]funnel.Job, 0, len(jobs)),
		applications: make([]funnel.Application, 0, len(applications)),
		stages:       make([]funnel.PipelineStage, 0, len(stages)),
		transitions:  make([]funnel.StageTransition, 0, len(history)),
		counters:     make(map[string]funnel.Counter, len(counters)),
	}
	for _, job := range jobs {
		s.jobs = append(s.jobs, funnel.Job{
			ID:        job.ID,
			Title:     job.Title,
			IsActive:  job.IsActive,
			Status:    job.Status,
			CreatedAt: job.CreatedAt,
		})
	}
	for _, application := range applications {
		appliedAt := application.AppliedAt
		s.applications = append(s.applications, funnel.Application{
			ID:             application.ID,
			JobID:          application.JobID,
			Status:         application.Status,
			AppliedAt:      &appliedAt,
			CurrentStageID: application.CurrentStageID,
			StageChangedAt: application.StageChangedAt,
		})
	}
	for _, stage := range stages {
		s.stages = append(s.stages, funnel.PipelineStage{
			ID:             stage.ID,
			Name:           stage.Name,
			Order:          stage.StageOrder,
			IsDefault:      stage.IsDefault,
			IsTerminalHire: stage.IsTerminalHireStage,
		})
	}
	for _, row := range history {
		s.transitions = append(s.transitions, funnel.StageTransition{
			ApplicationID: row.ApplicationID,
			FromStageID:   row.FromStageID,
			ToStageID:     row.ToStageID,
			ChangedAt:     row.ChangedAt,
		})
	}
	for _, counter := range counters {
		s.counters[counter.JobID] = funnel.Counter{
			JobID:          counter.JobID,
			Views:          counter.Views,
			ApplyClicks:    counter.ApplyClicks,
			ConversionRate: counter.ConversionRate,
		}
	}
	return &s, nil
}
