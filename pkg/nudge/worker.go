package nudge

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/hireflow-io/hireflow-engine/pkg/internal/postgres"
	"github.com/hireflow-io/hireflow-engine/pkg/nudge/config"
	"github.com/hireflow-io/hireflow-engine/pkg/recruiting/db"
	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	defaultInterval           = 6 * time.Hour
	defaultJobPostingLifetime = 60
)

var (
	jobsDeactivated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hireflow",
		Subsystem: "nudge",
		Name:      "jobs_deactivated_total",
		Help:      "Count of jobs the worker deactivated past their posting lifetime.",
	})

	jobsNeedingAttention = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hireflow",
		Subsystem: "nudge",
		Name:      "jobs_needing_attention",
		Help:      "Jobs with non-green health in the latest digest.",
	})

	staleCandidates = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hireflow",
		Subsystem: "nudge",
		Name:      "stale_candidates",
		Help:      "Stale applications across active jobs in the latest digest.",
	})
)

type Worker struct {
	cnf    config.Config
	db     db.Database
	logger *zap.Logger

	policy         funnel.HealthPolicy
	staleThreshold int
	interval       time.Duration
	lifetimeDays   int
}

func NewWorker(cnf config.Config, logger *zap.Logger) (*Worker, error) {
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

	policy := cnf.Health
	if policy == (funnel.HealthPolicy{}) {
		policy = funnel.DefaultHealthPolicy()
	}
	staleThreshold := cnf.StaleThresholdDays
	if staleThreshold <= 0 {
		staleThreshold = funnel.DefaultStaleThresholdDays
	}
	interval := defaultInterval
	if cnf.IntervalHours > 0 {
		interval = time.Duration(cnf.IntervalHours) * time.Hour
	}
	lifetimeDays := cnf.JobPostingLifetimeDays
	if lifetimeDays <= 0 {
		lifetimeDays = defaultJobPostingLifetime
	}

	return &Worker{
		cnf:            cnf,
		db:             db.NewDatabase(orm),
		logger:         logger,
		policy:         policy,
		staleThreshold: staleThreshold,
		interval:       interval,
		lifetimeDays:   lifetimeDays,
	}, nil
}

// Run executes one cycle immediately, then on every tick until the context
// is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w.cnf.PrometheusListenAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(w.cnf.PrometheusListenAddress, mux); err != nil {
				w.logger.Error("prometheus listener", zap.Error(err))
			}
		}()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.runCycle(ctx); err != nil {
			w.logger.Error("nudge cycle", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) error {
	now := time.Now()

	if w.cnf.AutomationEnabled {
		cutoff := now.AddDate(0, 0, -w.lifetimeDays)
		deactivated, err := w.db.DeactivateJobsCreatedBefore(cutoff, now)
		if err != nil {
			return fmt.Errorf("deactivate expired jobs: %w", err)
		}
		if deactivated > 0 {
			jobsDeactivated.Add(float64(deactivated))
			w.logger.Info("deactivated expired job postings",
				zap.Int64("count", deactivated),
				zap.Int("lifetimeDays", w.lifetimeDays))
		}
	}

	return w.computeDigest(now)
}

// computeDigest runs the funnel core over the full record set and publishes
// the result as logs and gauges. It never writes back to storage.
func (w *Worker) computeDigest(now time.Time) error {
	jobs, err := w.db.ListJobs("")
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	jobIDs := make([]string, 0, len(jobs))
	for _, job := range jobs {
		jobIDs = append(jobIDs, job.ID)
	}
	applications, err := w.db.ListApplicationsForJobs(jobIDs)
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}
	counters, err := w.db.ListAnalyticsCounters(jobIDs)
	if err != nil {
		return fmt.Errorf("list analytics counters: %w", err)
	}

	funnelJobs := make([]funnel.Job, 0, len(jobs))
	for _, job := range jobs {
		funnelJobs = append(funnelJobs, funnel.Job{
			ID:        job.ID,
			Title:     job.Title,
			IsActive:  job.IsActive,
			Status:    job.Status,
			CreatedAt: job.CreatedAt,
		})
	}
	funnelApplications := make([]funnel.Application, 0, len(applications))
	for _, application := range applications {
		appliedAt := application.AppliedAt
		funnelApplications = append(funnelApplications, funnel.Application{
			ID:             application.ID,
			JobID:          application.JobID,
			Status:         application.Status,
			AppliedAt:      &appliedAt,
			CurrentStageID: application.CurrentStageID,
			StageChangedAt: application.StageChangedAt,
		})
	}
	counterByJob := make(map[string]funnel.Counter, len(counters))
	for _, counter := range counters {
		counterByJob[counter.JobID] = funnel.Counter{
			JobID:          counter.JobID,
			Views:          counter.Views,
			ApplyClicks:    counter.ApplyClicks,
			ConversionRate: counter.ConversionRate,
		}
	}

	needingAttention := 0
	for _, job := range funnelJobs {
		var counter *funnel.Counter
		if c, ok := counterByJob[job.ID]; ok {
			counter = &c
		}
		sig := funnel.BuildHealthSignals(job, funnelApplications, counter, now)
		result := funnel.ClassifyJobHealth(sig, w.policy)
		if result.Status != types.HealthStatusGreen {
			needingAttention++
			w.logger.Info("job needs attention",
				zap.String("jobId", job.ID),
				zap.String("title", job.Title),
				zap.String("status", string(result.Status)),
				zap.String("reason", result.Reason))
		}
	}

	stale := funnel.DetectStaleCandidates(funnelJobs, funnelApplications, w.staleThreshold, now)
	staleTotal := 0
	for _, summary := range stale {
		staleTotal += summary.Count
		w.logger.Info("stale candidates waiting",
			zap.String("jobId", summary.JobID),
			zap.String("title", summary.JobTitle),
			zap.Int("count", summary.Count),
			zap.Int("oldestStaleDays", summary.OldestStaleDays))
	}

	jobsNeedingAttention.Set(float64(needingAttention))
	staleCandidates.Set(float64(staleTotal))
	w.logger.Info("nudge digest computed",
		zap.Int("jobs", len(funnelJobs)),
		zap.Int("jobsNeedingAttention", needingAttention),
		zap.Int("staleCandidates", staleTotal))
	return nil
}
