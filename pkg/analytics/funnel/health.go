package funnel

import (
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/types"
)

// HealthPolicy carries the classification thresholds as named configuration.
// The defaults are fixed policy; tune the values, never the rule order.
type HealthPolicy struct {
	NoApplicationsAfterDays   int     `koanf:"no_applications_after_days"`
	LowVolumeThreshold        int     `koanf:"low_volume_threshold"`
	LowVolumeAfterDays        int     `koanf:"low_volume_after_days"`
	StaleApplicationDays      int     `koanf:"stale_application_days"`
	MinConversionRate         float64 `koanf:"min_conversion_rate"`
	ConversionMinApplications int     `koanf:"conversion_min_applications"`
}

func DefaultHealthPolicy() HealthPolicy {
	return HealthPolicy{
		NoApplicationsAfterDays:   7,
		LowVolumeThreshold:        3,
		LowVolumeAfterDays:        14,
		StaleApplicationDays:      14,
		MinConversionRate:         5,
		ConversionMinApplications: 5,
	}
}

type HealthSignals struct {
	JobID    string
	JobTitle string

	IsActive        bool
	Status          types.JobStatus
	DaysSincePosted int

	TotalApplications int
	// DaysSinceLastApplication is nil when the job has no applications.
	DaysSinceLastApplication *int
	ConversionRate           float64
}

type HealthResult struct {
	Status types.HealthStatus `json:"status"`
	Reason string             `json:"reason"`
}

type healthRule struct {
	match  func(sig HealthSignals, pol HealthPolicy) bool
	status types.HealthStatus
	reason string
}

// healthRules is evaluated top to bottom, first match wins. The ordering is
// load-bearing: later rules are more lenient and would mask the true reason,
// so an inactive job must always report inactive even when it also has zero
// applications.
var healthRules = []healthRule{
	{
		match:  func(sig HealthSignals, pol HealthPolicy) bool { return !sig.IsActive },
		status: types.HealthStatusRed,
		reason: "Job is inactive",
	},
	{
		match:  func(sig HealthSignals, pol HealthPolicy) bool { return sig.Status != types.JobStatusApproved },
		status: types.HealthStatusAmber,
		reason: "Job not yet approved",
	},
	{
		match: func(sig HealthSignals, pol HealthPolicy) bool {
			return sig.TotalApplications == 0 && sig.DaysSincePosted > pol.NoApplicationsAfterDays
		},
		status: types.HealthStatusRed,
		reason: "No applications after the first week",
	},
	{
		match: func(sig HealthSignals, pol HealthPolicy) bool {
			return sig.TotalApplications < pol.LowVolumeThreshold && sig.DaysSincePosted > pol.LowVolumeAfterDays
		},
		status: types.HealthStatusRed,
		reason: "Very low application volume for job age",
	},
	{
		match: func(sig HealthSignals, pol HealthPolicy) bool {
			return sig.DaysSinceLastApplication != nil && *sig.DaysSinceLastApplication > pol.StaleApplicationDays
		},
		status: types.HealthStatusAmber,
		reason: "No new applications in the last 14 days",
	},
	{
		match: func(sig HealthSignals, pol HealthPolicy) bool {
			return sig.ConversionRate < pol.MinConversionRate && sig.TotalApplications >= pol.ConversionMinApplications
		},
		status: types.HealthStatusAmber,
		reason: "Low conversion from views to applications",
	},
}

// ClassifyJobHealth is pure and idempotent: same signals, same result. It
// walks the ordered rule table and falls through to green.
func ClassifyJobHealth(sig HealthSignals, pol HealthPolicy) HealthResult {
	for _, rule := range healthRules {
		if rule.match(sig, pol) {
			return HealthResult{Status: rule.status, Reason: rule.reason}
		}
	}
	return HealthResult{Status: types.HealthStatusGreen, Reason: "Healthy pipeline"}
}

// BuildHealthSignals derives a job's classification inputs from its snapshot
// rows. DaysSincePosted is floored to whole days and clamped at zero;
// applications without an applied timestamp are ignored.
func BuildHealthSignals(job Job, applications []Application, counter *Counter, now time.Time) HealthSignals {
	sig := HealthSignals{
		JobID:           job.ID,
		JobTitle:        job.Title,
		IsActive:        job.IsActive,
		Status:          job.Status,
		DaysSincePosted: wholeDaysSince(job.CreatedAt, now),
	}

	var lastApplied *time.Time
	for _, application := range applications {
		if application.JobID != job.ID || application.AppliedAt == nil {
			continue
		}
		sig.TotalApplications++
		if lastApplied == nil || application.AppliedAt.After(*lastApplied) {
			lastApplied = application.AppliedAt
		}
	}
	if lastApplied != nil {
		days := wholeDaysSince(*lastApplied, now)
		sig.DaysSinceLastApplication = &days
	}

	if counter != nil {
		sig.ConversionRate = counter.ConversionRate
	}
	return sig
}

func wholeDaysSince(from, now time.Time) int {
	days := int(now.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
