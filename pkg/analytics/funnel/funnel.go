// Package funnel computes hiring-funnel metrics, job health classifications
// and stale-candidate scans from in-memory snapshots of the recruiting
// schema. Everything here is pure: no storage access, no clocks (the caller
// supplies now), no mutation of inputs, so calls are safe to run
// concurrently and trivially cacheable by the caller.
package funnel

import (
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/types"
)

type Job struct {
	ID        string
	Title     string
	IsActive  bool
	Status    types.JobStatus
	CreatedAt time.Time
}

// Application is a snapshot row. AppliedAt is a pointer because upstream
// data can carry null timestamps; such rows are silently excluded from every
// computation rather than reported as errors.
type Application struct {
	ID             string
	JobID          string
	Status         types.ApplicationStatus
	AppliedAt      *time.Time
	CurrentStageID *string
	StageChangedAt *time.Time
}

type PipelineStage struct {
	ID             string
	Name           string
	Order          int
	IsDefault      bool
	IsTerminalHire bool
}

// StageTransition is one row of the application stage history time series.
type StageTransition struct {
	ApplicationID string
	FromStageID   *string
	ToStageID     string
	ChangedAt     time.Time
}

// Counter carries the externally maintained view/click tallies for a job.
type Counter struct {
	JobID          string
	Views          int64
	ApplyClicks    int64
	ConversionRate float64
}

// Window is an optional half-open [Start, End) time filter. A nil bound
// leaves that side unbounded.
type Window struct {
	Start *time.Time
	End   *time.Time
}

func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && !t.Before(*w.End) {
		return false
	}
	return true
}
