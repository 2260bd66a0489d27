package db

import (
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"github.com/lib/pq"
)

type Job struct {
	ID            string          `gorm:"primaryKey;type:uuid"`
	Title         string          `gorm:"not null"`
	Department    string          `gorm:"column:department"`
	Location      string          `gorm:"column:location"`
	Tags          pq.StringArray  `gorm:"type:text[]"`
	Description   string          `gorm:"column:description"`
	IsActive      bool            `gorm:"index"`
	Status        types.JobStatus `gorm:"index;default:'pending'"`
	PostedBy      string          `gorm:"index"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
	DeactivatedAt *time.Time      `gorm:"column:deactivated_at"`
}

type Application struct {
	ID             string                  `gorm:"primaryKey;type:uuid"`
	JobID          string                  `gorm:"index;type:uuid;not null"`
	CandidateName  string                  `gorm:"not null"`
	CandidateEmail string                  `gorm:"not null"`
	Status         types.ApplicationStatus `gorm:"index;default:'submitted'"`
	AppliedAt      time.Time               `gorm:"column:applied_at"`
	CurrentStageID *string                 `gorm:"type:uuid"`
	StageChangedAt *time.Time              `gorm:"column:stage_changed_at"`
	Notes          string                  `gorm:"column:notes"`
}

type PipelineStage struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	Name       string `gorm:"not null"`
	StageOrder int    `gorm:"uniqueIndex;not null"`
	IsDefault  bool
	// Hire semantics is an explicit flag on the stage, configured by the
	// recruiter, never inferred from the stage name.
	IsTerminalHireStage bool
}

type ApplicationStageHistory struct {
	ID            uint      `gorm:"primaryKey"`
	ApplicationID string    `gorm:"index;type:uuid;not null"`
	FromStageID   *string   `gorm:"type:uuid"`
	ToStageID     string    `gorm:"type:uuid;not null"`
	ChangedAt     time.Time `gorm:"index"`
	ChangedBy     string    `gorm:"column:changed_by"`
}

// JobAnalyticsCounter holds the view/click tallies the tracking endpoints
// accumulate per job. ConversionRate is views to applications, percent.
type JobAnalyticsCounter struct {
	JobID          string `gorm:"primaryKey;type:uuid"`
	Views          int64
	ApplyClicks    int64
	ConversionRate float64
	UpdatedAt      time.Time
}
