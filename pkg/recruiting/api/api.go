package api

import (
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/types"
)

type CreateJobRequest struct {
	Title       string   `json:"title" validate:"required"`
	Department  string   `json:"department"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

type Job struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Department    string          `json:"department"`
	Location      string          `json:"location"`
	Tags          []string        `json:"tags"`
	Description   string          `json:"description"`
	IsActive      bool            `json:"isActive"`
	Status        types.JobStatus `json:"status"`
	PostedBy      string          `json:"postedBy"`
	CreatedAt     time.Time       `json:"createdAt"`
	DeactivatedAt *time.Time      `json:"deactivatedAt,omitempty"`
}

type CreateApplicationRequest struct {
	CandidateName  string `json:"candidateName" validate:"required"`
	CandidateEmail string `json:"candidateEmail" validate:"required,email"`
	Notes          string `json:"notes"`
}

type Application struct {
	ID             string                  `json:"id"`
	JobID          string                  `json:"jobId"`
	CandidateName  string                  `json:"candidateName"`
	CandidateEmail string                  `json:"candidateEmail"`
	Status         types.ApplicationStatus `json:"status"`
	AppliedAt      time.Time               `json:"appliedAt"`
	CurrentStageID *string                 `json:"currentStageId,omitempty"`
	StageChangedAt *time.Time              `json:"stageChangedAt,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
}

type MoveStageRequest struct {
	StageID string `json:"stageId" validate:"required,uuid"`
}

type UpdateApplicationStatusRequest struct {
	Status types.ApplicationStatus `json:"status" validate:"required"`
}

type CreateStageRequest struct {
	Name                string `json:"name" validate:"required"`
	StageOrder          int    `json:"stageOrder" validate:"required,min=1"`
	IsTerminalHireStage bool   `json:"isTerminalHireStage"`
}

type UpdateStageRequest struct {
	Name                *string `json:"name"`
	StageOrder          *int    `json:"stageOrder"`
	IsTerminalHireStage *bool   `json:"isTerminalHireStage"`
}

type PipelineStage struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	StageOrder          int    `json:"stageOrder"`
	IsDefault           bool   `json:"isDefault"`
	IsTerminalHireStage bool   `json:"isTerminalHireStage"`
}

type JobAnalyticsCounter struct {
	JobID          string  `json:"jobId"`
	Views          int64   `json:"views"`
	ApplyClicks    int64   `json:"applyClicks"`
	ConversionRate float64 `json:"conversionRate"`
}
