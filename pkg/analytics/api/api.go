package api

import (
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/hireflow-io/hireflow-engine/pkg/types"
)

// HiringMetricsResponse is the funnel report as served over HTTP.
type HiringMetricsResponse = funnel.Report

type JobHealthSummary struct {
	JobID             string             `json:"jobId"`
	JobTitle          string             `json:"jobTitle"`
	Status            types.HealthStatus `json:"status"`
	Reason            string             `json:"reason"`
	DaysSincePosted   int                `json:"daysSincePosted"`
	TotalApplications int                `json:"totalApplications"`
}

type NudgesResponse struct {
	JobsNeedingAttention []JobHealthSummary       `json:"jobsNeedingAttention"`
	StaleCandidates      []funnel.StaleJobSummary `json:"staleCandidates"`
}
