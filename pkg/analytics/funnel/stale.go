package funnel

import (
	"sort"
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/types"
)

const DefaultStaleThresholdDays = 10

type StaleJobSummary struct {
	JobID    string `json:"jobId"`
	JobTitle string `json:"jobTitle"`
	Count    int    `json:"count"`
	// OldestStaleDays is the worst case within the job, surfacing urgency.
	OldestStaleDays int `json:"oldestStaleDays"`
}

// DetectStaleCandidates scans applications on active jobs for candidates
// untouched past the threshold. An application is stale when its job is
// active, it is not rejected (rejected is terminal, the candidate is not
// waiting on anyone), and the last meaningful touch is at least the threshold
// ago. The last touch is the stage change when present, otherwise the
// application itself. Results are grouped per job and sorted descending by
// count; ties keep insertion order.
func DetectStaleCandidates(jobs []Job, applications []Application, thresholdDays int, now time.Time) []StaleJobSummary {
	if thresholdDays <= 0 {
		thresholdDays = DefaultStaleThresholdDays
	}

	activeJobs := make(map[string]Job, len(jobs))
	for _, job := range jobs {
		if job.IsActive {
			activeJobs[job.ID] = job
		}
	}

	summaries := make(map[string]*StaleJobSummary)
	var order []string

	for _, application := range applications {
		job, ok := activeJobs[application.JobID]
		if !ok {
			continue
		}
		if application.Status == types.ApplicationStatusRejected {
			continue
		}

		lastTouch := application.AppliedAt
		if application.StageChangedAt != nil {
			lastTouch = application.StageChangedAt
		}
		if lastTouch == nil {
			continue
		}

		staleDays := now.Sub(*lastTouch).Hours() / 24
		if staleDays < float64(thresholdDays) {
			continue
		}

		summary, ok := summaries[job.ID]
		if !ok {
			summary = &StaleJobSummary{JobID: job.ID, JobTitle: job.Title}
			summaries[job.ID] = summary
			order = append(order, job.ID)
		}
		summary.Count++
		if days := int(staleDays); days > summary.OldestStaleDays {
			summary.OldestStaleDays = days
		}
	}

	result := make([]StaleJobSummary, 0, len(order))
	for _, jobID := range order {
		result = append(result, *summaries[jobID])
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result
}
