package funnel

import (
	"fmt"
	"testing"

	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectStaleCandidates(t *testing.T) {
	jobs := []Job{
		{ID: "job-1", Title: "Backend Engineer", IsActive: true},
		{ID: "job-2", Title: "Product Manager", IsActive: true},
		{ID: "job-3", Title: "Closed Role", IsActive: false},
	}

	twelveDays := daysAgo(12)
	thirtyDays := daysAgo(30)
	twoDays := daysAgo(2)
	applications := []Application{
		// stale: shortlisted, stage changed 12 days ago
		{ID: "app-1", JobID: "job-1", Status: types.ApplicationStatusShortlisted, AppliedAt: &thirtyDays, StageChangedAt: &twelveDays},
		// stale: no stage change, falls back to appliedAt
		{ID: "app-2", JobID: "job-1", Status: types.ApplicationStatusSubmitted, AppliedAt: &thirtyDays},
		// fresh: touched two days ago
		{ID: "app-3", JobID: "job-1", Status: types.ApplicationStatusReviewed, AppliedAt: &thirtyDays, StageChangedAt: &twoDays},
		// rejected is terminal, never stale
		{ID: "app-4", JobID: "job-2", Status: types.ApplicationStatusRejected, AppliedAt: &thirtyDays, StageChangedAt: &thirtyDays},
		// stale on job-2
		{ID: "app-5", JobID: "job-2", Status: types.ApplicationStatusSubmitted, AppliedAt: &twelveDays},
		// inactive job never surfaces
		{ID: "app-6", JobID: "job-3", Status: types.ApplicationStatusSubmitted, AppliedAt: &thirtyDays},
	}

	summaries := DetectStaleCandidates(jobs, applications, 10, testNow)

	require.Len(t, summaries, 2)
	assert.Equal(t, "job-1", summaries[0].JobID)
	assert.Equal(t, 2, summaries[0].Count)
	assert.Equal(t, 30, summaries[0].OldestStaleDays)
	assert.Equal(t, "job-2", summaries[1].JobID)
	assert.Equal(t, 1, summaries[1].Count)
	assert.Equal(t, 12, summaries[1].OldestStaleDays)
}

func TestDetectStaleCandidatesRejectedNeverStale(t *testing.T) {
	jobs := []Job{{ID: "job-1", Title: "Backend Engineer", IsActive: true}}
	thirtyDays := daysAgo(30)
	applications := []Application{
		{ID: "app-1", JobID: "job-1", Status: types.ApplicationStatusRejected, AppliedAt: &thirtyDays, StageChangedAt: &thirtyDays},
	}

	summaries := DetectStaleCandidates(jobs, applications, 10, testNow)
	assert.Empty(t, summaries)
}

func TestDetectStaleCandidatesThresholdBoundary(t *testing.T) {
	jobs := []Job{{ID: "job-1", Title: "Backend Engineer", IsActive: true}}

	exactlyTen := daysAgo(10)
	justUnder := daysAgo(9.9)
	applications := []Application{
		{ID: "app-1", JobID: "job-1", Status: types.ApplicationStatusShortlisted, AppliedAt: &exactlyTen, StageChangedAt: &exactlyTen},
		{ID: "app-2", JobID: "job-1", Status: types.ApplicationStatusShortlisted, AppliedAt: &justUnder, StageChangedAt: &justUnder},
	}

	summaries := DetectStaleCandidates(jobs, applications, 10, testNow)

	// >= threshold is stale, just under is not
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Count)
}

func TestDetectStaleCandidatesSortedDescendingByCount(t *testing.T) {
	var jobs []Job
	var applications []Application
	old := daysAgo(20)
	for j := 0; j < 4; j++ {
		jobID := fmt.Sprintf("job-%d", j)
		jobs = append(jobs, Job{ID: jobID, Title: jobID, IsActive: true})
		for a := 0; a <= j; a++ {
			applications = append(applications, Application{
				ID:        fmt.Sprintf("app-%d-%d", j, a),
				JobID:     jobID,
				Status:    types.ApplicationStatusSubmitted,
				AppliedAt: &old,
			})
		}
	}

	summaries := DetectStaleCandidates(jobs, applications, 10, testNow)

	require.Len(t, summaries, 4)
	for i := 1; i < len(summaries); i++ {
		assert.GreaterOrEqual(t, summaries[i-1].Count, summaries[i].Count)
	}
}

func TestDetectStaleCandidatesUsesStageChangeOverAppliedAt(t *testing.T) {
	jobs := []Job{{ID: "job-1", Title: "Backend Engineer", IsActive: true}}

	// applied long ago but a recruiter touched it recently
	applied := daysAgo(40)
	touched := daysAgo(1)
	applications := []Application{
		{ID: "app-1", JobID: "job-1", Status: types.ApplicationStatusReviewed, AppliedAt: &applied, StageChangedAt: &touched},
	}

	summaries := DetectStaleCandidates(jobs, applications, 10, testNow)
	assert.Empty(t, summaries)
}
