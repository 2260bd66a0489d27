package export

import (
	"testing"
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics/api"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMetricsWorkbook(t *testing.T) {
	overall := 11.7
	report := funnel.Report{
		TimeToFill: funnel.TimeToFill{
			OverallDays: &overall,
			ByJob: []funnel.JobTimeToFill{
				{
					JobID:          "job-1",
					JobTitle:       "Backend Engineer",
					AverageDays:    11.7,
					HiredCount:     3,
					OldestHireDate: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
					NewestHireDate: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		TimeInStage: []funnel.StageDwell{
			{StageID: "stage-1", StageName: "Applied", StageOrder: 1, AverageDays: 4.2, TransitionCount: 7, MinDays: 1.1, MaxDays: 9.3},
		},
		TotalApplications: 10,
		TotalHires:        3,
		ConversionRate:    "30.00",
	}
	healths := []api.JobHealthSummary{
		{JobID: "job-1", JobTitle: "Backend Engineer", Status: types.HealthStatusGreen, Reason: "Healthy pipeline"},
		{JobID: "job-2", JobTitle: "Quiet Role", Status: types.HealthStatusRed, Reason: "No applications after the first week"},
	}

	f, err := BuildMetricsWorkbook(report, healths)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{summarySheet, timeToFillSheet, timeInStageSheet, healthSheet}, f.GetSheetList())

	hires, err := f.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "3", hires)

	jobTitle, err := f.GetCellValue(timeToFillSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", jobTitle)

	stageName, err := f.GetCellValue(timeInStageSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Applied", stageName)

	healthReason, err := f.GetCellValue(healthSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "No applications after the first week", healthReason)
}

func TestBuildMetricsWorkbookNoHires(t *testing.T) {
	report := funnel.Report{
		TimeToFill:     funnel.TimeToFill{OverallDays: nil, ByJob: []funnel.JobTimeToFill{}},
		ConversionRate: "0.00",
	}

	f, err := BuildMetricsWorkbook(report, nil)
	require.NoError(t, err)

	overall, err := f.GetCellValue(summarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "no hires in scope", overall)
}
