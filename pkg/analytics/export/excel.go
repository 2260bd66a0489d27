package export

import (
	"fmt"

	"github.com/hireflow-io/hireflow-engine/pkg/analytics/api"
	"github.com/hireflow-io/hireflow-engine/pkg/analytics/funnel"
	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet     = "Summary"
	timeToFillSheet  = "Time To Fill"
	timeInStageSheet = "Time In Stage"
	healthSheet      = "Job Health"
)

// BuildMetricsWorkbook renders the funnel report and health digest into an
// XLSX workbook: a summary sheet, one row per hiring job, one row per
// pipeline stage, and a colour-coded job health sheet.
func BuildMetricsWorkbook(report funnel.Report, healths []api.JobHealthSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", summarySheet)
	if err := writeSummarySheet(f, report); err != nil {
		return nil, err
	}
	if err := writeTimeToFillSheet(f, report); err != nil {
		return nil, err
	}
	if err := writeTimeInStageSheet(f, report); err != nil {
		return nil, err
	}
	if err := writeHealthSheet(f, healths); err != nil {
		return nil, err
	}

	index, err := f.GetSheetIndex(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
}

func writeSummarySheet(f *excelize.File, report funnel.Report) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	overall := "no hires in scope"
	if report.TimeToFill.OverallDays != nil {
		overall = fmt.Sprintf("%.1f days", *report.TimeToFill.OverallDays)
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Total applications", report.TotalApplications},
		{"Total hires", report.TotalHires},
		{"Conversion rate (%)", report.ConversionRate},
		{"Time to fill (overall)", overall},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(summarySheet, "A1", "B1", style)
}

func writeTimeToFillSheet(f *excelize.File, report funnel.Report) error {
	if _, err := f.NewSheet(timeToFillSheet); err != nil {
		return err
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	header := []any{"Job", "Average days", "Hired", "Oldest hire", "Newest hire"}
	if err := f.SetSheetRow(timeToFillSheet, "A1", &header); err != nil {
		return err
	}
	for i, job := range report.TimeToFill.ByJob {
		row := []any{
			job.JobTitle,
			job.AverageDays,
			job.HiredCount,
			job.OldestHireDate.Format("2006-01-02"),
			job.NewestHireDate.Format("2006-01-02"),
		}
		if err := f.SetSheetRow(timeToFillSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(timeToFillSheet, "A1", "E1", style)
}

func writeTimeInStageSheet(f *excelize.File, report funnel.Report) error {
	if _, err := f.NewSheet(timeInStageSheet); err != nil {
		return err
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	header := []any{"Stage", "Order", "Average days", "Transitions", "Min days", "Max days"}
	if err := f.SetSheetRow(timeInStageSheet, "A1", &header); err != nil {
		return err
	}
	for i, stage := range report.TimeInStage {
		row := []any{
			stage.StageName,
			stage.StageOrder,
			stage.AverageDays,
			stage.TransitionCount,
			stage.MinDays,
			stage.MaxDays,
		}
		if err := f.SetSheetRow(timeInStageSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(timeInStageSheet, "A1", "F1", style)
}

func writeHealthSheet(f *excelize.File, healths []api.JobHealthSummary) error {
	if _, err := f.NewSheet(healthSheet); err != nil {
		return err
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	greenStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	amberStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFEB9C"}, Pattern: 1},
	})
	redStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})

	header := []any{"Job", "Status", "Reason", "Days posted", "Applications"}
	if err := f.SetSheetRow(healthSheet, "A1", &header); err != nil {
		return err
	}
	for i, health := range healths {
		rowNum := i + 2
		row := []any{
			health.JobTitle,
			string(health.Status),
			health.Reason,
			health.DaysSincePosted,
			health.TotalApplications,
		}
		if err := f.SetSheetRow(healthSheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
			return err
		}

		rowStyle := greenStyle
		switch health.Status {
		case types.HealthStatusAmber:
			rowStyle = amberStyle
		case types.HealthStatusRed:
			rowStyle = redStyle
		}
		if err := f.SetCellStyle(healthSheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("E%d", rowNum), rowStyle); err != nil {
			return err
		}
	}
	return f.SetCellStyle(healthSheet, "A1", "E1", style)
}
