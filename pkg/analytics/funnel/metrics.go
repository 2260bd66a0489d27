package funnel

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type AggregateInput struct {
	Jobs         []Job
	Applications []Application
	Stages       []PipelineStage
	Transitions  []StageTransition

	// Optional filters. JobID narrows the population to one job; Window is
	// applied half-open to AppliedAt for the population and to the hire
	// timestamp for hires.
	JobID  string
	Window Window

	Now time.Time
}

type Report struct {
	TimeToFill        TimeToFill   `json:"timeToFill"`
	TimeInStage       []StageDwell `json:"timeInStage"`
	TotalApplications int          `json:"totalApplications"`
	TotalHires        int          `json:"totalHires"`
	ConversionRate    string       `json:"conversionRate"`
}

type TimeToFill struct {
	// OverallDays is nil exactly when the filtered scope contains no hires.
	// A same-day hire contributes a zero-day sample but never suppresses the
	// aggregate.
	OverallDays *float64        `json:"overall"`
	ByJob       []JobTimeToFill `json:"byJob"`
}

type JobTimeToFill struct {
	JobID          string    `json:"jobId"`
	JobTitle       string    `json:"jobTitle"`
	AverageDays    float64   `json:"averageDays"`
	HiredCount     int       `json:"hiredCount"`
	OldestHireDate time.Time `json:"oldestHireDate"`
	NewestHireDate time.Time `json:"newestHireDate"`
}

type StageDwell struct {
	StageID         string  `json:"stageId"`
	StageName       string  `json:"stageName"`
	StageOrder      int     `json:"stageOrder"`
	AverageDays     float64 `json:"averageDays"`
	TransitionCount int     `json:"transitionCount"`
	MinDays         float64 `json:"minDays"`
	MaxDays         float64 `json:"maxDays"`
}

// Aggregate computes the hiring-funnel report over the filtered population.
// Averages are always computed over the filtered subset, so a job-scoped or
// windowed call is a consistent subset of the unscoped call. Day counts stay
// float64 internally and are rounded only at the output boundary.
func Aggregate(input AggregateInput) Report {
	stageByID := make(map[string]PipelineStage, len(input.Stages))
	for _, stage := range input.Stages {
		stageByID[stage.ID] = stage
	}
	jobByID := make(map[string]Job, len(input.Jobs))
	for _, job := range input.Jobs {
		jobByID[job.ID] = job
	}

	population := filterPopulation(input)

	transitionsByApp := make(map[string][]StageTransition)
	for _, tr := range input.Transitions {
		transitionsByApp[tr.ApplicationID] = append(transitionsByApp[tr.ApplicationID], tr)
	}
	for _, trs := range transitionsByApp {
		sort.SliceStable(trs, func(i, j int) bool { return trs[i].ChangedAt.Before(trs[j].ChangedAt) })
	}

	hires := collectHires(population, transitionsByApp, stageByID, input.Window)

	report := Report{
		TotalApplications: len(population),
		TotalHires:        len(hires),
		ConversionRate:    conversionRate(len(hires), len(population)),
		TimeToFill:        timeToFill(hires, jobByID),
		TimeInStage:       timeInStage(population, transitionsByApp, input.Stages, stageByID, input.Window, input.Now),
	}
	return report
}

// filterPopulation applies the job filter, the window and the null-timestamp
// exclusion. Rows without AppliedAt cannot be a valid sample anywhere.
func filterPopulation(input AggregateInput) []Application {
	var population []Application
	for _, application := range input.Applications {
		if application.AppliedAt == nil {
			continue
		}
		if input.JobID != "" && application.JobID != input.JobID {
			continue
		}
		if !input.Window.Contains(*application.AppliedAt) {
			continue
		}
		population = append(population, application)
	}
	return population
}

type hire struct {
	application Application
	hiredAt     time.Time
	days        float64
}

// collectHires finds, per application, the first transition into a stage
// flagged as terminal-hire. Applications sitting in a terminal-hire stage
// without a matching history row fall back to StageChangedAt.
func collectHires(population []Application, transitionsByApp map[string][]StageTransition, stageByID map[string]PipelineStage, window Window) []hire {
	var hires []hire
	for _, application := range population {
		hiredAt, ok := hireTime(application, transitionsByApp[application.ID], stageByID)
		if !ok {
			continue
		}
		if !window.Contains(hiredAt) {
			continue
		}
		hires = append(hires, hire{
			application: application,
			hiredAt:     hiredAt,
			days:        hiredAt.Sub(*application.AppliedAt).Hours() / 24,
		})
	}
	return hires
}

func hireTime(application Application, transitions []StageTransition, stageByID map[string]PipelineStage) (time.Time, bool) {
	for _, tr := range transitions {
		stage, ok := stageByID[tr.ToStageID]
		if !ok {
			continue
		}
		if stage.IsTerminalHire {
			return tr.ChangedAt, true
		}
	}

	if application.CurrentStageID != nil && application.StageChangedAt != nil {
		if stage, ok := stageByID[*application.CurrentStageID]; ok && stage.IsTerminalHire {
			return *application.StageChangedAt, true
		}
	}
	return time.Time{}, false
}

func timeToFill(hires []hire, jobByID map[string]Job) TimeToFill {
	if len(hires) == 0 {
		return TimeToFill{OverallDays: nil, ByJob: []JobTimeToFill{}}
	}

	var totalDays float64
	perJob := make(map[string][]hire)
	var jobOrder []string
	for _, h := range hires {
		totalDays += h.days
		if _, seen := perJob[h.application.JobID]; !seen {
			jobOrder = append(jobOrder, h.application.JobID)
		}
		perJob[h.application.JobID] = append(perJob[h.application.JobID], h)
	}

	overall := roundDays(totalDays / float64(len(hires)))

	byJob := make([]JobTimeToFill, 0, len(jobOrder))
	for _, jobID := range jobOrder {
		jobHires := perJob[jobID]

		var jobDays float64
		oldest := jobHires[0].hiredAt
		newest := jobHires[0].hiredAt
		for _, h := range jobHires {
			jobDays += h.days
			if h.hiredAt.Before(oldest) {
				oldest = h.hiredAt
			}
			if h.hiredAt.After(newest) {
				newest = h.hiredAt
			}
		}

		byJob = append(byJob, JobTimeToFill{
			JobID:          jobID,
			JobTitle:       jobByID[jobID].Title,
			AverageDays:    roundDays(jobDays / float64(len(jobHires))),
			HiredCount:     len(jobHires),
			OldestHireDate: oldest,
			NewestHireDate: newest,
		})
	}

	return TimeToFill{OverallDays: &overall, ByJob: byJob}
}

// timeInStage pairs each transition into a stage with the next transition
// out of it. An application still sitting in a stage dwells until now, or
// until the window end when a window is given. Stages with no observed
// transitions are reported with zeros rather than hidden: an empty stage is
// itself diagnostic and filtering is the caller's call.
func timeInStage(population []Application, transitionsByApp map[string][]StageTransition, stages []PipelineStage, stageByID map[string]PipelineStage, window Window, now time.Time) []StageDwell {
	type dwellAccumulator struct {
		total float64
		count int
		min   float64
		max   float64
	}
	acc := make(map[string]*dwellAccumulator, len(stages))

	endOfScope := now
	if window.End != nil {
		endOfScope = *window.End
	}

	for _, application := range population {
		transitions := transitionsByApp[application.ID]
		for i, tr := range transitions {
			if _, ok := stageByID[tr.ToStageID]; !ok {
				// dangling stage reference, contributed by the caller's
				// data; skip without aborting the computation
				continue
			}

			entered := tr.ChangedAt
			if window.End != nil && !entered.Before(*window.End) {
				continue
			}

			exited := endOfScope
			if i+1 < len(transitions) {
				exited = transitions[i+1].ChangedAt
				if window.End != nil && exited.After(*window.End) {
					exited = *window.End
				}
			}

			days := exited.Sub(entered).Hours() / 24
			if days < 0 {
				days = 0
			}

			a, ok := acc[tr.ToStageID]
			if !ok {
				a = &dwellAccumulator{min: days, max: days}
				acc[tr.ToStageID] = a
			}
			a.total += days
			a.count++
			if days < a.min {
				a.min = days
			}
			if days > a.max {
				a.max = days
			}
		}
	}

	ordered := make([]PipelineStage, len(stages))
	copy(ordered, stages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	result := make([]StageDwell, 0, len(ordered))
	for _, stage := range ordered {
		dwell := StageDwell{
			StageID:    stage.ID,
			StageName:  stage.Name,
			StageOrder: stage.Order,
		}
		if a, ok := acc[stage.ID]; ok && a.count > 0 {
			dwell.AverageDays = roundDays(a.total / float64(a.count))
			dwell.TransitionCount = a.count
			dwell.MinDays = roundDays(a.min)
			dwell.MaxDays = roundDays(a.max)
		}
		result = append(result, dwell)
	}
	return result
}

// conversionRate formats hires/applications as a percentage with exactly two
// decimals, "0.00" for an empty population.
func conversionRate(hires, applications int) string {
	if applications == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(int64(hires)).
		Div(decimal.NewFromInt(int64(applications))).
		Mul(decimal.NewFromInt(100)).
		StringFixed(2)
}

func roundDays(days float64) float64 {
	return math.Round(days*10) / 10
}
