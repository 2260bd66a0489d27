package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Database struct {
	orm *gorm.DB
}

func NewDatabase(orm *gorm.DB) Database {
	return Database{orm: orm}
}

func (db Database) Initialize() error {
	err := db.orm.AutoMigrate(
		&Job{},
		&Application{},
		&PipelineStage{},
		&ApplicationStageHistory{},
		&JobAnalyticsCounter{},
	)
	if err != nil {
		return err
	}

	return db.seedDefaultStages()
}

// seedDefaultStages installs the out-of-the-box pipeline on an empty stage
// table. Recruiters edit it afterwards through the stages API.
func (db Database) seedDefaultStages() error {
	var count int64
	if err := db.orm.Model(&PipelineStage{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []PipelineStage{
		{Name: "Applied", StageOrder: 1, IsDefault: true},
		{Name: "Screening", StageOrder: 2},
		{Name: "Interview", StageOrder: 3},
		{Name: "Offer", StageOrder: 4},
		{Name: "Hired", StageOrder: 5, IsTerminalHireStage: true},
	}
	for i := range defaults {
		defaults[i].ID = uuid.New().String()
	}
	return db.orm.Create(&defaults).Error
}

func (db Database) CreateJob(job *Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	return db.orm.Model(&Job{}).Create(job).Error
}

func (db Database) GetJob(id string) (*Job, error) {
	var job Job
	err := db.orm.Model(&Job{}).Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ListJobs returns every job, or only the given recruiter's jobs when
// postedBy is non-empty.
func (db Database) ListJobs(postedBy string) ([]Job, error) {
	var jobs []Job
	tx := db.orm.Model(&Job{})
	if postedBy != "" {
		tx = tx.Where("posted_by = ?", postedBy)
	}
	err := tx.Order("created_at DESC").Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (db Database) ListActiveJobs(postedBy string) ([]Job, error) {
	var jobs []Job
	tx := db.orm.Model(&Job{}).Where("is_active = ?", true)
	if postedBy != "" {
		tx = tx.Where("posted_by = ?", postedBy)
	}
	err := tx.Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// ApproveJob flips the job to approved and active in one update, keeping
// the is_active/status invariant inside the database layer.
func (db Database) ApproveJob(id string) error {
	return db.orm.Model(&Job{}).Where("id = ?", id).Updates(map[string]any{
		"status":    types.JobStatusApproved,
		"is_active": true,
	}).Error
}

func (db Database) DeclineJob(id string) error {
	return db.orm.Model(&Job{}).Where("id = ?", id).Updates(map[string]any{
		"status":    types.JobStatusDeclined,
		"is_active": false,
	}).Error
}

func (db Database) DeactivateJob(id string, at time.Time) error {
	return db.orm.Model(&Job{}).Where("id = ?", id).Updates(map[string]any{
		"is_active":      false,
		"deactivated_at": at,
	}).Error
}

// DeactivateJobsCreatedBefore turns off every approved job posted before the
// cutoff. Returns how many rows were flipped.
func (db Database) DeactivateJobsCreatedBefore(cutoff time.Time, at time.Time) (int64, error) {
	tx := db.orm.Model(&Job{}).
		Where("is_active = ?", true).
		Where("status = ?", types.JobStatusApproved).
		Where("created_at < ?", cutoff).
		Updates(map[string]any{
			"is_active":      false,
			"deactivated_at": at,
		})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (db Database) DeleteJob(id string) error {
	return db.orm.Model(&Job{}).Where("id = ?", id).Delete(&Job{}).Error
}

func (db Database) CreateApplication(application *Application) error {
	if application.ID == "" {
		application.ID = uuid.New().String()
	}
	return db.orm.Model(&Application{}).Create(application).Error
}

func (db Database) GetApplication(id string) (*Application, error) {
	var application Application
	err := db.orm.Model(&Application{}).Where("id = ?", id).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

func (db Database) ListApplicationsByJob(jobID string) ([]Application, error) {
	var applications []Application
	err := db.orm.Model(&Application{}).Where("job_id = ?", jobID).
		Order("applied_at DESC").Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

// ListApplicationsForJobs loads the applications of the given jobs in one
// query. An empty id list yields an empty result, not the whole table.
func (db Database) ListApplicationsForJobs(jobIDs []string) ([]Application, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	var applications []Application
	err := db.orm.Model(&Application{}).Where("job_id IN ?", jobIDs).Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

// AppendStageHistory records a transition without touching the application
// row. Used for the initial placement into the default stage, which is not a
// recruiter action and must not bump stage_changed_at.
func (db Database) AppendStageHistory(history *ApplicationStageHistory) error {
	return db.orm.Model(&ApplicationStageHistory{}).Create(history).Error
}

// MoveApplicationStage updates the application's current stage and appends
// the transition to the history log in a single transaction.
func (db Database) MoveApplicationStage(applicationID, toStageID, changedBy string, at time.Time) error {
	return db.orm.Transaction(func(tx *gorm.DB) error {
		var application Application
		if err := tx.Where("id = ?", applicationID).First(&application).Error; err != nil {
			return err
		}

		history := ApplicationStageHistory{
			ApplicationID: applicationID,
			FromStageID:   application.CurrentStageID,
			ToStageID:     toStageID,
			ChangedAt:     at,
			ChangedBy:     changedBy,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		return tx.Model(&Application{}).Where("id = ?", applicationID).Updates(map[string]any{
			"current_stage_id": toStageID,
			"stage_changed_at": at,
		}).Error
	})
}

func (db Database) UpdateApplicationStatus(id string, status types.ApplicationStatus) error {
	return db.orm.Model(&Application{}).Where("id = ?", id).
		Update("status", status).Error
}

func (db Database) ListStages() ([]PipelineStage, error) {
	var stages []PipelineStage
	err := db.orm.Model(&PipelineStage{}).Order("stage_order ASC").Find(&stages).Error
	if err != nil {
		return nil, err
	}
	return stages, nil
}

func (db Database) GetStage(id string) (*PipelineStage, error) {
	var stage PipelineStage
	err := db.orm.Model(&PipelineStage{}).Where("id = ?", id).First(&stage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stage, nil
}

func (db Database) CreateStage(stage *PipelineStage) error {
	if stage.ID == "" {
		stage.ID = uuid.New().String()
	}
	return db.orm.Model(&PipelineStage{}).Create(stage).Error
}

func (db Database) UpdateStage(id string, name *string, stageOrder *int, isTerminalHireStage *bool) error {
	updates := map[string]any{}
	if name != nil {
		updates["name"] = *name
	}
	if stageOrder != nil {
		updates["stage_order"] = *stageOrder
	}
	if isTerminalHireStage != nil {
		updates["is_terminal_hire_stage"] = *isTerminalHireStage
	}
	if len(updates) == 0 {
		return nil
	}
	return db.orm.Model(&PipelineStage{}).Where("id = ?", id).Updates(updates).Error
}

// ListStageHistoryForJobs loads every transition row belonging to the given
// jobs' applications, oldest first so dwell-time pairing is a linear walk.
func (db Database) ListStageHistoryForJobs(jobIDs []string) ([]ApplicationStageHistory, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	var history []ApplicationStageHistory
	err := db.orm.Model(&ApplicationStageHistory{}).
		Where("application_id IN (?)", db.orm.Model(&Application{}).Select("id").Where("job_id IN ?", jobIDs)).
		Order("changed_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (db Database) IncrementJobViews(jobID string, at time.Time) error {
	counter := JobAnalyticsCounter{JobID: jobID, Views: 1, UpdatedAt: at}
	return db.orm.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"views":      gorm.Expr("job_analytics_counters.views + 1"),
			"updated_at": at,
		}),
	}).Create(&counter).Error
}

func (db Database) IncrementApplyClicks(jobID string, at time.Time) error {
	counter := JobAnalyticsCounter{JobID: jobID, ApplyClicks: 1, UpdatedAt: at}
	return db.orm.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"apply_clicks": gorm.Expr("job_analytics_counters.apply_clicks + 1"),
			"updated_at":   at,
		}),
	}).Create(&counter).Error
}

// RefreshConversionRate recomputes the job's views to applications percentage
// from the current counters and application count.
func (db Database) RefreshConversionRate(jobID string, at time.Time) error {
	var counter JobAnalyticsCounter
	err := db.orm.Model(&JobAnalyticsCounter{}).Where("job_id = ?", jobID).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("load counter: %w", err)
	}
	if counter.Views == 0 {
		return nil
	}

	var applications int64
	if err := db.orm.Model(&Application{}).Where("job_id = ?", jobID).Count(&applications).Error; err != nil {
		return fmt.Errorf("count applications: %w", err)
	}

	rate := float64(applications) / float64(counter.Views) * 100
	return db.orm.Model(&JobAnalyticsCounter{}).Where("job_id = ?", jobID).Updates(map[string]any{
		"conversion_rate": rate,
		"updated_at":      at,
	}).Error
}

func (db Database) GetAnalyticsCounter(jobID string) (*JobAnalyticsCounter, error) {
	var counter JobAnalyticsCounter
	err := db.orm.Model(&JobAnalyticsCounter{}).Where("job_id = ?", jobID).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &counter, nil
}

func (db Database) ListAnalyticsCounters(jobIDs []string) ([]JobAnalyticsCounter, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	var counters []JobAnalyticsCounter
	err := db.orm.Model(&JobAnalyticsCounter{}).Where("job_id IN ?", jobIDs).Find(&counters).Error
	if err != nil {
		return nil, err
	}
	return counters, nil
}
