package recruiting

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hireflow-io/hireflow-engine/pkg/internal/httpserver"
	"github.com/hireflow-io/hireflow-engine/pkg/recruiting/api"
	"github.com/hireflow-io/hireflow-engine/pkg/recruiting/db"
	"github.com/hireflow-io/hireflow-engine/pkg/types"
	"github.com/hireflow-io/hireflow-engine/pkg/utils"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *HttpHandler) Register(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	jobs := v1.Group("/jobs")
	jobs.POST("", h.CreateJob)
	jobs.GET("", h.ListJobs)
	jobs.GET("/:jobId", h.GetJob)
	jobs.POST("/:jobId/approve", h.ApproveJob)
	jobs.POST("/:jobId/decline", h.DeclineJob)
	jobs.POST("/:jobId/deactivate", h.DeactivateJob)
	jobs.DELETE("/:jobId", h.DeleteJob)

	jobs.POST("/:jobId/applications", h.CreateApplication)
	jobs.GET("/:jobId/applications", h.ListApplications)

	jobs.POST("/:jobId/track/view", h.TrackView)
	jobs.POST("/:jobId/track/apply-click", h.TrackApplyClick)
	jobs.GET("/:jobId/analytics", h.GetJobAnalytics)

	applications := v1.Group("/applications")
	applications.POST("/:applicationId/stage", h.MoveApplicationStage)
	applications.POST("/:applicationId/status", h.UpdateApplicationStatus)

	stages := v1.Group("/pipeline-stages")
	stages.GET("", h.ListStages)
	stages.POST("", h.CreateStage)
	stages.PUT("/:stageId", h.UpdateStage)
}

func bindValidate(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		return err
	}

	if err := ctx.Validate(i); err != nil {
		return err
	}

	return nil
}

// CreateJob godoc
//
//	@Summary		Create job posting
//	@Description	creates a job posting in pending status
//	@Tags			recruiting
//	@Accept			json
//	@Produce		json
//	@Param			request	body		api.CreateJobRequest	true	"Request"
//	@Success		200		{object}	api.Job
//	@Router			/recruiting/api/v1/jobs [post]
func (h *HttpHandler) CreateJob(ctx echo.Context) error {
	var req api.CreateJobRequest
	if err := bindValidate(ctx, &req); err != nil {
		return err
	}

	job := db.Job{
		Title:       req.Title,
		Department:  req.Department,
		Location:    req.Location,
		Tags:        req.Tags,
		Description: req.Description,
		Status:      types.JobStatusPending,
		IsActive:    false,
		PostedBy:    httpserver.GetRecruiterScope(ctx),
	}
	if err := h.db.CreateJob(&job); err != nil {
		h.logger.Error("create job", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create job")
	}

	return ctx.JSON(http.StatusOK, jobToAPI(job))
}

// ListJobs godoc
//
//	@Summary		List job postings
//	@Description	returns the caller's job postings, every posting for internal callers
//	@Tags			recruiting
//	@Produce		json
//	@Param			tag	query		[]string	false	"only jobs carrying one of these tags"
//	@Success		200	{object}	[]api.Job
//	@Router			/recruiting/api/v1/jobs [get]
func (h *HttpHandler) ListJobs(ctx echo.Context) error {
	jobs, err := h.db.ListJobs(httpserver.GetRecruiterScope(ctx))
	if err != nil {
		h.logger.Error("list jobs", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list jobs")
	}

	tags := httpserver.QueryArrayParam(ctx, "tag")

	response := make([]api.Job, 0, len(jobs))
	for _, job := range jobs {
		if len(tags) > 0 && !hasAnyTag(job.Tags, tags) {
			continue
		}
		response = append(response, jobToAPI(job))
	}
	return ctx.JSON(http.StatusOK, response)
}

func hasAnyTag(jobTags []string, wanted []string) bool {
	for _, tag := range wanted {
		if utils.Includes(jobTags, tag) {
			return true
		}
	}
	return false
}

func (h *HttpHandler) GetJob(ctx echo.Context) error {
	job, err := h.db.GetJob(ctx.Param("jobId"))
	if err != nil {
		h.logger.Error("get job", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get job")
	}
	if job == nil {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	return ctx.JSON(http.StatusOK, jobToAPI(*job))
}

// ApproveJob godoc
//
//	@Summary		Approve job posting
//	@Description	approves a pending job and activates it
//	@Tags			recruiting
//	@Produce		json
//	@Param			jobId	path	string	true	"Job ID"
//	@Success		200
//	@Router			/recruiting/api/v1/jobs/{jobId}/approve [post]
func (h *HttpHandler) ApproveJob(ctx echo.Context) error {
	jobID := ctx.Param("jobId")
	job, err := h.db.GetJob(jobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get job")
	}
	if job == nil {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}

	if err := h.db.ApproveJob(jobID); err != nil {
		h.logger.Error("approve job", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to approve job")
	}
	return ctx.NoContent(http.StatusOK)
}

func (h *HttpHandler) DeclineJob(ctx echo.Context) error {
	jobID := ctx.Param("jobId")
	job, err := h.db.GetJob(jobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get job")
	}
	if job == nil {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}

	if err := h.db.DeclineJob(jobID); err != nil {
		h.logger.Error("decline job", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to decline job")
	}
	return ctx.NoContent(http.StatusOK)
}

func (h *HttpHandler) DeactivateJob(ctx echo.Context) error {
	jobID := ctx.Param("jobId")
	job, err := h.db.GetJob(jobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get job")
	}
	if job == nil {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}

	if err := h.db.DeactivateJob(jobID, time.Now()); err != nil {
		h.logger.Error("deactivate job", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to deactivate job")
	}
	return ctx.NoContent(http.StatusOK)
}

func (h *HttpHandler) DeleteJob(ctx echo.Context) error {
	if err := h.db.DeleteJob(ctx.Param("jobId")); err != nil {
		h.logger.Error("delete job", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete job")
	}
	return ctx.NoContent(http.StatusOK)
}

// CreateApplication godoc
//
//	@Summary		Submit application
//	@Description	creates a candidate application on an active job and places it in the default stage
//	@Tags			recruiting
//	@Accept			json
//	@Produce		json
//	@Param			jobId	path		string							true	"Job ID"
//	@Param			request	body		api.CreateApplicationRequest	true	"Request"
//	@Success		200		{object}	api.Application
//	@Router			/recruiting/api/v1/jobs/{jobId}/applications [post]
func (h *HttpHandler) CreateApplication(ctx echo.Context) error {
	jobID := ctx.Param("jobId")

	var req api.CreateApplicationRequest
	if err := bindValidate(ctx, &req); err != nil {
		return err
	}

	job, err := h.db.GetJob(jobID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get job")
	}
	if job == nil {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	if !job.IsActive {
		return echo.NewHTTPError(http.StatusBadRequest, "job is not accepting applications")
	}

	stages, err := h.db.ListStages()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list stages")
	}
	var defaultStageID *string
	for _, stage := range stages {
		if stage.IsDefault {
			id := stage.ID
			defaultStageID = &id
			break
		}
	}

	now := time.Now()
	application := db.Application{
		JobID:          jobID,
		CandidateName:  req.CandidateName,
		CandidateEmail: req.CandidateEmail,
		Status:         types.ApplicationStatusSubmitted,
		AppliedAt:      now,
		CurrentStageID: defaultStageID,
		Notes:          req.Notes,
	}
	if err := h.db.CreateApplication(&application); err != nil {
		h.logger.Error("create application", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create application")
	}

	if defaultStageID != nil {
		err = h.db.AppendStageHistory(&db.ApplicationStageHistory{
			ApplicationID: application.ID,
			FromStageID:   nil,
			ToStageID:     *defaultStageID,
			ChangedAt:     now,
		})
		if err != nil {
			h.logger.Error("append initial placement", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to place application")
		}
	}

	if err := h.db.RefreshConversionRate(jobID, now); err != nil {
		h.logger.Warn("refresh conversion rate", zap.String("jobId", jobID), zap.Error(err))
	}

	return ctx.JSON(http.StatusOK, applicationToAPI(application))
}

func (h *HttpHandler) ListApplications(ctx echo.Context) error {
	applications, err := h.db.ListApplicationsByJob(ctx.Param("jobId"))
	if err != nil {
		h.logger.Error("list applications", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list applications")
	}

	if pageStr := ctx.QueryParam("pageNumber"); pageStr != "" {
		page, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid pageNumber")
		}
		size := int64(20)
		if sizeStr := ctx.QueryParam("pageSize"); sizeStr != "" {
			size, err = strconv.ParseInt(sizeStr, 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid pageSize")
			}
		}
		applications = utils.Paginate(page, size, applications)
	}

	response := make([]api.Application, 0, len(applications))
	for _, application := range applications {
		response = append(response, applicationToAPI(application))
	}
	return ctx.JSON(http.StatusOK, response)
}

// MoveApplicationStage godoc
//
//	@Summary		Move application stage
//	@Description	moves an application to another pipeline stage and records the transition
//	@Tags			recruiting
//	@Accept			json
//	@Param			applicationId	path	string					true	"Application ID"
//	@Param			request			body	api.MoveStageRequest	true	"Request"
//	@Success		200
//	@Router			/recruiting/api/v1/applications/{applicationId}/stage [post]
func (h *HttpHandler) MoveApplicationStage(ctx echo.Context) error {
	applicationID := ctx.Param("applicationId")

	var req api.MoveStageRequest
	if err := bindValidate(ctx, &req); err != nil {
		return err
	}

	application, err := h.db.GetApplication(applicationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get application")
	}
	if application == nil {
		return echo.NewHTTPError(http.StatusNotFound, "application not found")
	}

	stage, err := h.db.GetStage(req.StageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get stage")
	}
	if stage == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown stage")
	}

	err = h.db.MoveApplicationStage(applicationID, req.StageID, httpserver.GetUserID(ctx), time.Now())
	if err != nil {
		h.logger.Error("move application stage", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to move application")
	}
	return ctx.NoContent(http.StatusOK)
}

func (h *HttpHandler) UpdateApplicationStatus(ctx echo.Context) error {
	applicationID := ctx.Param("applicationId")

	var req api.UpdateApplicationStatusRequest
	if err := bindValidate(ctx, &req); err != nil {
		return err
	}
	if !req.Status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application status")
	}

	application, err := h.db.GetApplication(applicationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get application")
	}
	if application == nil {
		return echo.NewHTTPError(http.StatusNotFound, "application not found")
	}

	if err := h.db.UpdateApplicationStatus(applicationID, req.Status); err != nil {
		h.logger.Error("update application status", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update application")
	}
	return ctx.NoContent(http.StatusOK)
}

// ListStages godoc
//
//	@Summary		List pipeline stages
//	@Description	returns the pipeline stages ordered by stage order
//	@Tags			recruiting
//	@Produce		json
//	@Success		200	{object}	[]api.PipelineStage
//	@Router			/recruiting/api/v1/pipeline-stages [get]
func (h *HttpHandler) ListStages(ctx echo.Context) error {
	stages, err := h.db.ListStages()
	if err != nil {
		h.logger.Error("list stages", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list stages")
	}

	response := make([]api.PipelineStage, 0, len(stages))
	for _, stage := range stages {
		response = append(response, stageToAPI(stage))
	}
	return ctx.JSON(http.StatusOK, response)
}

func (h *HttpHandler) CreateStage(ctx echo.Context) error {
	var req api.CreateStageRequest
	if err := bindValidate(ctx, &req); err != nil {
		return err
	}

	stage := db.PipelineStage{
		Name:                req.Name,
		StageOrder:          req.StageOrder,
		IsTerminalHireStage: req.IsTerminalHireStage,
	}
	if err := h.db.CreateStage(&stage); err != nil {
		h.logger.Error("create stage", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create stage")
	}
	return ctx.JSON(http.StatusOK, stageToAPI(stage))
}

func (h *HttpHandler) UpdateStage(ctx echo.Context) error {
	stageID := ctx.Param("stageId")

	var req api.UpdateStageRequest
	if err := bindValidate(ctx, &req); err != nil {
		return err
	}

	stage, err := h.db.GetStage(stageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get stage")
	}
	if stage == nil {
		return echo.NewHTTPError(http.StatusNotFound, "stage not found")
	}

	err = h.db.UpdateStage(stageID, req.Name, req.StageOrder, req.IsTerminalHireStage)
	if err != nil {
		h.logger.Error("update stage", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update stage")
	}
	return ctx.NoContent(http.StatusOK)
}

// TrackView godoc
//
//	@Summary		Track job view
//	@Description	increments the job's view counter
//	@Tags			recruiting
//	@Param			jobId	path	string	true	"Job ID"
//	@Success		200
//	@Router			/recruiting/api/v1/jobs/{jobId}/track/view [post]
func (h *HttpHandler) TrackView(ctx echo.Context) error {
	jobID := ctx.Param("jobId")
	now := time.Now()

	if err := h.db.IncrementJobViews(jobID, now); err != nil {
		h.logger.Error("increment views", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to track view")
	}
	if err := h.db.RefreshConversionRate(jobID, now); err != nil {
		h.logger.Warn("refresh conversion rate", zap.String("jobId", jobID), zap.Error(err))
	}
	return ctx.NoContent(http.StatusOK)
}

// GetJobAnalytics godoc
//
//	@Summary		Job analytics counters
//	@Description	returns the job's view/click counters and conversion rate
//	@Tags			recruiting
//	@Produce		json
//	@Param			jobId	path		string	true	"Job ID"
//	@Success		200		{object}	api.JobAnalyticsCounter
//	@Router			/recruiting/api/v1/jobs/{jobId}/analytics [get]
func (h *HttpHandler) GetJobAnalytics(ctx echo.Context) error {
	jobID := ctx.Param("jobId")

	counter, err := h.db.GetAnalyticsCounter(jobID)
	if err != nil {
		h.logger.Error("get analytics counter", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get analytics")
	}

	response := api.JobAnalyticsCounter{JobID: jobID}
	if counter != nil {
		response.Views = counter.Views
		response.ApplyClicks = counter.ApplyClicks
		response.ConversionRate = counter.ConversionRate
	}
	return ctx.JSON(http.StatusOK, response)
}

func (h *HttpHandler) TrackApplyClick(ctx echo.Context) error {
	if err := h.db.IncrementApplyClicks(ctx.Param("jobId"), time.Now()); err != nil {
		h.logger.Error("increment apply clicks", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to track apply click")
	}
	return ctx.NoContent(http.StatusOK)
}

func jobToAPI(job db.Job) api.Job {
	return api.Job{
		ID:            job.ID,
		Title:         job.Title,
		Department:    job.Department,
		Location:      job.Location,
		Tags:          job.Tags,
		Description:   job.Description,
		IsActive:      job.IsActive,
		Status:        job.Status,
		PostedBy:      job.PostedBy,
		CreatedAt:     job.CreatedAt,
		DeactivatedAt: job.DeactivatedAt,
	}
}

func applicationToAPI(application db.Application) api.Application {
	return api.Application{
		ID:             application.ID,
		JobID:          application.JobID,
		CandidateName:  application.CandidateName,
		CandidateEmail: application.CandidateEmail,
		Status:         application.Status,
		AppliedAt:      application.AppliedAt,
		CurrentStageID: application.CurrentStageID,
		StageChangedAt: application.StageChangedAt,
		Notes:          application.Notes,
	}
}

func stageToAPI(stage db.PipelineStage) api.PipelineStage {
	return api.PipelineStage{
		ID:                  stage.ID,
		Name:                stage.Name,
		StageOrder:          stage.StageOrder,
		IsDefault:           stage.IsDefault,
		IsTerminalHireStage: stage.IsTerminalHireStage,
	}
}
