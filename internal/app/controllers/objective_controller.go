package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/app/services"
	"github.com/pblab/pblab/internal/middleware"
)

// ObjectiveController handles individual learning objective operations
type ObjectiveController struct {
	objectiveService services.ObjectiveService
}

// NewObjectiveController creates a new ObjectiveController
func NewObjectiveController(objectiveService services.ObjectiveService) *ObjectiveController {
	return &ObjectiveController{
		objectiveService: objectiveService,
	}
}

// studentScope resolves the student whose records a collection read targets.
// Students default to themselves; admins may name any student via query.
func studentScope(ctx *gin.Context, actor services.Actor) string {
	if studentID := ctx.Query("studentId"); studentID != "" {
		return studentID
	}
	return actor.ID
}

// Create godoc
// @Summary Declare a learning objective
// @Description Create an individual learning objective owned by the authenticated student
// @Tags objectives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateObjectiveRequest true "Objective payload"
// @Success 201 {object} dto.APIResponse{data=dto.ObjectiveResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /objectives [post]
func (c *ObjectiveController) Create(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.CreateObjectiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.HandleValidationError(err),
		})
		return
	}

	resp, warnings, err := c.objectiveService.Create(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Learning objective created").WithWarnings(warnings))
}

// List godoc
// @Summary List learning objectives
// @Description List the student's objectives for a project
// @Tags objectives
// @Produce json
// @Security BearerAuth
// @Param projectId query string true "Project ID"
// @Param studentId query string false "Student ID (admins only)"
// @Param withProgress query bool false "Include evidence portfolio progress"
// @Success 200 {object} dto.APIResponse{data=[]dto.ObjectiveResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /objectives [get]
func (c *ObjectiveController) List(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	projectID := ctx.Query("projectId")
	if projectID == "" {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "projectId query parameter is required"),
		})
		return
	}
	studentID := studentScope(ctx, actor)

	if ctx.Query("withProgress") == "true" {
		progress, err := c.objectiveService.ListWithProgress(ctx, actor, studentID, projectID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(progress, ""))
		return
	}

	objectives, err := c.objectiveService.List(ctx, actor, studentID, projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(objectives, ""))
}

// Update godoc
// @Summary Update a learning objective
// @Description Edit an objective's description or competency level; editing a completed objective moves it to revised
// @Tags objectives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Objective ID"
// @Param request body dto.UpdateObjectiveRequest true "Update payload"
// @Success 200 {object} dto.APIResponse{data=dto.ObjectiveResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /objectives/{id} [patch]
func (c *ObjectiveController) Update(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.UpdateObjectiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.HandleValidationError(err),
		})
		return
	}

	resp, err := c.objectiveService.Update(ctx, actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Learning objective updated"))
}

// UpdateStatus godoc
// @Summary Move an objective through its lifecycle
// @Tags objectives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Objective ID"
// @Param request body dto.UpdateObjectiveStatusRequest true "Status payload"
// @Success 200 {object} dto.APIResponse{data=dto.ObjectiveResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /objectives/{id}/status [patch]
func (c *ObjectiveController) UpdateStatus(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.UpdateObjectiveStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.HandleValidationError(err),
		})
		return
	}

	resp, err := c.objectiveService.UpdateStatus(ctx, actor, ctx.Param("id"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Objective status updated"))
}

// Delete godoc
// @Summary Delete a learning objective
// @Tags objectives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Objective ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /objectives/{id} [delete]
func (c *ObjectiveController) Delete(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	if err := c.objectiveService.Delete(ctx, actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Learning objective deleted"))
}

// CheckMinimum godoc
// @Summary Check the minimum-objectives requirement
// @Description Run the minimum-objectives check over the student's persisted objectives for a project
// @Tags objectives
// @Produce json
// @Security BearerAuth
// @Param projectId query string true "Project ID"
// @Param studentId query string false "Student ID (admins only)"
// @Success 200 {object} dto.APIResponse{data=dto.MinimumObjectivesResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /objectives/minimum-check [get]
func (c *ObjectiveController) CheckMinimum(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	projectID := ctx.Query("projectId")
	if projectID == "" {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "projectId query parameter is required"),
		})
		return
	}

	check, err := c.objectiveService.CheckMinimum(ctx, actor, studentScope(ctx, actor), projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(check, "").WithWarnings(check.Warnings))
}
