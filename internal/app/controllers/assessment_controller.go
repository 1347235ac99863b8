package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/app/services"
	"github.com/pblab/pblab/internal/middleware"
	"github.com/pblab/pblab/internal/pkg/helpers"
)

// AssessmentController handles individual assessment operations
type AssessmentController struct {
	assessmentService services.AssessmentService
}

// NewAssessmentController creates a new AssessmentController
func NewAssessmentController(assessmentService services.AssessmentService) *AssessmentController {
	return &AssessmentController{
		assessmentService: assessmentService,
	}
}

// Create godoc
// @Summary Submit an individual assessment
// @Description Submit an assessment for one of the student's own learning objectives. The full integrity check runs before anything persists; advisory warnings ride in the response.
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitAssessmentRequest true "Assessment payload"
// @Success 201 {object} dto.APIResponse{data=dto.AssessmentResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /assessments [post]
func (c *AssessmentController) Create(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.SubmitAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.HandleValidationError(err),
		})
		return
	}

	resp, warnings, err := c.assessmentService.Create(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Individual assessment submitted").WithWarnings(warnings))
}

// Get godoc
// @Summary Get an individual assessment
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assessment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssessmentResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /assessments/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	resp, err := c.assessmentService.Get(ctx, actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, ""))
}

// List godoc
// @Summary List a student's assessments for a project
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param projectId query string true "Project ID"
// @Param studentId query string false "Student ID (educators and admins)"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedList}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /assessments [get]
func (c *AssessmentController) List(ctx *gin.Context) {
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

	assessments, err := c.assessmentService.List(ctx, actor, studentScope(ctx, actor), projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	start, end := helpers.CalculateSliceIndices(page, size, len(assessments))

	result := dto.PaginatedList{
		Items:      assessments[start:end],
		Pagination: helpers.NewPaginationInfo(int64(len(assessments)), page, size),
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, ""))
}

// AttachFeedback godoc
// @Summary Attach educator feedback
// @Description Record score, achievement and feedback on a submitted assessment and complete the review. Educator role required.
// @Tags assessments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assessment ID"
// @Param request body dto.AttachFeedbackRequest true "Feedback payload"
// @Success 200 {object} dto.APIResponse{data=dto.AssessmentResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /assessments/{id}/feedback [post]
func (c *AssessmentController) AttachFeedback(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.AttachFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.HandleValidationError(err),
		})
		return
	}

	resp, err := c.assessmentService.AttachFeedback(ctx, actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Feedback attached"))
}

// Delete godoc
// @Summary Delete an individual assessment
// @Description Remove an assessment. Students can never delete an assessment that has been submitted or completed.
// @Tags assessments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assessment ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /assessments/{id} [delete]
func (c *AssessmentController) Delete(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	if err := c.assessmentService.Delete(ctx, actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Assessment deleted"))
}
