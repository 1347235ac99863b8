package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/app/services"
	"github.com/pblab/pblab/internal/middleware"
)

// ArtifactController handles evidence artifact operations
type ArtifactController struct {
	artifactService services.ArtifactService
}

// NewArtifactController creates a new ArtifactController
func NewArtifactController(artifactService services.ArtifactService) *ArtifactController {
	return &ArtifactController{
		artifactService: artifactService,
	}
}

// Create godoc
// @Summary Attach an evidence artifact
// @Description Attach an artifact to a learning objective. Send multipart/form-data with a file, or JSON with an external_url; exactly one locator is required.
// @Tags artifacts
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Objective ID"
// @Param file formData file false "Evidence file"
// @Success 201 {object} dto.APIResponse{data=dto.ArtifactResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /objectives/{id}/artifacts [post]
func (c *ArtifactController) Create(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	var req dto.CreateArtifactRequest
	file, _ := ctx.FormFile("file")
	if file != nil {
		req = dto.CreateArtifactRequest{
			Type:        models.ArtifactType(ctx.PostForm("type")),
			Title:       ctx.PostForm("title"),
			Description: ctx.PostForm("description"),
			ExternalURL: ctx.PostForm("external_url"),
		}
	} else if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.HandleValidationError(err),
		})
		return
	}

	resp, warnings, err := c.artifactService.Create(ctx, actor, ctx.Param("id"), &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(resp, "Evidence artifact created").WithWarnings(warnings))
}

// ListByObjective godoc
// @Summary List an objective's evidence artifacts
// @Tags artifacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Objective ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ArtifactResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /objectives/{id}/artifacts [get]
func (c *ArtifactController) ListByObjective(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	artifacts, err := c.artifactService.ListByObjective(ctx, actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(artifacts, ""))
}

// Delete godoc
// @Summary Delete an evidence artifact
// @Tags artifacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Artifact ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /artifacts/{id} [delete]
func (c *ArtifactController) Delete(ctx *gin.Context) {
	actor, ok := actorFromContext(ctx)
	if !ok {
		return
	}

	if err := c.artifactService.Delete(ctx, actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Evidence artifact deleted"))
}

// PortfolioCount godoc
// @Summary Report evidence portfolio progress
// @Description Count the student's evidence artifacts in a project against the portfolio target
// @Tags artifacts
// @Produce json
// @Security BearerAuth
// @Param projectId query string true "Project ID"
// @Param studentId query string false "Student ID (admins only)"
// @Success 200 {object} dto.APIResponse{data=dto.PortfolioCountResponse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /artifacts/portfolio-count [get]
func (c *ArtifactController) PortfolioCount(ctx *gin.Context) {
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

	count, err := c.artifactService.PortfolioCount(ctx, actor, studentScope(ctx, actor), projectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(count, ""))
}
