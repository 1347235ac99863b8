package dto

import (
	"time"

	"github.com/pblab/pblab/internal/app/models"
)

// CreateArtifactRequest represents a new evidence artifact payload. Exactly
// one content locator must be provided: either an external URL in the JSON
// body or an uploaded file on the multipart form.
type CreateArtifactRequest struct {
	Type        models.ArtifactType `json:"type" form:"type" binding:"required"`
	Title       string              `json:"title" form:"title" binding:"required"`
	Description string              `json:"description,omitempty" form:"description"`
	ExternalURL string              `json:"external_url,omitempty" form:"external_url"`
}

// ArtifactResponse represents an evidence artifact in API responses
type ArtifactResponse struct {
	ID                  string              `json:"id"`
	LearningObjectiveID string              `json:"learning_objective_id"`
	StudentID           string              `json:"student_id"`
	Type                models.ArtifactType `json:"type"`
	Title               string              `json:"title"`
	Description         string              `json:"description,omitempty"`
	FilePath            string              `json:"file_path,omitempty"`
	ExternalURL         string              `json:"external_url,omitempty"`
	UploadDate          time.Time           `json:"upload_date"`
}

// NewArtifactResponse converts an EvidenceArtifact model to its response DTO
func NewArtifactResponse(a *models.EvidenceArtifact) ArtifactResponse {
	return ArtifactResponse{
		ID:                  a.ID,
		LearningObjectiveID: a.LearningObjectiveID,
		StudentID:           a.StudentID,
		Type:                a.Type,
		Title:               a.Title,
		Description:         a.Description,
		FilePath:            a.FilePath,
		ExternalURL:         a.ExternalURL,
		UploadDate:          a.UploadDate,
	}
}

// PortfolioCountResponse summarizes evidence portfolio progress
type PortfolioCountResponse struct {
	Current    int `json:"current"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}
