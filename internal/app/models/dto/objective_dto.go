package dto

import (
	"time"

	"github.com/pblab/pblab/internal/app/models"
)

// CreateObjectiveRequest represents a new learning objective payload. The
// owning student is taken from the authenticated identity, never from the
// payload.
type CreateObjectiveRequest struct {
	ProjectID       string  `json:"project_id" binding:"required"`
	TeamID          *string `json:"team_id,omitempty"`
	Description     string  `json:"objective_description" binding:"required"`
	CompetencyLevel *int    `json:"competency_level,omitempty"`
}

// UpdateObjectiveRequest updates an objective's description or target level.
// Editing a completed objective moves it to revised.
type UpdateObjectiveRequest struct {
	Description     *string `json:"objective_description,omitempty"`
	CompetencyLevel *int    `json:"competency_level,omitempty"`
}

// UpdateObjectiveStatusRequest moves an objective through its lifecycle
type UpdateObjectiveStatusRequest struct {
	Status models.ObjectiveStatus `json:"progress_status" binding:"required"`
}

// ObjectiveResponse represents a learning objective in API responses
type ObjectiveResponse struct {
	ID              string                 `json:"id"`
	StudentID       string                 `json:"student_id"`
	ProjectID       string                 `json:"project_id"`
	TeamID          *string                `json:"team_id,omitempty"`
	Description     string                 `json:"objective_description"`
	CompetencyLevel *int                   `json:"competency_level,omitempty"`
	Status          models.ObjectiveStatus `json:"progress_status"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// NewObjectiveResponse converts a LearningObjective model to its response DTO
func NewObjectiveResponse(obj *models.LearningObjective) ObjectiveResponse {
	return ObjectiveResponse{
		ID:              obj.ID,
		StudentID:       obj.StudentID,
		ProjectID:       obj.ProjectID,
		TeamID:          obj.TeamID,
		Description:     obj.Description,
		CompetencyLevel: obj.CompetencyLevel,
		Status:          obj.Status,
		CreatedAt:       obj.CreatedAt,
		UpdatedAt:       obj.UpdatedAt,
	}
}

// ObjectiveProgressResponse pairs an objective with portfolio progress
type ObjectiveProgressResponse struct {
	Objective          ObjectiveResponse `json:"objective"`
	EvidenceCount      int               `json:"evidence_count"`
	EvidenceTarget     int               `json:"total_evidence_target"`
	ProgressPercentage int               `json:"progress_percentage"`
}

// MinimumObjectivesResponse reports the minimum-objectives check result
type MinimumObjectivesResponse struct {
	IsValid      bool     `json:"isValid"`
	CurrentCount int      `json:"currentCount"`
	Required     int      `json:"required"`
	Warnings     []string `json:"warnings,omitempty"`
}
