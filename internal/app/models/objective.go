package models

import "time"

// LearningObjective represents one student's personal goal within one project.
// StudentID is mandatory and immutable after creation; TeamID is informational
// only and never grants access.
type LearningObjective struct {
	ID              string          `json:"id" db:"id"`
	StudentID       string          `json:"student_id" db:"student_id"`
	ProjectID       string          `json:"project_id" db:"project_id"`
	TeamID          *string         `json:"team_id,omitempty" db:"team_id"`
	Description     string          `json:"objective_description" db:"objective_description"`
	CompetencyLevel *int            `json:"competency_level,omitempty" db:"competency_level"`
	Status          ObjectiveStatus `json:"progress_status" db:"progress_status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// OwnerIdentifiers returns the identity-bearing fields of the record,
// used by the access policy evaluator for ownership checks.
func (o *LearningObjective) OwnerIdentifiers() []string {
	return []string{o.ID, o.StudentID}
}

// DeclaredOwner returns the identity this record claims to be authored by.
func (o *LearningObjective) DeclaredOwner() string {
	return o.StudentID
}

// ObjectiveProgress pairs an objective with its evidence portfolio progress.
type ObjectiveProgress struct {
	Objective          LearningObjective `json:"objective"`
	EvidenceCount      int               `json:"evidence_count"`
	EvidenceTarget     int               `json:"total_evidence_target"`
	ProgressPercentage int               `json:"progress_percentage"`
}
