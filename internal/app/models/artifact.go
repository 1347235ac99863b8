package models

import "time"

// EvidenceArtifact is a piece of proof tied to exactly one objective and one
// student. Artifacts are immutable once created except for deletion by the
// owner. Exactly one of FilePath/ExternalURL locates the content.
type EvidenceArtifact struct {
	ID                  string       `json:"id" db:"id"`
	LearningObjectiveID string       `json:"learning_objective_id" db:"learning_objective_id"`
	StudentID           string       `json:"student_id" db:"student_id"`
	Type                ArtifactType `json:"type" db:"type"`
	Title               string       `json:"title" db:"title"`
	Description         string       `json:"description,omitempty" db:"description"`
	FilePath            string       `json:"file_path,omitempty" db:"file_path"`
	ExternalURL         string       `json:"external_url,omitempty" db:"external_url"`
	UploadDate          time.Time    `json:"upload_date" db:"upload_date"`
}

// OwnerIdentifiers returns the identity-bearing fields of the record.
func (a *EvidenceArtifact) OwnerIdentifiers() []string {
	return []string{a.ID, a.StudentID}
}

// DeclaredOwner returns the identity this record claims to be authored by.
func (a *EvidenceArtifact) DeclaredOwner() string {
	return a.StudentID
}

// PortfolioCount summarizes a student's evidence portfolio against its target.
type PortfolioCount struct {
	Current    int `json:"current"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}
