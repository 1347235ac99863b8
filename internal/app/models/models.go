package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent  RoleType = "student"
	RoleEducator RoleType = "educator"
	RoleAdmin    RoleType = "admin"
)

// ObjectiveStatus represents the lifecycle status of a learning objective
type ObjectiveStatus string

const (
	ObjectiveDraft     ObjectiveStatus = "draft"
	ObjectiveActive    ObjectiveStatus = "active"
	ObjectiveCompleted ObjectiveStatus = "completed"
	ObjectiveRevised   ObjectiveStatus = "revised"
)

// AssessmentStatus represents the review status of an individual assessment
type AssessmentStatus string

const (
	AssessmentSubmitted   AssessmentStatus = "submitted"
	AssessmentUnderReview AssessmentStatus = "under_review"
	AssessmentCompleted   AssessmentStatus = "completed"
)

// ArtifactType represents the content type of an evidence artifact
type ArtifactType string

const (
	ArtifactDocument     ArtifactType = "document"
	ArtifactPresentation ArtifactType = "presentation"
	ArtifactCode         ArtifactType = "code"
	ArtifactReflection   ArtifactType = "reflection"
	ArtifactVideo        ArtifactType = "video"
	ArtifactImage        ArtifactType = "image"
	ArtifactLink         ArtifactType = "link"
)

// ValidArtifactType reports whether t is one of the supported content types.
func ValidArtifactType(t ArtifactType) bool {
	switch t {
	case ArtifactDocument, ArtifactPresentation, ArtifactCode,
		ArtifactReflection, ArtifactVideo, ArtifactImage, ArtifactLink:
		return true
	}
	return false
}
