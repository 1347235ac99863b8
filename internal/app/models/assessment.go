package models

import "time"

// IndividualAssessment is an educator's evaluation of one student's
// achievement of one objective. There is no team-scoped variant of this
// entity; every instance is individual by construction.
//
// Extra carries fields that arrived on the wire but are not part of the
// schema. The integrity validator scans it for forbidden team-scoped keys, so
// legitimate schema evolution never touches the denylist logic.
type IndividualAssessment struct {
	ID                    string               `json:"id" db:"id"`
	StudentID             string               `json:"student_id" db:"student_id"`
	ProjectID             string               `json:"project_id" db:"project_id"`
	LearningObjectiveID   string               `json:"learning_objective_id" db:"learning_objective_id"`
	CompetencyAchievement *int                 `json:"competency_achievement,omitempty" db:"competency_achievement"`
	AssessmentScore       *float64             `json:"assessment_score,omitempty" db:"assessment_score"`
	EducatorFeedback      string               `json:"educator_feedback,omitempty" db:"educator_feedback"`
	AssessedBy            string               `json:"assessed_by,omitempty" db:"assessed_by"`
	AssessmentDate        time.Time            `json:"assessment_date" db:"assessment_date"`
	Status                AssessmentStatus     `json:"status" db:"status"`
	CompetencyFramework   *CompetencyFramework `json:"competency_framework,omitempty" db:"-"`

	Extra map[string]any `json:"-" db:"-"`
}

// OwnerIdentifiers returns the identity-bearing fields of the record.
func (a *IndividualAssessment) OwnerIdentifiers() []string {
	return []string{a.ID, a.StudentID}
}

// DeclaredOwner returns the identity this record claims to be authored by.
func (a *IndividualAssessment) DeclaredOwner() string {
	return a.StudentID
}

// RecordStatus exposes the assessment status for policy checks.
func (a *IndividualAssessment) RecordStatus() string {
	return string(a.Status)
}

// CompetencyFramework describes the individual-only competency structure an
// assessment is graded against. Team-scoped properties are structurally
// excluded; anything unrecognized lands in Extra and is scanned by the
// validator.
type CompetencyFramework struct {
	CompetencyAreas    []CompetencyArea     `json:"competency_areas,omitempty"`
	AssessmentCriteria []AssessmentCriteria `json:"assessment_criteria,omitempty"`

	Extra map[string]any `json:"-"`
}

// CompetencyArea is a named cluster of individual criteria.
type CompetencyArea struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	IndividualCriteria []string `json:"individual_criteria,omitempty"`

	Extra map[string]any `json:"-"`
}

// AssessmentCriteria is one weighted individual grading criterion.
type AssessmentCriteria struct {
	ID               string  `json:"id"`
	Description      string  `json:"description,omitempty"`
	IndividualWeight float64 `json:"individual_weight,omitempty"`

	Extra map[string]any `json:"-"`
}
