package integrity

import (
	"fmt"
	"strings"

	"github.com/pblab/pblab/internal/app/models"
)

// Bounds and minimums enforced by the validator.
const (
	MinCompetencyLevel = 1
	MaxCompetencyLevel = 5
	MinScore           = 0.0
	MaxScore           = 100.0
	MinObjectives      = 3
)

// Operation names a CRUD operation for permission checks.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Validator is the individual assessment integrity engine. It is pure and
// stateless: each call takes a snapshot of candidate data and returns a
// Result with no retained state between calls, so concurrent invocations are
// independent.
type Validator struct {
	deny          Denylists
	minObjectives int
}

// NewValidator returns a validator using the default denylists.
func NewValidator() *Validator {
	return &Validator{
		deny:          DefaultDenylists(),
		minObjectives: MinObjectives,
	}
}

// NewValidatorWithDenylists returns a validator with custom denylists.
func NewValidatorWithDenylists(deny Denylists) *Validator {
	return &Validator{
		deny:          deny,
		minObjectives: MinObjectives,
	}
}

// ValidateObjective checks that a learning objective is individual-only:
// it must carry a student id and a description, a competency level within
// bounds when present, and no team-grading language.
func (v *Validator) ValidateObjective(obj *models.LearningObjective) *Result {
	res := NewResult()

	if obj.StudentID == "" {
		res.AddError("learning objective must have a student_id (individual assessment required)")
	}

	if strings.TrimSpace(obj.Description) == "" {
		res.AddError("learning objective must have a description")
	}

	if obj.CompetencyLevel != nil && (*obj.CompetencyLevel < MinCompetencyLevel || *obj.CompetencyLevel > MaxCompetencyLevel) {
		res.AddError(fmt.Sprintf("competency level must be between %d and %d", MinCompetencyLevel, MaxCompetencyLevel))
	}

	description := strings.ToLower(obj.Description)
	for _, phrase := range v.deny.ObjectivePhrases {
		if strings.Contains(description, phrase) {
			res.AddError(fmt.Sprintf("learning objective description contains team-based language: %q; individual assessment only", phrase))
		}
	}

	return res
}

// PreventTeamGrading rejects any form of team grading on an assessment
// candidate. The forbidden-field scan runs over the candidate's unknown-field
// bag and recursively over its competency framework.
func (v *Validator) PreventTeamGrading(a *models.IndividualAssessment) *Result {
	res := NewResult()

	for _, field := range v.deny.AssessmentFields {
		if _, present := a.Extra[field]; present {
			res.AddError(fmt.Sprintf("forbidden team-based field %q detected; individual-only grading required", field))
		}
	}

	if a.CompetencyFramework != nil {
		v.checkFramework(a.CompetencyFramework, res)
	}

	if a.StudentID == "" {
		res.AddError("assessment must have student_id for individual assessment")
	}

	if a.LearningObjectiveID == "" {
		res.AddError("assessment must be linked to an individual learning objective")
	}

	if a.CompetencyAchievement != nil && (*a.CompetencyAchievement < MinCompetencyLevel || *a.CompetencyAchievement > MaxCompetencyLevel) {
		res.AddError(fmt.Sprintf("competency achievement must be between %d and %d", MinCompetencyLevel, MaxCompetencyLevel))
	}

	if a.AssessmentScore != nil && (*a.AssessmentScore < MinScore || *a.AssessmentScore > MaxScore) {
		res.AddError(fmt.Sprintf("assessment score must be between %.0f and %.0f", MinScore, MaxScore))
	}

	return res
}

// checkFramework scans a competency framework for team-scoped sub-fields at
// the framework level and within each competency area and criteria entry.
func (v *Validator) checkFramework(fw *models.CompetencyFramework, res *Result) {
	for _, field := range v.deny.FrameworkFields {
		if _, present := fw.Extra[field]; present {
			res.AddError(fmt.Sprintf("forbidden team-based competency framework field %q detected", field))
		}
	}

	for i, area := range fw.CompetencyAreas {
		if hasAnyKey(area.Extra, "team_criteria", "group_criteria") {
			res.AddError(fmt.Sprintf("team-based criteria found in competency area %d", i))
		}
	}

	for i, criteria := range fw.AssessmentCriteria {
		if hasAnyKey(criteria.Extra, "team_weight", "group_weight") {
			res.AddError(fmt.Sprintf("team-based weight found in assessment criteria %d", i))
		}
	}
}

func hasAnyKey(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, present := m[k]; present {
			return true
		}
	}
	return false
}

// ValidateEvidencePortfolio checks each artifact of an evidence portfolio.
// An empty portfolio is valid with an advisory warning. Team-work language in
// titles or descriptions is a warning, never an error. Index labels in
// messages are 1-based for traceability.
func (v *Validator) ValidateEvidencePortfolio(artifacts []models.EvidenceArtifact) *Result {
	res := NewResult()

	if len(artifacts) == 0 {
		res.AddWarning("no evidence artifacts found; portfolio development encouraged")
		return res
	}

	for i, artifact := range artifacts {
		n := i + 1

		if artifact.LearningObjectiveID == "" {
			res.AddError(fmt.Sprintf("evidence artifact %d must be linked to an individual learning objective", n))
		}

		if artifact.StudentID == "" {
			res.AddError(fmt.Sprintf("evidence artifact %d must have student_id for individual assessment", n))
		}

		if artifact.FilePath == "" && artifact.ExternalURL == "" {
			res.AddError(fmt.Sprintf("evidence artifact %d must have either file_path or external_url", n))
		} else if artifact.FilePath != "" && artifact.ExternalURL != "" {
			res.AddError(fmt.Sprintf("evidence artifact %d must have exactly one of file_path or external_url", n))
		}

		if strings.TrimSpace(artifact.Title) == "" {
			res.AddError(fmt.Sprintf("evidence artifact %d must have a title", n))
		}

		title := strings.ToLower(artifact.Title)
		description := strings.ToLower(artifact.Description)
		for _, phrase := range v.deny.ArtifactPhrases {
			if strings.Contains(title, phrase) || strings.Contains(description, phrase) {
				res.AddWarning(fmt.Sprintf("evidence artifact %q may contain team-based work; ensure individual contribution is clearly identified", artifact.Title))
			}
		}
	}

	return res
}

// CheckMinimumObjectives enforces the per-student, per-project minimum of
// three objectives, warns on duplicate descriptions (case-insensitive,
// trimmed) and on low average competency targets.
func (v *Validator) CheckMinimumObjectives(objectives []models.LearningObjective) *Result {
	res := NewResult()

	if len(objectives) < v.minObjectives {
		res.AddError(fmt.Sprintf("minimum %d individual learning objectives required, currently have %d", v.minObjectives, len(objectives)))
	}

	seen := make(map[string]bool, len(objectives))
	duplicate := false
	for _, obj := range objectives {
		desc := strings.ToLower(strings.TrimSpace(obj.Description))
		if seen[desc] {
			duplicate = true
		}
		seen[desc] = true
	}
	if duplicate {
		res.AddWarning("duplicate learning objectives detected; consider consolidating similar objectives")
	}

	var sum, count int
	for _, obj := range objectives {
		if obj.CompetencyLevel != nil {
			sum += *obj.CompetencyLevel
			count++
		}
	}
	if count > 0 && float64(sum)/float64(count) < 2 {
		res.AddWarning("consider setting higher competency level targets for learning objectives")
	}

	return res
}

// ValidateAssessmentIntegrity is the comprehensive check run before an
// assessment is persisted. It aggregates the team-grading, objective and
// portfolio checks, then cross-checks referential consistency between the
// assessment, its objective and every artifact.
func (v *Validator) ValidateAssessmentIntegrity(a *models.IndividualAssessment, obj *models.LearningObjective, artifacts []models.EvidenceArtifact) *Result {
	res := NewResult()

	res.Merge(v.PreventTeamGrading(a))
	res.Merge(v.ValidateObjective(obj))
	res.Merge(v.ValidateEvidencePortfolio(artifacts))

	if a.StudentID != obj.StudentID {
		res.AddError("assessment student_id must match learning objective student_id")
	}

	if a.ProjectID != obj.ProjectID {
		res.AddError("assessment project_id must match learning objective project_id")
	}

	if a.LearningObjectiveID != obj.ID {
		res.AddError("assessment must be linked to the correct learning objective")
	}

	for i, artifact := range artifacts {
		n := i + 1
		if artifact.StudentID != a.StudentID {
			res.AddError(fmt.Sprintf("evidence artifact %d student_id must match assessment student_id", n))
		}
		if artifact.LearningObjectiveID != a.LearningObjectiveID {
			res.AddError(fmt.Sprintf("evidence artifact %d must be linked to the same learning objective", n))
		}
	}

	return res
}

// ValidateUserPermissions checks whether a user may perform an operation
// against a target student's assessment data. Students only operate on their
// own records and never delete submitted assessments; educators never create
// assessments on behalf of students. Unrecognized roles fail closed.
func (v *Validator) ValidateUserPermissions(userID string, role models.RoleType, op Operation, targetStudentID string) *Result {
	res := NewResult()

	switch role {
	case models.RoleStudent:
		if userID != targetStudentID {
			res.AddError("students can only access their own individual assessments")
		}
		if op == OpDelete {
			res.AddError("students cannot delete submitted assessments")
		}
	case models.RoleEducator:
		if op == OpCreate {
			res.AddError("educators cannot create assessments on behalf of students; students must submit their own individual assessments")
		}
	case models.RoleAdmin:
		// Administrative override, not exercised by the validator.
	default:
		res.AddError(fmt.Sprintf("unrecognized role %q: access denied", role))
	}

	return res
}
