package dto

import (
	"encoding/json"
	"time"

	"github.com/pblab/pblab/internal/app/models"
)

// SubmitAssessmentRequest represents an individual assessment submission.
// Unknown top-level keys are captured into Extra so the integrity checks can
// reject team-scoped fields smuggled alongside the known ones.
type SubmitAssessmentRequest struct {
	ProjectID             string                      `json:"project_id" binding:"required"`
	LearningObjectiveID   string                      `json:"learning_objective_id" binding:"required"`
	CompetencyAchievement *int                        `json:"competency_achievement,omitempty"`
	AssessmentScore       *float64                    `json:"assessment_score,omitempty"`
	CompetencyFramework   *CompetencyFrameworkPayload `json:"competency_framework,omitempty"`
	Extra                 map[string]any              `json:"-"`
}

var assessmentKnownKeys = []string{
	"project_id",
	"learning_objective_id",
	"competency_achievement",
	"assessment_score",
	"competency_framework",
}

// UnmarshalJSON decodes the known fields and collects everything else into Extra.
func (r *SubmitAssessmentRequest) UnmarshalJSON(data []byte) error {
	type plain SubmitAssessmentRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := decodeExtra(data, assessmentKnownKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = SubmitAssessmentRequest(p)
	return nil
}

// CompetencyFrameworkPayload mirrors models.CompetencyFramework with
// unknown-key capture at every level of nesting.
type CompetencyFrameworkPayload struct {
	CompetencyAreas    []CompetencyAreaPayload     `json:"competency_areas,omitempty"`
	AssessmentCriteria []AssessmentCriteriaPayload `json:"assessment_criteria,omitempty"`
	Extra              map[string]any              `json:"-"`
}

var frameworkKnownKeys = []string{"competency_areas", "assessment_criteria"}

func (f *CompetencyFrameworkPayload) UnmarshalJSON(data []byte) error {
	type plain CompetencyFrameworkPayload
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := decodeExtra(data, frameworkKnownKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*f = CompetencyFrameworkPayload(p)
	return nil
}

type CompetencyAreaPayload struct {
	ID                 string         `json:"id,omitempty"`
	Name               string         `json:"name,omitempty"`
	Description        string         `json:"description,omitempty"`
	IndividualCriteria []string       `json:"individual_criteria,omitempty"`
	Extra              map[string]any `json:"-"`
}

var areaKnownKeys = []string{"id", "name", "description", "individual_criteria"}

func (a *CompetencyAreaPayload) UnmarshalJSON(data []byte) error {
	type plain CompetencyAreaPayload
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := decodeExtra(data, areaKnownKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*a = CompetencyAreaPayload(p)
	return nil
}

type AssessmentCriteriaPayload struct {
	ID               string         `json:"id,omitempty"`
	Description      string         `json:"description,omitempty"`
	IndividualWeight *float64       `json:"individual_weight,omitempty"`
	Extra            map[string]any `json:"-"`
}

var criteriaKnownKeys = []string{"id", "description", "individual_weight"}

func (c *AssessmentCriteriaPayload) UnmarshalJSON(data []byte) error {
	type plain AssessmentCriteriaPayload
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := decodeExtra(data, criteriaKnownKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*c = AssessmentCriteriaPayload(p)
	return nil
}

// decodeExtra re-parses the raw object and keeps only the keys that are not
// part of the typed struct. Returns nil when nothing unknown was sent.
func decodeExtra(data []byte, known []string) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	extra := make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		extra[k] = val
	}
	return extra, nil
}

// ToModel builds the assessment model owned by the given student
func (r *SubmitAssessmentRequest) ToModel(studentID string) *models.IndividualAssessment {
	a := &models.IndividualAssessment{
		StudentID:             studentID,
		ProjectID:             r.ProjectID,
		LearningObjectiveID:   r.LearningObjectiveID,
		CompetencyAchievement: r.CompetencyAchievement,
		AssessmentScore:       r.AssessmentScore,
		Extra:                 r.Extra,
	}
	if r.CompetencyFramework != nil {
		a.CompetencyFramework = r.CompetencyFramework.toModel()
	}
	return a
}

func (f *CompetencyFrameworkPayload) toModel() *models.CompetencyFramework {
	m := &models.CompetencyFramework{Extra: f.Extra}
	for _, area := range f.CompetencyAreas {
		m.CompetencyAreas = append(m.CompetencyAreas, models.CompetencyArea{
			ID:                 area.ID,
			Name:               area.Name,
			Description:        area.Description,
			IndividualCriteria: area.IndividualCriteria,
			Extra:              area.Extra,
		})
	}
	for _, crit := range f.AssessmentCriteria {
		mc := models.AssessmentCriteria{
			ID:          crit.ID,
			Description: crit.Description,
			Extra:       crit.Extra,
		}
		if crit.IndividualWeight != nil {
			mc.IndividualWeight = *crit.IndividualWeight
		}
		m.AssessmentCriteria = append(m.AssessmentCriteria, mc)
	}
	return m
}

// AttachFeedbackRequest carries educator feedback for an assessment
type AttachFeedbackRequest struct {
	Feedback              string   `json:"feedback" binding:"required"`
	AssessmentScore       *float64 `json:"assessment_score,omitempty"`
	CompetencyAchievement *int     `json:"competency_achievement,omitempty"`
}

// AssessmentResponse represents an individual assessment in API responses
type AssessmentResponse struct {
	ID                    string                  `json:"id"`
	StudentID             string                  `json:"student_id"`
	ProjectID             string                  `json:"project_id"`
	LearningObjectiveID   string                  `json:"learning_objective_id"`
	CompetencyAchievement *int                    `json:"competency_achievement,omitempty"`
	AssessmentScore       *float64                `json:"assessment_score,omitempty"`
	EducatorFeedback      string                  `json:"educator_feedback,omitempty"`
	AssessedBy            string                  `json:"assessed_by,omitempty"`
	AssessmentDate        time.Time               `json:"assessment_date"`
	Status                models.AssessmentStatus `json:"status"`
}

// NewAssessmentResponse converts an IndividualAssessment model to its response DTO
func NewAssessmentResponse(a *models.IndividualAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:                    a.ID,
		StudentID:             a.StudentID,
		ProjectID:             a.ProjectID,
		LearningObjectiveID:   a.LearningObjectiveID,
		CompetencyAchievement: a.CompetencyAchievement,
		AssessmentScore:       a.AssessmentScore,
		EducatorFeedback:      a.EducatorFeedback,
		AssessedBy:            a.AssessedBy,
		AssessmentDate:        a.AssessmentDate,
		Status:                a.Status,
	}
}
