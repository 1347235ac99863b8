package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pblab/pblab/internal/app/models"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func validObjective() *models.LearningObjective {
	return &models.LearningObjective{
		ID:              "o1",
		StudentID:       "s1",
		ProjectID:       "p1",
		Description:     "Master goroutine lifecycle management",
		CompetencyLevel: intPtr(3),
		Status:          models.ObjectiveActive,
	}
}

func validAssessment() *models.IndividualAssessment {
	return &models.IndividualAssessment{
		ID:                    "a1",
		StudentID:             "s1",
		ProjectID:             "p1",
		LearningObjectiveID:   "o1",
		CompetencyAchievement: intPtr(4),
		AssessmentScore:       floatPtr(85.5),
		Status:                models.AssessmentSubmitted,
	}
}

func validArtifact() models.EvidenceArtifact {
	return models.EvidenceArtifact{
		ID:                  "e1",
		LearningObjectiveID: "o1",
		StudentID:           "s1",
		Type:                models.ArtifactDocument,
		Title:               "Design write-up",
		ExternalURL:         "https://example.com/doc.pdf",
	}
}

func TestValidateObjective(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		mutate     func(*models.LearningObjective)
		wantValid  bool
		wantErrors int
	}{
		{name: "valid objective", mutate: func(o *models.LearningObjective) {}, wantValid: true},
		{name: "missing student id", mutate: func(o *models.LearningObjective) { o.StudentID = "" }, wantValid: false, wantErrors: 1},
		{name: "empty description", mutate: func(o *models.LearningObjective) { o.Description = "" }, wantValid: false, wantErrors: 1},
		{name: "whitespace description", mutate: func(o *models.LearningObjective) { o.Description = "   " }, wantValid: false, wantErrors: 1},
		{name: "level below range", mutate: func(o *models.LearningObjective) { o.CompetencyLevel = intPtr(0) }, wantValid: false, wantErrors: 1},
		{name: "level above range", mutate: func(o *models.LearningObjective) { o.CompetencyLevel = intPtr(6) }, wantValid: false, wantErrors: 1},
		{name: "nil level is fine", mutate: func(o *models.LearningObjective) { o.CompetencyLevel = nil }, wantValid: true},
		{name: "team language", mutate: func(o *models.LearningObjective) { o.Description = "Improve our Team Grade together" }, wantValid: false, wantErrors: 1},
		{name: "two team phrases give two errors", mutate: func(o *models.LearningObjective) {
			o.Description = "team grade and group grade for everyone"
		}, wantValid: false, wantErrors: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := validObjective()
			tt.mutate(obj)
			res := v.ValidateObjective(obj)
			assert.Equal(t, tt.wantValid, res.IsValid)
			if tt.wantErrors > 0 {
				assert.Len(t, res.Errors, tt.wantErrors)
			}
		})
	}
}

func TestValidateObjectiveConcreteScenario(t *testing.T) {
	// Empty description with an in-range competency level: exactly the
	// description error, nothing about the level.
	v := NewValidator()
	res := v.ValidateObjective(&models.LearningObjective{
		StudentID:       "s1",
		CompetencyLevel: intPtr(3),
	})

	require.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "must have a description")
}

func TestPreventTeamGradingForbiddenFields(t *testing.T) {
	v := NewValidator()

	forbidden := []string{
		"team_grade", "team_score", "group_grade", "group_score",
		"team_assessment", "group_assessment", "team_competency",
		"group_competency", "collective_grade", "shared_grade",
	}

	for _, field := range forbidden {
		t.Run(field, func(t *testing.T) {
			a := validAssessment()
			a.Extra = map[string]any{field: 95}
			res := v.PreventTeamGrading(a)
			require.False(t, res.IsValid)
			require.Len(t, res.Errors, 1)
			assert.Contains(t, res.Errors[0], field)
		})
	}

	t.Run("one error per offending field", func(t *testing.T) {
		a := validAssessment()
		a.Extra = map[string]any{"team_grade": 90, "group_score": 80, "shared_grade": 70}
		res := v.PreventTeamGrading(a)
		assert.False(t, res.IsValid)
		assert.Len(t, res.Errors, 3)
	})
}

func TestPreventTeamGradingRequiredAndRanges(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		mutate    func(*models.IndividualAssessment)
		wantValid bool
		contains  string
	}{
		{name: "valid", mutate: func(a *models.IndividualAssessment) {}, wantValid: true},
		{name: "missing student id", mutate: func(a *models.IndividualAssessment) { a.StudentID = "" }, contains: "student_id"},
		{name: "missing objective link", mutate: func(a *models.IndividualAssessment) { a.LearningObjectiveID = "" }, contains: "learning objective"},
		{name: "achievement too high", mutate: func(a *models.IndividualAssessment) { a.CompetencyAchievement = intPtr(6) }, contains: "between 1 and 5"},
		{name: "achievement too low", mutate: func(a *models.IndividualAssessment) { a.CompetencyAchievement = intPtr(0) }, contains: "between 1 and 5"},
		{name: "score too high", mutate: func(a *models.IndividualAssessment) { a.AssessmentScore = floatPtr(100.5) }, contains: "between 0 and 100"},
		{name: "score negative", mutate: func(a *models.IndividualAssessment) { a.AssessmentScore = floatPtr(-1) }, contains: "between 0 and 100"},
		{name: "boundary score 100", mutate: func(a *models.IndividualAssessment) { a.AssessmentScore = floatPtr(100) }, wantValid: true},
		{name: "boundary score 0", mutate: func(a *models.IndividualAssessment) { a.AssessmentScore = floatPtr(0) }, wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAssessment()
			tt.mutate(a)
			res := v.PreventTeamGrading(a)
			assert.Equal(t, tt.wantValid, res.IsValid)
			if tt.contains != "" {
				require.NotEmpty(t, res.Errors)
				assert.Contains(t, res.Errors[0], tt.contains)
			}
		})
	}
}

func TestPreventTeamGradingConcreteScenario(t *testing.T) {
	// Out-of-range achievement with no team fields present: exactly the
	// range error, no forbidden-field errors.
	v := NewValidator()
	res := v.PreventTeamGrading(&models.IndividualAssessment{
		StudentID:             "s1",
		LearningObjectiveID:   "o1",
		CompetencyAchievement: intPtr(6),
	})

	require.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "competency achievement")
}

func TestPreventTeamGradingFramework(t *testing.T) {
	v := NewValidator()

	t.Run("framework level fields", func(t *testing.T) {
		a := validAssessment()
		a.CompetencyFramework = &models.CompetencyFramework{
			Extra: map[string]any{"team_weight": 0.5, "group_criteria": []string{"x"}},
		}
		res := v.PreventTeamGrading(a)
		assert.False(t, res.IsValid)
		assert.Len(t, res.Errors, 2)
	})

	t.Run("competency area index reported", func(t *testing.T) {
		a := validAssessment()
		a.CompetencyFramework = &models.CompetencyFramework{
			CompetencyAreas: []models.CompetencyArea{
				{ID: "c1", Name: "Analysis"},
				{ID: "c2", Name: "Collaboration", Extra: map[string]any{"team_criteria": []string{"x"}}},
			},
		}
		res := v.PreventTeamGrading(a)
		require.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "competency area 1")
	})

	t.Run("criteria index reported", func(t *testing.T) {
		a := validAssessment()
		a.CompetencyFramework = &models.CompetencyFramework{
			AssessmentCriteria: []models.AssessmentCriteria{
				{ID: "cr1", IndividualWeight: 1, Extra: map[string]any{"group_weight": 0.3}},
			},
		}
		res := v.PreventTeamGrading(a)
		require.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "assessment criteria 0")
	})

	t.Run("clean framework passes", func(t *testing.T) {
		a := validAssessment()
		a.CompetencyFramework = &models.CompetencyFramework{
			CompetencyAreas: []models.CompetencyArea{
				{ID: "c1", Name: "Analysis", IndividualCriteria: []string{"depth"}},
			},
			AssessmentCriteria: []models.AssessmentCriteria{
				{ID: "cr1", IndividualWeight: 1},
			},
		}
		res := v.PreventTeamGrading(a)
		assert.True(t, res.IsValid)
	})
}

func TestValidateEvidencePortfolio(t *testing.T) {
	v := NewValidator()

	t.Run("empty portfolio is valid with warning", func(t *testing.T) {
		res := v.ValidateEvidencePortfolio(nil)
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Errors)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "portfolio")
	})

	t.Run("valid artifact", func(t *testing.T) {
		res := v.ValidateEvidencePortfolio([]models.EvidenceArtifact{validArtifact()})
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Warnings)
	})

	t.Run("missing fields reported with index", func(t *testing.T) {
		second := validArtifact()
		second.StudentID = ""
		second.LearningObjectiveID = ""
		res := v.ValidateEvidencePortfolio([]models.EvidenceArtifact{validArtifact(), second})
		require.False(t, res.IsValid)
		assert.Len(t, res.Errors, 2)
		for _, e := range res.Errors {
			assert.Contains(t, e, "artifact 2")
		}
	})

	t.Run("no content locator", func(t *testing.T) {
		a := validArtifact()
		a.ExternalURL = ""
		res := v.ValidateEvidencePortfolio([]models.EvidenceArtifact{a})
		require.False(t, res.IsValid)
		assert.Contains(t, res.Errors[0], "either file_path or external_url")
	})

	t.Run("both content locators", func(t *testing.T) {
		a := validArtifact()
		a.FilePath = "/uploads/evidence/doc.pdf"
		res := v.ValidateEvidencePortfolio([]models.EvidenceArtifact{a})
		require.False(t, res.IsValid)
		assert.Contains(t, res.Errors[0], "exactly one")
	})

	t.Run("missing title", func(t *testing.T) {
		a := validArtifact()
		a.Title = "  "
		res := v.ValidateEvidencePortfolio([]models.EvidenceArtifact{a})
		assert.False(t, res.IsValid)
	})

	t.Run("team language warns but stays valid", func(t *testing.T) {
		a := validArtifact()
		a.Title = "Group work summary"
		res := v.ValidateEvidencePortfolio([]models.EvidenceArtifact{a})
		assert.True(t, res.IsValid)
		require.NotEmpty(t, res.Warnings)
		assert.Contains(t, res.Warnings[0], "Group work summary")
	})

	t.Run("team language in description warns", func(t *testing.T) {
		a := validArtifact()
		a.Description = "shared with the cohort"
		res := v.ValidateEvidencePortfolio([]models.EvidenceArtifact{a})
		assert.True(t, res.IsValid)
		assert.NotEmpty(t, res.Warnings)
	})
}

func TestCheckMinimumObjectives(t *testing.T) {
	v := NewValidator()

	makeObjectives := func(descs ...string) []models.LearningObjective {
		objs := make([]models.LearningObjective, 0, len(descs))
		for i, d := range descs {
			objs = append(objs, models.LearningObjective{
				ID:          "o" + string(rune('1'+i)),
				StudentID:   "s1",
				ProjectID:   "p1",
				Description: d,
			})
		}
		return objs
	}

	t.Run("below minimum", func(t *testing.T) {
		res := v.CheckMinimumObjectives(makeObjectives("a"))
		require.False(t, res.IsValid)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "minimum 3")
		assert.Contains(t, res.Errors[0], "currently have 1")
	})

	t.Run("at minimum no warnings", func(t *testing.T) {
		res := v.CheckMinimumObjectives(makeObjectives("a", "b", "c"))
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Warnings)
	})

	t.Run("duplicates warn but count still satisfied", func(t *testing.T) {
		// Identical trimmed, lowercased text counts as a duplicate.
		res := v.CheckMinimumObjectives(makeObjectives("Learn Go", " learn go ", "LEARN GO"))
		assert.True(t, res.IsValid)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "duplicate")
	})

	t.Run("low average competency warns", func(t *testing.T) {
		objs := makeObjectives("a", "b", "c")
		objs[0].CompetencyLevel = intPtr(1)
		objs[1].CompetencyLevel = intPtr(1)
		objs[2].CompetencyLevel = intPtr(2)
		res := v.CheckMinimumObjectives(objs)
		assert.True(t, res.IsValid)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "higher competency")
	})

	t.Run("healthy average no warning", func(t *testing.T) {
		objs := makeObjectives("a", "b", "c")
		objs[0].CompetencyLevel = intPtr(3)
		res := v.CheckMinimumObjectives(objs)
		assert.Empty(t, res.Warnings)
	})
}

func TestValidateAssessmentIntegrity(t *testing.T) {
	v := NewValidator()

	t.Run("fully consistent passes", func(t *testing.T) {
		res := v.ValidateAssessmentIntegrity(validAssessment(), validObjective(), []models.EvidenceArtifact{validArtifact()})
		assert.True(t, res.IsValid)
		assert.Empty(t, res.Errors)
	})

	t.Run("single cross-reference mutation adds exactly one error", func(t *testing.T) {
		mutations := []struct {
			name   string
			mutate func(*models.IndividualAssessment)
		}{
			{"student mismatch", func(a *models.IndividualAssessment) { a.StudentID = "s2" }},
			{"project mismatch", func(a *models.IndividualAssessment) { a.ProjectID = "p2" }},
			{"objective mismatch", func(a *models.IndividualAssessment) { a.LearningObjectiveID = "o2" }},
		}

		for _, m := range mutations {
			t.Run(m.name, func(t *testing.T) {
				a := validAssessment()
				m.mutate(a)
				// Student and objective mismatches cascade into the artifact
				// cross-checks; count only referential errors against the
				// objective here.
				res := v.ValidateAssessmentIntegrity(a, validObjective(), nil)
				assert.False(t, res.IsValid)

				baseline := v.ValidateAssessmentIntegrity(validAssessment(), validObjective(), nil)
				assert.Len(t, res.Errors, len(baseline.Errors)+1)
			})
		}
	})

	t.Run("artifact mismatches reported with index", func(t *testing.T) {
		foreign := validArtifact()
		foreign.StudentID = "s2"
		foreign.LearningObjectiveID = "o9"
		res := v.ValidateAssessmentIntegrity(validAssessment(), validObjective(), []models.EvidenceArtifact{validArtifact(), foreign})
		require.False(t, res.IsValid)
		assert.Contains(t, res.Errors[0], "artifact 2")
		assert.Len(t, res.Errors, 2)
	})

	t.Run("aggregates sub-check errors", func(t *testing.T) {
		a := validAssessment()
		a.Extra = map[string]any{"team_grade": 100}
		obj := validObjective()
		obj.Description = ""
		res := v.ValidateAssessmentIntegrity(a, obj, nil)
		assert.False(t, res.IsValid)
		assert.Len(t, res.Errors, 2)
		assert.Len(t, res.Warnings, 1) // empty portfolio advisory
	})
}

func TestValidateUserPermissions(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		userID    string
		role      models.RoleType
		op        Operation
		target    string
		wantValid bool
	}{
		{"student reads own", "s1", models.RoleStudent, OpRead, "s1", true},
		{"student creates own", "s1", models.RoleStudent, OpCreate, "s1", true},
		{"student updates own", "s1", models.RoleStudent, OpUpdate, "s1", true},
		{"student reads other", "s1", models.RoleStudent, OpRead, "s2", false},
		{"student deletes own submitted", "s1", models.RoleStudent, OpDelete, "s1", false},
		{"educator reads", "e1", models.RoleEducator, OpRead, "s1", true},
		{"educator updates", "e1", models.RoleEducator, OpUpdate, "s1", true},
		{"educator creates", "e1", models.RoleEducator, OpCreate, "s1", false},
		{"admin bypass", "adm", models.RoleAdmin, OpDelete, "s1", true},
		{"unknown role fails closed", "x", models.RoleType("ghost"), OpRead, "s1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateUserPermissions(tt.userID, tt.role, tt.op, tt.target)
			assert.Equal(t, tt.wantValid, res.IsValid)
		})
	}
}

func TestValidatorIdempotence(t *testing.T) {
	// Same input twice yields identical output: no hidden state mutation.
	v := NewValidator()
	obj := validObjective()
	obj.Description = "team grade chasing"

	first := v.ValidateObjective(obj)
	second := v.ValidateObjective(obj)
	assert.Equal(t, first, second)

	a := validAssessment()
	a.Extra = map[string]any{"team_score": 50}
	assert.Equal(t, v.PreventTeamGrading(a), v.PreventTeamGrading(a))
}

func TestResultMerge(t *testing.T) {
	a := NewResult()
	a.AddWarning("w1")

	b := NewResult()
	b.AddError("e1")

	a.Merge(b)
	assert.False(t, a.IsValid)
	assert.Equal(t, []string{"e1"}, a.Errors)
	assert.Equal(t, []string{"w1"}, a.Warnings)

	a.Merge(nil)
	assert.Len(t, a.Errors, 1)
}
