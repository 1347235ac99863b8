package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/pkg/apperrors"
)

type assessmentFixture struct {
	svc         AssessmentService
	assessments *fakeAssessmentStore
	objectiveID string
}

func newAssessmentFixture(t *testing.T) *assessmentFixture {
	t.Helper()
	objectives := newFakeObjectiveStore()
	artifacts := newFakeArtifactStore()
	assessments := newFakeAssessmentStore()

	objective := &models.LearningObjective{
		StudentID:   "student-a",
		ProjectID:   testProjectID,
		Description: "Master database indexing",
		Status:      models.ObjectiveActive,
	}
	_, err := objectives.Create(context.Background(), objective)
	require.NoError(t, err)

	_, err = artifacts.Create(context.Background(), &models.EvidenceArtifact{
		LearningObjectiveID: objective.ID,
		StudentID:           "student-a",
		Type:                models.ArtifactCode,
		Title:               "Index benchmark harness",
		ExternalURL:         "https://git.example.com/bench",
	})
	require.NoError(t, err)

	return &assessmentFixture{
		svc:         NewAssessmentService(assessments, objectives, artifacts),
		assessments: assessments,
		objectiveID: objective.ID,
	}
}

func (f *assessmentFixture) submitRequest() *dto.SubmitAssessmentRequest {
	return &dto.SubmitAssessmentRequest{
		ProjectID:           testProjectID,
		LearningObjectiveID: f.objectiveID,
		AssessmentScore:     floatPtr(88),
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestAssessmentServiceCreate(t *testing.T) {
	ctx := context.Background()
	student := Actor{ID: "student-a", Role: models.RoleStudent}

	t.Run("valid submission", func(t *testing.T) {
		f := newAssessmentFixture(t)
		resp, warnings, err := f.svc.Create(ctx, student, f.submitRequest())
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, models.AssessmentSubmitted, resp.Status)
		assert.Equal(t, "student-a", resp.StudentID)
	})

	t.Run("forbidden team field blocks persistence", func(t *testing.T) {
		f := newAssessmentFixture(t)
		req := f.submitRequest()
		req.Extra = map[string]any{"team_grade": "A"}
		_, _, err := f.svc.Create(ctx, student, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
		assert.Empty(t, f.assessments.assessments)
	})

	t.Run("smuggled json field is caught", func(t *testing.T) {
		f := newAssessmentFixture(t)
		payload := []byte(`{"project_id":"` + testProjectID + `","learning_objective_id":"` + f.objectiveID + `","group_score":95}`)
		var req dto.SubmitAssessmentRequest
		require.NoError(t, json.Unmarshal(payload, &req))

		_, _, err := f.svc.Create(ctx, student, &req)
		assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
	})

	t.Run("educator cannot submit on behalf of a student", func(t *testing.T) {
		f := newAssessmentFixture(t)
		educator := Actor{ID: "educator-1", Role: models.RoleEducator}
		_, _, err := f.svc.Create(ctx, educator, f.submitRequest())
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("objective owned by another student", func(t *testing.T) {
		f := newAssessmentFixture(t)
		other := Actor{ID: "student-b", Role: models.RoleStudent}
		_, _, err := f.svc.Create(ctx, other, f.submitRequest())
		assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
	})
}

func TestAssessmentServiceAttachFeedback(t *testing.T) {
	ctx := context.Background()
	student := Actor{ID: "student-a", Role: models.RoleStudent}
	educator := Actor{ID: "educator-1", Role: models.RoleEducator}

	submit := func(t *testing.T, f *assessmentFixture) string {
		resp, _, err := f.svc.Create(ctx, student, f.submitRequest())
		require.NoError(t, err)
		return resp.ID
	}

	t.Run("educator completes the review", func(t *testing.T) {
		f := newAssessmentFixture(t)
		id := submit(t, f)
		resp, err := f.svc.AttachFeedback(ctx, educator, id, &dto.AttachFeedbackRequest{
			Feedback:              "Strong individual work on indexing",
			CompetencyAchievement: lvlPtr(4),
		})
		require.NoError(t, err)
		assert.Equal(t, models.AssessmentCompleted, resp.Status)
		assert.Equal(t, "educator-1", resp.AssessedBy)
		assert.Equal(t, 4, *resp.CompetencyAchievement)
	})

	t.Run("student cannot attach feedback", func(t *testing.T) {
		f := newAssessmentFixture(t)
		id := submit(t, f)
		_, err := f.svc.AttachFeedback(ctx, student, id, &dto.AttachFeedbackRequest{Feedback: "self praise"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("achievement out of range", func(t *testing.T) {
		f := newAssessmentFixture(t)
		id := submit(t, f)
		_, err := f.svc.AttachFeedback(ctx, educator, id, &dto.AttachFeedbackRequest{
			Feedback:              "ok",
			CompetencyAchievement: lvlPtr(6),
		})
		assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
	})
}

func TestAssessmentServiceDelete(t *testing.T) {
	ctx := context.Background()
	student := Actor{ID: "student-a", Role: models.RoleStudent}

	f := newAssessmentFixture(t)
	resp, _, err := f.svc.Create(ctx, student, f.submitRequest())
	require.NoError(t, err)

	// Submitted assessments are immutable history for their author.
	err = f.svc.Delete(ctx, student, resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}
	require.NoError(t, f.svc.Delete(ctx, admin, resp.ID))
}

func TestAssessmentServiceReadAccess(t *testing.T) {
	ctx := context.Background()
	student := Actor{ID: "student-a", Role: models.RoleStudent}
	f := newAssessmentFixture(t)

	resp, _, err := f.svc.Create(ctx, student, f.submitRequest())
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, student, resp.ID)
	assert.NoError(t, err)

	educator := Actor{ID: "educator-1", Role: models.RoleEducator}
	_, err = f.svc.Get(ctx, educator, resp.ID)
	assert.NoError(t, err)

	other := Actor{ID: "student-b", Role: models.RoleStudent}
	_, err = f.svc.Get(ctx, other, resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.svc.List(ctx, other, "student-a", testProjectID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	list, err := f.svc.List(ctx, educator, "student-a", testProjectID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
