package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/pkg/apperrors"
)

type artifactFixture struct {
	svc         ArtifactService
	artifacts   *fakeArtifactStore
	storage     *fakeStorage
	objectiveID string
}

func newArtifactFixture(t *testing.T) *artifactFixture {
	t.Helper()
	objectives := newFakeObjectiveStore()
	artifacts := newFakeArtifactStore()
	storage := &fakeStorage{}

	objective := &models.LearningObjective{
		StudentID:   "student-a",
		ProjectID:   testProjectID,
		Description: "Master database indexing",
		Status:      models.ObjectiveActive,
	}
	_, err := objectives.Create(context.Background(), objective)
	require.NoError(t, err)

	return &artifactFixture{
		svc:         NewArtifactService(artifacts, objectives, storage),
		artifacts:   artifacts,
		storage:     storage,
		objectiveID: objective.ID,
	}
}

func TestArtifactServiceCreate(t *testing.T) {
	ctx := context.Background()
	student := Actor{ID: "student-a", Role: models.RoleStudent}

	t.Run("link artifact", func(t *testing.T) {
		f := newArtifactFixture(t)
		resp, warnings, err := f.svc.Create(ctx, student, f.objectiveID, &dto.CreateArtifactRequest{
			Type:        models.ArtifactLink,
			Title:       "Benchmark results",
			ExternalURL: "https://example.com/results",
		}, nil)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, "student-a", resp.StudentID)
		assert.Equal(t, f.objectiveID, resp.LearningObjectiveID)
	})

	t.Run("missing locator", func(t *testing.T) {
		f := newArtifactFixture(t)
		_, _, err := f.svc.Create(ctx, student, f.objectiveID, &dto.CreateArtifactRequest{
			Type:  models.ArtifactDocument,
			Title: "Write-up",
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
		assert.Empty(t, f.artifacts.artifacts)
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newArtifactFixture(t)
		_, _, err := f.svc.Create(ctx, student, f.objectiveID, &dto.CreateArtifactRequest{
			Type:        "podcast",
			Title:       "Episode 1",
			ExternalURL: "https://example.com/ep1",
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
	})

	t.Run("team language yields a warning not an error", func(t *testing.T) {
		f := newArtifactFixture(t)
		resp, warnings, err := f.svc.Create(ctx, student, f.objectiveID, &dto.CreateArtifactRequest{
			Type:        models.ArtifactDocument,
			Title:       "Team project retrospective",
			ExternalURL: "https://example.com/retro",
		}, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, warnings)
		assert.NotEmpty(t, resp.ID)
	})

	t.Run("another student's objective", func(t *testing.T) {
		f := newArtifactFixture(t)
		other := Actor{ID: "student-b", Role: models.RoleStudent}
		_, _, err := f.svc.Create(ctx, other, f.objectiveID, &dto.CreateArtifactRequest{
			Type:        models.ArtifactLink,
			Title:       "Not mine",
			ExternalURL: "https://example.com/x",
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestArtifactServiceListAndDelete(t *testing.T) {
	ctx := context.Background()
	student := Actor{ID: "student-a", Role: models.RoleStudent}
	f := newArtifactFixture(t)

	resp, _, err := f.svc.Create(ctx, student, f.objectiveID, &dto.CreateArtifactRequest{
		Type:        models.ArtifactLink,
		Title:       "Benchmark results",
		ExternalURL: "https://example.com/results",
	}, nil)
	require.NoError(t, err)

	list, err := f.svc.ListByObjective(ctx, student, f.objectiveID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other := Actor{ID: "student-b", Role: models.RoleStudent}
	_, err = f.svc.ListByObjective(ctx, other, f.objectiveID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = f.svc.Delete(ctx, other, resp.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, f.svc.Delete(ctx, student, resp.ID))
	assert.Empty(t, f.artifacts.artifacts)
}

func TestArtifactServicePortfolioCount(t *testing.T) {
	ctx := context.Background()
	student := Actor{ID: "student-a", Role: models.RoleStudent}
	f := newArtifactFixture(t)

	for i := 0; i < 3; i++ {
		_, _, err := f.svc.Create(ctx, student, f.objectiveID, &dto.CreateArtifactRequest{
			Type:        models.ArtifactLink,
			Title:       "Evidence item",
			ExternalURL: "https://example.com/item",
		}, nil)
		require.NoError(t, err)
	}

	count, err := f.svc.PortfolioCount(ctx, student, "student-a", testProjectID)
	require.NoError(t, err)
	assert.Equal(t, 3, count.Current)
	assert.Equal(t, EvidenceTarget, count.Target)
	assert.Equal(t, 30, count.Percentage)

	other := Actor{ID: "student-b", Role: models.RoleStudent}
	_, err = f.svc.PortfolioCount(ctx, other, "student-a", testProjectID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
