package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/pblab/pblab/internal/app/integrity"
	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/app/policy"
	"github.com/pblab/pblab/internal/pkg/apperrors"
	"github.com/pblab/pblab/internal/pkg/filestorage"
	"github.com/pblab/pblab/internal/pkg/logger"
)

// artifactStore is the subset of the artifact repository the services need.
type artifactStore interface {
	Create(ctx context.Context, artifact *models.EvidenceArtifact) (string, error)
	GetByID(ctx context.Context, id string) (*models.EvidenceArtifact, error)
	ListByObjective(ctx context.Context, objectiveID string) ([]*models.EvidenceArtifact, error)
	CountByStudentAndProject(ctx context.Context, studentID, projectID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// ArtifactService defines the interface for evidence artifact operations
type ArtifactService interface {
	Create(ctx context.Context, actor Actor, objectiveID string, req *dto.CreateArtifactRequest, file *multipart.FileHeader) (*dto.ArtifactResponse, []string, error)
	ListByObjective(ctx context.Context, actor Actor, objectiveID string) ([]dto.ArtifactResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	PortfolioCount(ctx context.Context, actor Actor, studentID, projectID string) (*dto.PortfolioCountResponse, error)
}

// artifactServiceImpl implements ArtifactService
type artifactServiceImpl struct {
	artifactRepo  artifactStore
	objectiveRepo objectiveStore
	storage       filestorage.FileStorage
	validator     *integrity.Validator
	evaluator     *policy.Evaluator
}

// NewArtifactService creates a new ArtifactService
func NewArtifactService(artifactRepo artifactStore, objectiveRepo objectiveStore, storage filestorage.FileStorage) ArtifactService {
	return &artifactServiceImpl{
		artifactRepo:  artifactRepo,
		objectiveRepo: objectiveRepo,
		storage:       storage,
		validator:     integrity.NewValidator(),
		evaluator:     policy.NewEvaluator(),
	}
}

// Create attaches a new evidence artifact to one of the acting student's
// objectives. Content comes from exactly one locator: an uploaded file or an
// external URL.
func (s *artifactServiceImpl) Create(ctx context.Context, actor Actor, objectiveID string, req *dto.CreateArtifactRequest, file *multipart.FileHeader) (*dto.ArtifactResponse, []string, error) {
	objective, err := s.objectiveRepo.GetByID(ctx, objectiveID)
	if err != nil {
		return nil, nil, err
	}

	artifact := &models.EvidenceArtifact{
		LearningObjectiveID: objective.ID,
		StudentID:           actor.ID,
		Type:                req.Type,
		Title:               req.Title,
		Description:         req.Description,
		ExternalURL:         req.ExternalURL,
	}

	if !s.evaluator.CanAccess(artifact, actor.ID, actor.Role, policy.OpInsert) {
		return nil, nil, apperrors.ErrPermissionDenied
	}
	if artifact.StudentID != objective.StudentID && actor.Role != models.RoleAdmin {
		return nil, nil, apperrors.NewForbiddenError("evidence artifacts can only be attached to the student's own learning objectives")
	}

	var savedPath string
	if file != nil {
		savedPath, err = s.storage.SaveFileWithPath(file, "evidence")
		if err != nil {
			return nil, nil, fmt.Errorf("error saving evidence file: %w", err)
		}
		artifact.FilePath = savedPath
	}

	res := integrity.NewResult()
	if !models.ValidArtifactType(artifact.Type) {
		res.AddError(fmt.Sprintf("unsupported artifact type %q", artifact.Type))
	}
	res.Merge(s.validator.ValidateEvidencePortfolio([]models.EvidenceArtifact{*artifact}))
	if !res.IsValid {
		if savedPath != "" {
			if delErr := s.storage.DeleteFile(savedPath); delErr != nil {
				logger.Warn().Err(delErr).Str("path", savedPath).Msg("Failed to remove rejected evidence file")
			}
		}
		return nil, nil, apperrors.NewIntegrityError(res.Errors)
	}

	if _, err := s.artifactRepo.Create(ctx, artifact); err != nil {
		return nil, nil, err
	}

	logger.Info().Str("artifactID", artifact.ID).Str("objectiveID", objective.ID).Msg("Evidence artifact created")
	resp := dto.NewArtifactResponse(artifact)
	return &resp, res.Warnings, nil
}

// ListByObjective returns the artifacts attached to an objective the actor
// may read.
func (s *artifactServiceImpl) ListByObjective(ctx context.Context, actor Actor, objectiveID string) ([]dto.ArtifactResponse, error) {
	objective, err := s.objectiveRepo.GetByID(ctx, objectiveID)
	if err != nil {
		return nil, err
	}

	if !s.evaluator.CanAccess(objective, actor.ID, actor.Role, policy.OpSelect) {
		return nil, apperrors.ErrPermissionDenied
	}

	artifacts, err := s.artifactRepo.ListByObjective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		responses = append(responses, dto.NewArtifactResponse(a))
	}
	return responses, nil
}

// Delete removes an artifact owned by the acting student, including its
// stored file when present.
func (s *artifactServiceImpl) Delete(ctx context.Context, actor Actor, id string) error {
	artifact, err := s.artifactRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.evaluator.CanAccess(artifact, actor.ID, actor.Role, policy.OpDelete) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.artifactRepo.Delete(ctx, id); err != nil {
		return err
	}

	if artifact.FilePath != "" {
		if err := s.storage.DeleteFile(artifact.FilePath); err != nil {
			logger.Warn().Err(err).Str("path", artifact.FilePath).Msg("Failed to delete evidence file")
		}
	}

	return nil
}

// PortfolioCount reports a student's evidence count against the per-project
// portfolio target.
func (s *artifactServiceImpl) PortfolioCount(ctx context.Context, actor Actor, studentID, projectID string) (*dto.PortfolioCountResponse, error) {
	if actor.Role != models.RoleAdmin && !(actor.Role == models.RoleStudent && actor.ID == studentID) {
		return nil, apperrors.ErrPermissionDenied
	}

	count, err := s.artifactRepo.CountByStudentAndProject(ctx, studentID, projectID)
	if err != nil {
		return nil, err
	}

	return &dto.PortfolioCountResponse{
		Current:    count,
		Target:     EvidenceTarget,
		Percentage: progressPercentage(count),
	}, nil
}
