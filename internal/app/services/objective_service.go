package services

import (
	"context"
	"fmt"

	"github.com/pblab/pblab/internal/app/integrity"
	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/app/models/dto"
	"github.com/pblab/pblab/internal/app/policy"
	"github.com/pblab/pblab/internal/pkg/apperrors"
	"github.com/pblab/pblab/internal/pkg/logger"
)

// objectiveStore is the subset of the objective repository the services need.
type objectiveStore interface {
	Create(ctx context.Context, objective *models.LearningObjective) (string, error)
	GetByID(ctx context.Context, id string) (*models.LearningObjective, error)
	ListByStudentAndProject(ctx context.Context, studentID, projectID string) ([]*models.LearningObjective, error)
	ListWithEvidenceCounts(ctx context.Context, studentID, projectID string) ([]*models.ObjectiveProgress, error)
	UpdateDetails(ctx context.Context, objective *models.LearningObjective) error
	UpdateStatus(ctx context.Context, id string, status models.ObjectiveStatus) error
	Delete(ctx context.Context, id string) error
	CountByStudentAndProject(ctx context.Context, studentID, projectID string) (int, error)
}

// projectStore is the subset of the project repository the services need.
type projectStore interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ObjectiveService defines the interface for learning objective operations
type ObjectiveService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateObjectiveRequest) (*dto.ObjectiveResponse, []string, error)
	List(ctx context.Context, actor Actor, studentID, projectID string) ([]dto.ObjectiveResponse, error)
	ListWithProgress(ctx context.Context, actor Actor, studentID, projectID string) ([]dto.ObjectiveProgressResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateObjectiveRequest) (*dto.ObjectiveResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, status models.ObjectiveStatus) (*dto.ObjectiveResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	CheckMinimum(ctx context.Context, actor Actor, studentID, projectID string) (*dto.MinimumObjectivesResponse, error)
}

// objectiveServiceImpl implements ObjectiveService
type objectiveServiceImpl struct {
	objectiveRepo objectiveStore
	projectRepo   projectStore
	validator     *integrity.Validator
	evaluator     *policy.Evaluator
}

// NewObjectiveService creates a new ObjectiveService
func NewObjectiveService(objectiveRepo objectiveStore, projectRepo projectStore) ObjectiveService {
	return &objectiveServiceImpl{
		objectiveRepo: objectiveRepo,
		projectRepo:   projectRepo,
		validator:     integrity.NewValidator(),
		evaluator:     policy.NewEvaluator(),
	}
}

// Create declares a new individual learning objective owned by the acting
// student. The integrity validator runs first, the access policy second.
func (s *objectiveServiceImpl) Create(ctx context.Context, actor Actor, req *dto.CreateObjectiveRequest) (*dto.ObjectiveResponse, []string, error) {
	objective := &models.LearningObjective{
		StudentID:       actor.ID,
		ProjectID:       req.ProjectID,
		TeamID:          req.TeamID,
		Description:     req.Description,
		CompetencyLevel: req.CompetencyLevel,
		Status:          models.ObjectiveDraft,
	}

	res := s.validator.ValidateObjective(objective)
	if !res.IsValid {
		return nil, nil, apperrors.NewIntegrityError(res.Errors)
	}

	if !s.evaluator.CanAccess(objective, actor.ID, actor.Role, policy.OpInsert) {
		return nil, nil, apperrors.ErrPermissionDenied
	}

	exists, err := s.projectRepo.Exists(ctx, req.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("error checking project: %w", err)
	}
	if !exists {
		return nil, nil, apperrors.ErrProjectNotFound
	}

	if _, err := s.objectiveRepo.Create(ctx, objective); err != nil {
		return nil, nil, err
	}

	logger.Info().Str("objectiveID", objective.ID).Str("studentID", actor.ID).Msg("Learning objective created")
	resp := dto.NewObjectiveResponse(objective)
	return &resp, res.Warnings, nil
}

// canViewStudentData gates collection reads scoped to one student's records
func (s *objectiveServiceImpl) canViewStudentData(actor Actor, studentID string) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleStudent:
		return actor.ID == studentID
	default:
		return false
	}
}

// List returns a student's objectives for a project
func (s *objectiveServiceImpl) List(ctx context.Context, actor Actor, studentID, projectID string) ([]dto.ObjectiveResponse, error) {
	if !s.canViewStudentData(actor, studentID) {
		return nil, apperrors.ErrPermissionDenied
	}

	objectives, err := s.objectiveRepo.ListByStudentAndProject(ctx, studentID, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ObjectiveResponse, 0, len(objectives))
	for _, o := range objectives {
		responses = append(responses, dto.NewObjectiveResponse(o))
	}
	return responses, nil
}

// ListWithProgress returns a student's objectives together with evidence
// portfolio progress against the per-project target.
func (s *objectiveServiceImpl) ListWithProgress(ctx context.Context, actor Actor, studentID, projectID string) ([]dto.ObjectiveProgressResponse, error) {
	if !s.canViewStudentData(actor, studentID) {
		return nil, apperrors.ErrPermissionDenied
	}

	progress, err := s.objectiveRepo.ListWithEvidenceCounts(ctx, studentID, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ObjectiveProgressResponse, 0, len(progress))
	for _, p := range progress {
		responses = append(responses, dto.ObjectiveProgressResponse{
			Objective:          dto.NewObjectiveResponse(&p.Objective),
			EvidenceCount:      p.EvidenceCount,
			EvidenceTarget:     EvidenceTarget,
			ProgressPercentage: progressPercentage(p.EvidenceCount),
		})
	}
	return responses, nil
}

// Update edits an objective's description or competency level. Editing a
// completed objective moves it back to revised.
func (s *objectiveServiceImpl) Update(ctx context.Context, actor Actor, id string, req *dto.UpdateObjectiveRequest) (*dto.ObjectiveResponse, error) {
	objective, err := s.objectiveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.evaluator.CanAccess(objective, actor.ID, actor.Role, policy.OpUpdate) {
		return nil, apperrors.ErrPermissionDenied
	}

	if req.Description != nil {
		objective.Description = *req.Description
	}
	if req.CompetencyLevel != nil {
		objective.CompetencyLevel = req.CompetencyLevel
	}

	res := s.validator.ValidateObjective(objective)
	if !res.IsValid {
		return nil, apperrors.NewIntegrityError(res.Errors)
	}

	if objective.Status == models.ObjectiveCompleted {
		objective.Status = models.ObjectiveRevised
	}

	if err := s.objectiveRepo.UpdateDetails(ctx, objective); err != nil {
		return nil, err
	}

	resp := dto.NewObjectiveResponse(objective)
	return &resp, nil
}

// UpdateStatus moves an objective through its lifecycle state machine
func (s *objectiveServiceImpl) UpdateStatus(ctx context.Context, actor Actor, id string, status models.ObjectiveStatus) (*dto.ObjectiveResponse, error) {
	objective, err := s.objectiveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.evaluator.CanAccess(objective, actor.ID, actor.Role, policy.OpUpdate) {
		return nil, apperrors.ErrPermissionDenied
	}

	if !policy.CanTransition(objective.Status, status) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move objective from %s to %s", objective.Status, status))
	}

	if err := s.objectiveRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	objective.Status = status
	resp := dto.NewObjectiveResponse(objective)
	return &resp, nil
}

// Delete removes an objective owned by the acting student
func (s *objectiveServiceImpl) Delete(ctx context.Context, actor Actor, id string) error {
	objective, err := s.objectiveRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.evaluator.CanAccess(objective, actor.ID, actor.Role, policy.OpDelete) {
		return apperrors.ErrPermissionDenied
	}

	return s.objectiveRepo.Delete(ctx, id)
}

// CheckMinimum runs the minimum-objectives check over a student's persisted
// objectives for a project.
func (s *objectiveServiceImpl) CheckMinimum(ctx context.Context, actor Actor, studentID, projectID string) (*dto.MinimumObjectivesResponse, error) {
	if !s.canViewStudentData(actor, studentID) {
		return nil, apperrors.ErrPermissionDenied
	}

	objectives, err := s.objectiveRepo.ListByStudentAndProject(ctx, studentID, projectID)
	if err != nil {
		return nil, err
	}

	values := make([]models.LearningObjective, 0, len(objectives))
	for _, o := range objectives {
		values = append(values, *o)
	}

	res := s.validator.CheckMinimumObjectives(values)
	return &dto.MinimumObjectivesResponse{
		IsValid:      res.IsValid,
		CurrentCount: len(values),
		Required:     integrity.MinObjectives,
		Warnings:     res.Warnings,
	}, nil
}
