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

// assessmentStore is the subset of the assessment repository the service needs.
type assessmentStore interface {
	Create(ctx context.Context, assessment *models.IndividualAssessment) (string, error)
	GetByID(ctx context.Context, id string) (*models.IndividualAssessment, error)
	ListByStudentAndProject(ctx context.Context, studentID, projectID string) ([]*models.IndividualAssessment, error)
	AttachFeedback(ctx context.Context, id string, feedback string, score *float64, achievement *int, assessedBy string, status models.AssessmentStatus) error
	Delete(ctx context.Context, id string) error
}

// AssessmentService defines the interface for individual assessment operations
type AssessmentService interface {
	Create(ctx context.Context, actor Actor, req *dto.SubmitAssessmentRequest) (*dto.AssessmentResponse, []string, error)
	Get(ctx context.Context, actor Actor, id string) (*dto.AssessmentResponse, error)
	List(ctx context.Context, actor Actor, studentID, projectID string) ([]dto.AssessmentResponse, error)
	AttachFeedback(ctx context.Context, actor Actor, id string, req *dto.AttachFeedbackRequest) (*dto.AssessmentResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

// assessmentServiceImpl implements AssessmentService
type assessmentServiceImpl struct {
	assessmentRepo assessmentStore
	objectiveRepo  objectiveStore
	artifactRepo   artifactStore
	validator      *integrity.Validator
	evaluator      *policy.Evaluator
}

// NewAssessmentService creates a new AssessmentService
func NewAssessmentService(assessmentRepo assessmentStore, objectiveRepo objectiveStore, artifactRepo artifactStore) AssessmentService {
	return &assessmentServiceImpl{
		assessmentRepo: assessmentRepo,
		objectiveRepo:  objectiveRepo,
		artifactRepo:   artifactRepo,
		validator:      integrity.NewValidator(),
		evaluator:      policy.NewEvaluator(),
	}
}

// Create submits a new individual assessment authored by the acting student.
// The full integrity check runs against the parent objective and its evidence
// portfolio before anything persists.
func (s *assessmentServiceImpl) Create(ctx context.Context, actor Actor, req *dto.SubmitAssessmentRequest) (*dto.AssessmentResponse, []string, error) {
	assessment := req.ToModel(actor.ID)
	assessment.Status = models.AssessmentSubmitted

	perm := s.validator.ValidateUserPermissions(actor.ID, actor.Role, integrity.OpCreate, assessment.StudentID)
	if !perm.IsValid {
		return nil, nil, apperrors.NewForbiddenError(perm.Errors[0])
	}
	if !s.evaluator.CanAccess(assessment, actor.ID, actor.Role, policy.OpInsert) {
		return nil, nil, apperrors.ErrPermissionDenied
	}

	objective, err := s.objectiveRepo.GetByID(ctx, req.LearningObjectiveID)
	if err != nil {
		return nil, nil, err
	}

	artifacts, err := s.artifactRepo.ListByObjective(ctx, objective.ID)
	if err != nil {
		return nil, nil, err
	}
	values := make([]models.EvidenceArtifact, 0, len(artifacts))
	for _, a := range artifacts {
		values = append(values, *a)
	}

	res := s.validator.ValidateAssessmentIntegrity(assessment, objective, values)
	if !res.IsValid {
		return nil, nil, apperrors.NewIntegrityError(res.Errors)
	}

	if _, err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		return nil, nil, err
	}

	logger.Info().Str("assessmentID", assessment.ID).Str("studentID", actor.ID).Msg("Individual assessment submitted")
	resp := dto.NewAssessmentResponse(assessment)
	return &resp, res.Warnings, nil
}

// canReview reports whether the actor holds the educator review grant for the
// given persisted assessment.
func (s *assessmentServiceImpl) canReview(assessment *models.IndividualAssessment, actor Actor) bool {
	return s.evaluator.CanAttachFeedback(assessment, actor.ID, actor.Role)
}

// Get returns one assessment the actor may read: the owning student, an
// admin, or an educator reviewing it.
func (s *assessmentServiceImpl) Get(ctx context.Context, actor Actor, id string) (*dto.AssessmentResponse, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.evaluator.CanAccess(assessment, actor.ID, actor.Role, policy.OpSelect) && !s.canReview(assessment, actor) {
		return nil, apperrors.ErrPermissionDenied
	}

	resp := dto.NewAssessmentResponse(assessment)
	return &resp, nil
}

// List returns a student's assessments for a project. Educators may list for
// review; students only see their own.
func (s *assessmentServiceImpl) List(ctx context.Context, actor Actor, studentID, projectID string) ([]dto.AssessmentResponse, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleEducator:
	case models.RoleStudent:
		if actor.ID != studentID {
			return nil, apperrors.ErrPermissionDenied
		}
	default:
		return nil, apperrors.ErrPermissionDenied
	}

	assessments, err := s.assessmentRepo.ListByStudentAndProject(ctx, studentID, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		responses = append(responses, dto.NewAssessmentResponse(a))
	}
	return responses, nil
}

// AttachFeedback records an educator's score and feedback on a persisted
// assessment and completes the review.
func (s *assessmentServiceImpl) AttachFeedback(ctx context.Context, actor Actor, id string, req *dto.AttachFeedbackRequest) (*dto.AssessmentResponse, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.evaluator.CanAttachFeedback(assessment, actor.ID, actor.Role) {
		return nil, apperrors.ErrPermissionDenied
	}

	res := integrity.NewResult()
	if req.CompetencyAchievement != nil && (*req.CompetencyAchievement < integrity.MinCompetencyLevel || *req.CompetencyAchievement > integrity.MaxCompetencyLevel) {
		res.AddError(fmt.Sprintf("competency achievement must be between %d and %d", integrity.MinCompetencyLevel, integrity.MaxCompetencyLevel))
	}
	if req.AssessmentScore != nil && (*req.AssessmentScore < integrity.MinScore || *req.AssessmentScore > integrity.MaxScore) {
		res.AddError(fmt.Sprintf("assessment score must be between %.0f and %.0f", integrity.MinScore, integrity.MaxScore))
	}
	if !res.IsValid {
		return nil, apperrors.NewIntegrityError(res.Errors)
	}

	if err := s.assessmentRepo.AttachFeedback(ctx, id, req.Feedback, req.AssessmentScore, req.CompetencyAchievement, actor.ID, models.AssessmentCompleted); err != nil {
		return nil, err
	}

	assessment.EducatorFeedback = req.Feedback
	assessment.AssessedBy = actor.ID
	assessment.Status = models.AssessmentCompleted
	if req.AssessmentScore != nil {
		assessment.AssessmentScore = req.AssessmentScore
	}
	if req.CompetencyAchievement != nil {
		assessment.CompetencyAchievement = req.CompetencyAchievement
	}

	logger.Info().Str("assessmentID", id).Str("educatorID", actor.ID).Msg("Educator feedback attached")
	resp := dto.NewAssessmentResponse(assessment)
	return &resp, nil
}

// Delete removes an assessment. Submitted and completed assessments can never
// be deleted by their owning student.
func (s *assessmentServiceImpl) Delete(ctx context.Context, actor Actor, id string) error {
	assessment, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.evaluator.CanAccess(assessment, actor.ID, actor.Role, policy.OpDelete) {
		return apperrors.ErrPermissionDenied
	}

	return s.assessmentRepo.Delete(ctx, id)
}
