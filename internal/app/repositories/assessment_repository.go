package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/pkg/apperrors"
	"github.com/pblab/pblab/internal/pkg/logger"
)

// AssessmentRepository handles database operations for individual assessments.
// The competency framework is stored as a jsonb column.
type AssessmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAssessmentRepository creates a new AssessmentRepository
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AssessmentRepository) selectAssessmentQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"id", "student_id", "project_id", "learning_objective_id",
		"competency_achievement", "assessment_score", "educator_feedback",
		"assessed_by", "assessment_date", "status", "competency_framework",
	).From("individual_assessments")
}

func scanAssessment(row pgx.Row) (*models.IndividualAssessment, error) {
	var a models.IndividualAssessment
	var feedback, assessedBy *string
	err := row.Scan(
		&a.ID, &a.StudentID, &a.ProjectID, &a.LearningObjectiveID,
		&a.CompetencyAchievement, &a.AssessmentScore, &feedback,
		&assessedBy, &a.AssessmentDate, &a.Status, &a.CompetencyFramework,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssessmentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning assessment row")
		return nil, err
	}
	if feedback != nil {
		a.EducatorFeedback = *feedback
	}
	if assessedBy != nil {
		a.AssessedBy = *assessedBy
	}
	return &a, nil
}

// Create inserts a new individual assessment and returns its generated ID
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.IndividualAssessment) (string, error) {
	id := uuid.New().String()
	now := time.Now()

	sql, args, err := r.sb.Insert("individual_assessments").
		Columns("id", "student_id", "project_id", "learning_objective_id",
			"competency_achievement", "assessment_score", "assessment_date",
			"status", "competency_framework").
		Values(id, assessment.StudentID, assessment.ProjectID, assessment.LearningObjectiveID,
			assessment.CompetencyAchievement, assessment.AssessmentScore, now,
			assessment.Status, assessment.CompetencyFramework).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create assessment SQL")
		return "", err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", assessment.StudentID).Msg("Error executing create assessment query")
		return "", err
	}

	assessment.ID = id
	assessment.AssessmentDate = now
	return id, nil
}

// GetByID retrieves an individual assessment by its ID
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*models.IndividualAssessment, error) {
	sql, args, err := r.selectAssessmentQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get assessment by ID SQL")
		return nil, err
	}
	return scanAssessment(r.db.QueryRow(ctx, sql, args...))
}

// ListByStudentAndProject retrieves a student's assessments for a project
func (r *AssessmentRepository) ListByStudentAndProject(ctx context.Context, studentID, projectID string) ([]*models.IndividualAssessment, error) {
	sql, args, err := r.selectAssessmentQuery().
		Where(squirrel.Eq{"student_id": studentID, "project_id": projectID}).
		OrderBy("assessment_date DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list assessments SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing list assessments query")
		return nil, err
	}
	defer rows.Close()

	assessments := make([]*models.IndividualAssessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating assessment rows")
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return assessments, nil
}

// AttachFeedback records educator feedback on an assessment and moves it to
// the given status. Score and achievement are only overwritten when provided.
func (r *AssessmentRepository) AttachFeedback(ctx context.Context, id string, feedback string, score *float64, achievement *int, assessedBy string, status models.AssessmentStatus) error {
	builder := r.sb.Update("individual_assessments").
		Set("educator_feedback", feedback).
		Set("assessed_by", assessedBy).
		Set("status", status)
	if score != nil {
		builder = builder.Set("assessment_score", *score)
	}
	if achievement != nil {
		builder = builder.Set("competency_achievement", *achievement)
	}
	sql, args, err := builder.
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building attach feedback SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("assessmentID", id).Msg("Error executing attach feedback query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssessmentNotFound
	}

	return nil
}

// Delete removes an individual assessment by its ID
func (r *AssessmentRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("individual_assessments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete assessment SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("assessmentID", id).Msg("Error executing delete assessment query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAssessmentNotFound
	}

	return nil
}
