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

// ObjectiveRepository handles database operations for individual learning objectives
type ObjectiveRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewObjectiveRepository creates a new ObjectiveRepository
func NewObjectiveRepository(db *pgxpool.Pool) *ObjectiveRepository {
	return &ObjectiveRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ObjectiveRepository) selectObjectiveQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"id", "student_id", "project_id", "team_id", "objective_description",
		"competency_level", "progress_status", "created_at", "updated_at",
	).From("individual_learning_objectives")
}

func scanObjective(row pgx.Row) (*models.LearningObjective, error) {
	var o models.LearningObjective
	err := row.Scan(
		&o.ID, &o.StudentID, &o.ProjectID, &o.TeamID, &o.Description,
		&o.CompetencyLevel, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrObjectiveNotFound
		}
		logger.Error().Err(err).Msg("Error scanning objective row")
		return nil, err
	}
	return &o, nil
}

// Create inserts a new learning objective and returns its generated ID
func (r *ObjectiveRepository) Create(ctx context.Context, objective *models.LearningObjective) (string, error) {
	id := uuid.New().String()
	now := time.Now()

	sql, args, err := r.sb.Insert("individual_learning_objectives").
		Columns("id", "student_id", "project_id", "team_id", "objective_description",
			"competency_level", "progress_status", "created_at", "updated_at").
		Values(id, objective.StudentID, objective.ProjectID, objective.TeamID,
			objective.Description, objective.CompetencyLevel, objective.Status, now, now).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create objective SQL")
		return "", err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", objective.StudentID).Msg("Error executing create objective query")
		return "", err
	}

	objective.ID = id
	objective.CreatedAt = now
	objective.UpdatedAt = now
	return id, nil
}

// GetByID retrieves a learning objective by its ID
func (r *ObjectiveRepository) GetByID(ctx context.Context, id string) (*models.LearningObjective, error) {
	sql, args, err := r.selectObjectiveQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get objective by ID SQL")
		return nil, err
	}
	return scanObjective(r.db.QueryRow(ctx, sql, args...))
}

// ListByStudentAndProject retrieves all objectives a student declared for a project
func (r *ObjectiveRepository) ListByStudentAndProject(ctx context.Context, studentID, projectID string) ([]*models.LearningObjective, error) {
	sql, args, err := r.selectObjectiveQuery().
		Where(squirrel.Eq{"student_id": studentID, "project_id": projectID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list objectives SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing list objectives query")
		return nil, err
	}
	defer rows.Close()

	objectives := make([]*models.LearningObjective, 0)
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}
	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating objective rows")
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return objectives, nil
}

// ListWithEvidenceCounts retrieves a student's objectives for a project along
// with the number of evidence artifacts attached to each.
func (r *ObjectiveRepository) ListWithEvidenceCounts(ctx context.Context, studentID, projectID string) ([]*models.ObjectiveProgress, error) {
	sql, args, err := r.sb.Select(
		"o.id", "o.student_id", "o.project_id", "o.team_id", "o.objective_description",
		"o.competency_level", "o.progress_status", "o.created_at", "o.updated_at",
		"count(a.id) as evidence_count",
	).From("individual_learning_objectives o").
		LeftJoin("evidence_artifacts a ON a.learning_objective_id = o.id").
		Where(squirrel.Eq{"o.student_id": studentID, "o.project_id": projectID}).
		GroupBy("o.id").
		OrderBy("o.created_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list objectives with counts SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing list objectives with counts query")
		return nil, err
	}
	defer rows.Close()

	progress := make([]*models.ObjectiveProgress, 0)
	for rows.Next() {
		var p models.ObjectiveProgress
		err := rows.Scan(
			&p.Objective.ID, &p.Objective.StudentID, &p.Objective.ProjectID, &p.Objective.TeamID,
			&p.Objective.Description, &p.Objective.CompetencyLevel, &p.Objective.Status,
			&p.Objective.CreatedAt, &p.Objective.UpdatedAt, &p.EvidenceCount,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning objective progress row")
			return nil, err
		}
		progress = append(progress, &p)
	}
	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating objective progress rows")
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return progress, nil
}

// UpdateDetails updates an objective's description and competency level
func (r *ObjectiveRepository) UpdateDetails(ctx context.Context, objective *models.LearningObjective) error {
	sql, args, err := r.sb.Update("individual_learning_objectives").
		Set("objective_description", objective.Description).
		Set("competency_level", objective.CompetencyLevel).
		Set("progress_status", objective.Status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": objective.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update objective SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("objectiveID", objective.ID).Msg("Error executing update objective query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrObjectiveNotFound
	}

	return nil
}

// UpdateStatus moves an objective to a new lifecycle status
func (r *ObjectiveRepository) UpdateStatus(ctx context.Context, id string, status models.ObjectiveStatus) error {
	sql, args, err := r.sb.Update("individual_learning_objectives").
		Set("progress_status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update objective status SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("objectiveID", id).Msg("Error executing update objective status query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrObjectiveNotFound
	}

	return nil
}

// Delete removes a learning objective by its ID
func (r *ObjectiveRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("individual_learning_objectives").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete objective SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("objectiveID", id).Msg("Error executing delete objective query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrObjectiveNotFound
	}

	return nil
}

// CountByStudentAndProject counts a student's objectives for a project
func (r *ObjectiveRepository) CountByStudentAndProject(ctx context.Context, studentID, projectID string) (int, error) {
	sql, args, err := r.sb.Select("count(*)").
		From("individual_learning_objectives").
		Where(squirrel.Eq{"student_id": studentID, "project_id": projectID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count objectives SQL")
		return 0, err
	}

	var count int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&count)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing count objectives query")
		return 0, err
	}
	return count, nil
}
