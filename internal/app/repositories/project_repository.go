package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/pkg/apperrors"
	"github.com/pblab/pblab/internal/pkg/logger"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new project and returns its generated ID
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) (string, error) {
	id := uuid.New().String()
	now := time.Now()

	sql, args, err := r.sb.Insert("projects").
		Columns("id", "course_id", "title", "description", "created_by", "created_at", "updated_at").
		Values(id, project.CourseID, project.Title, project.Description, project.CreatedBy, now, now).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create project SQL")
		return "", err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create project query")
		return "", err
	}

	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return id, nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	sql, args, err := r.sb.Select("id", "course_id", "title", "description", "created_by", "created_at", "updated_at").
		From("projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get project by ID SQL")
		return nil, err
	}

	var p models.Project
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.CourseID, &p.Title, &p.Description, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		logger.Error().Err(err).Str("projectID", id).Msg("Error scanning project row")
		return nil, err
	}
	return &p, nil
}

// ListByCourse retrieves all projects belonging to a course
func (r *ProjectRepository) ListByCourse(ctx context.Context, courseID string) ([]*models.Project, error) {
	sql, args, err := r.sb.Select("id", "course_id", "title", "description", "created_by", "created_at", "updated_at").
		From("projects").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list projects by course SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", courseID).Msg("Error executing list projects by course query")
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.CourseID, &p.Title, &p.Description, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning project row")
			return nil, err
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating project rows")
		return nil, err
	}
	return projects, nil
}

// Exists checks whether a project with the given ID exists
func (r *ProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("projects").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building project exists SQL")
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Str("projectID", id).Msg("Error executing project exists query")
		return false, err
	}
	return true, nil
}
