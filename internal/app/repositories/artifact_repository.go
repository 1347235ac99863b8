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

// ArtifactRepository handles database operations for evidence artifacts
type ArtifactRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewArtifactRepository creates a new ArtifactRepository
func NewArtifactRepository(db *pgxpool.Pool) *ArtifactRepository {
	return &ArtifactRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ArtifactRepository) selectArtifactQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"id", "learning_objective_id", "student_id", "type", "title",
		"description", "file_path", "external_url", "upload_date",
	).From("evidence_artifacts")
}

func scanArtifact(row pgx.Row) (*models.EvidenceArtifact, error) {
	var a models.EvidenceArtifact
	var description, filePath, externalURL *string
	err := row.Scan(
		&a.ID, &a.LearningObjectiveID, &a.StudentID, &a.Type, &a.Title,
		&description, &filePath, &externalURL, &a.UploadDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrArtifactNotFound
		}
		logger.Error().Err(err).Msg("Error scanning artifact row")
		return nil, err
	}
	if description != nil {
		a.Description = *description
	}
	if filePath != nil {
		a.FilePath = *filePath
	}
	if externalURL != nil {
		a.ExternalURL = *externalURL
	}
	return &a, nil
}

// Create inserts a new evidence artifact and returns its generated ID
func (r *ArtifactRepository) Create(ctx context.Context, artifact *models.EvidenceArtifact) (string, error) {
	id := uuid.New().String()
	now := time.Now()

	sql, args, err := r.sb.Insert("evidence_artifacts").
		Columns("id", "learning_objective_id", "student_id", "type", "title",
			"description", "file_path", "external_url", "upload_date").
		Values(id, artifact.LearningObjectiveID, artifact.StudentID, artifact.Type,
			artifact.Title, nullableText(artifact.Description), nullableText(artifact.FilePath),
			nullableText(artifact.ExternalURL), now).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create artifact SQL")
		return "", err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("objectiveID", artifact.LearningObjectiveID).Msg("Error executing create artifact query")
		return "", err
	}

	artifact.ID = id
	artifact.UploadDate = now
	return id, nil
}

// GetByID retrieves an evidence artifact by its ID
func (r *ArtifactRepository) GetByID(ctx context.Context, id string) (*models.EvidenceArtifact, error) {
	sql, args, err := r.selectArtifactQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get artifact by ID SQL")
		return nil, err
	}
	return scanArtifact(r.db.QueryRow(ctx, sql, args...))
}

// ListByObjective retrieves all artifacts attached to a learning objective
func (r *ArtifactRepository) ListByObjective(ctx context.Context, objectiveID string) ([]*models.EvidenceArtifact, error) {
	sql, args, err := r.selectArtifactQuery().
		Where(squirrel.Eq{"learning_objective_id": objectiveID}).
		OrderBy("upload_date ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list artifacts SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("objectiveID", objectiveID).Msg("Error executing list artifacts query")
		return nil, err
	}
	defer rows.Close()

	artifacts := make([]*models.EvidenceArtifact, 0)
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	if err = rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating artifact rows")
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return artifacts, nil
}

// CountByStudentAndProject counts the artifacts a student uploaded across all
// of their objectives in a project.
func (r *ArtifactRepository) CountByStudentAndProject(ctx context.Context, studentID, projectID string) (int, error) {
	sql, args, err := r.sb.Select("count(a.id)").
		From("evidence_artifacts a").
		Join("individual_learning_objectives o ON a.learning_objective_id = o.id").
		Where(squirrel.Eq{"a.student_id": studentID, "o.project_id": projectID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count artifacts SQL")
		return 0, err
	}

	var count int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&count)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing count artifacts query")
		return 0, err
	}
	return count, nil
}

// Delete removes an evidence artifact by its ID
func (r *ArtifactRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("evidence_artifacts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete artifact SQL")
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("artifactID", id).Msg("Error executing delete artifact query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrArtifactNotFound
	}

	return nil
}
