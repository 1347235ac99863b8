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
	"github.com/pblab/pblab/internal/pkg/dberrors"
	"github.com/pblab/pblab/internal/pkg/logger"
)

// UserRepository handles database operations for user profiles
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user profile and returns its generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.UserProfile) (string, error) {
	id := uuid.New().String()
	now := time.Now()

	sql, args, err := r.sb.Insert("user_profiles").
		Columns("id", "email", "password", "full_name", "role", "created_at", "updated_at").
		Values(id, user.Email, user.Password, user.FullName, user.Role, now, now).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return "", fmt.Errorf("failed to build create user query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "user_profiles_email_key") {
			return "", apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return "", fmt.Errorf("error creating user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return id, nil
}

// GetByID retrieves a user profile by its ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	sql, args, err := r.selectUserQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by ID SQL")
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetByEmail retrieves a user profile by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	sql, args, err := r.selectUserQuery().Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by email SQL")
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// EmailExists checks whether a profile with the given email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("user_profiles").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building email exists SQL")
		return false, err
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Str("email", email).Msg("Error executing email exists query")
		return false, err
	}
	return true, nil
}

func (r *UserRepository) selectUserQuery() squirrel.SelectBuilder {
	return r.sb.Select("id", "email", "password", "full_name", "role", "created_at", "updated_at").
		From("user_profiles")
}

func scanUser(row pgx.Row) (*models.UserProfile, error) {
	var u models.UserProfile
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, err
	}
	return &u, nil
}
