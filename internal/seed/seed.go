package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/pblab/pblab/internal/app/models"
	appRepos "github.com/pblab/pblab/internal/app/repositories"
	"github.com/pblab/pblab/internal/pkg/auth"
)

// CreateDefaultData creates the default admin account and a sample project
// so a fresh install is usable immediately.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	projectRepo := appRepos.NewProjectRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	adminID, err := seedUser(ctx, userRepo, lgr, &appModels.UserProfile{
		Email:    "admin@pblab.app",
		FullName: "System Administrator",
		Role:     appModels.RoleAdmin,
	}, "Admin123!")
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if _, err := seedUser(ctx, userRepo, lgr, &appModels.UserProfile{
		Email:    "educator@pblab.app",
		FullName: "Demo Educator",
		Role:     appModels.RoleEducator,
	}, "Educator123!"); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if _, err := seedUser(ctx, userRepo, lgr, &appModels.UserProfile{
		Email:    "student@pblab.app",
		FullName: "Demo Student",
		Role:     appModels.RoleStudent,
	}, "Student123!"); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if adminID != "" {
		if err := seedSampleProject(ctx, projectRepo, lgr, adminID); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

// seedUser creates the user if no account with the email exists yet.
// Returns the user ID either way so later seeds can reference it.
func seedUser(ctx context.Context, userRepo *appRepos.UserRepository, lgr zerolog.Logger, user *appModels.UserProfile, password string) (string, error) {
	existing, err := userRepo.GetByEmail(ctx, user.Email)
	if err == nil {
		lgr.Info().Str("email", user.Email).Msg("Default user already exists, skipping creation")
		return existing.ID, nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error hashing default user password")
		return "", err
	}
	user.Password = hashed

	id, err := userRepo.Create(ctx, user)
	if err != nil {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error creating default user")
		return "", err
	}

	lgr.Info().Str("userID", id).Str("email", user.Email).Str("role", string(user.Role)).Msg("Default user created successfully")
	return id, nil
}

func seedSampleProject(ctx context.Context, projectRepo *appRepos.ProjectRepository, lgr zerolog.Logger, createdBy string) error {
	const sampleCourseID = "00000000-0000-0000-0000-000000000001"

	projects, err := projectRepo.ListByCourse(ctx, sampleCourseID)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for existing sample project")
		return err
	}
	if len(projects) > 0 {
		lgr.Info().Msg("Sample project already exists, skipping creation")
		return nil
	}

	project := &appModels.Project{
		CourseID:    sampleCourseID,
		Title:       "Sustainable Campus Redesign",
		Description: "An introductory project-based learning assignment for exploring the platform.",
		CreatedBy:   createdBy,
	}

	id, err := projectRepo.Create(ctx, project)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating sample project")
		return err
	}

	lgr.Info().Str("projectID", id).Msg("Sample project created successfully")
	return nil
}
