package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/pblab/pblab/internal/app/controllers"
	appMigrations "github.com/pblab/pblab/internal/app/migrations"
	appRepos "github.com/pblab/pblab/internal/app/repositories"
	appRoutes "github.com/pblab/pblab/internal/app/routes"
	appServices "github.com/pblab/pblab/internal/app/services"
	"github.com/pblab/pblab/internal/config"
	"github.com/pblab/pblab/internal/db"
	appMiddleware "github.com/pblab/pblab/internal/middleware"
	pkgAuth "github.com/pblab/pblab/internal/pkg/auth"
	"github.com/pblab/pblab/internal/pkg/filestorage"
	"github.com/pblab/pblab/internal/pkg/helpers"
	"github.com/pblab/pblab/internal/pkg/logger"
	"github.com/pblab/pblab/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	ObjectiveService     appServices.ObjectiveService
	ArtifactService      appServices.ArtifactService
	AssessmentService    appServices.AssessmentService
	AuthController       *appControllers.AuthController
	ObjectiveController  *appControllers.ObjectiveController
	ArtifactController   *appControllers.ArtifactController
	AssessmentController *appControllers.AssessmentController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
	FileStorage          *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seed data is a convenience; startup proceeds without it.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// The storage base URL must match the static file serving endpoint.
	var err error
	baseURL := "http://localhost:" + cfg.Server.Port
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path, baseURL+cfg.Storage.BaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
	)
	deps.ObjectiveService = appServices.NewObjectiveService(
		deps.Repos.ObjectiveRepository,
		deps.Repos.ProjectRepository,
	)
	deps.ArtifactService = appServices.NewArtifactService(
		deps.Repos.ArtifactRepository,
		deps.Repos.ObjectiveRepository,
		deps.FileStorage,
	)
	deps.AssessmentService = appServices.NewAssessmentService(
		deps.Repos.AssessmentRepository,
		deps.Repos.ObjectiveRepository,
		deps.Repos.ArtifactRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ObjectiveController = appControllers.NewObjectiveController(deps.ObjectiveService)
	deps.ArtifactController = appControllers.NewArtifactController(deps.ArtifactService)
	deps.AssessmentController = appControllers.NewAssessmentController(deps.AssessmentService)

	startTokenJanitor(deps.Repos.TokenRepository, lgr)

	return deps, nil
}

// startTokenJanitor periodically removes expired refresh tokens.
func startTokenJanitor(tokenRepo *appRepos.TokenRepository, lgr zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := tokenRepo.DeleteExpiredTokens(context.Background())
			if err != nil {
				lgr.Error().Err(err).Msg("Failed to delete expired refresh tokens")
				continue
			}
			if deleted > 0 {
				lgr.Info().Int64("deleted", deleted).Msg("Expired refresh tokens removed")
			}
		}
	}()
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ObjectiveController,
		deps.ArtifactController,
		deps.AssessmentController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
