package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	ProjectRepository    *ProjectRepository
	ObjectiveRepository  *ObjectiveRepository
	ArtifactRepository   *ArtifactRepository
	AssessmentRepository *AssessmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		ProjectRepository:    NewProjectRepository(db),
		ObjectiveRepository:  NewObjectiveRepository(db),
		ArtifactRepository:   NewArtifactRepository(db),
		AssessmentRepository: NewAssessmentRepository(db),
	}
}

// nullableText maps an empty string to SQL NULL so optional text columns with
// NULL-based constraints never receive an empty string.
func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
