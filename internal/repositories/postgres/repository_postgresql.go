package postgres

import (
	"github.com/prepnexus/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type repositoryPostgreSQL struct {
	learning   repositories.LearningRepository
	assignment repositories.AssignmentRepository
}

// NewRepository wires the gorm-backed implementations behind the
// aggregate Repository interface.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repositoryPostgreSQL{
		learning:   NewLearningPostgreSQL(db),
		assignment: NewAssignmentPostgreSQL(db),
	}
}

func (r *repositoryPostgreSQL) Learning() repositories.LearningRepository {
	return r.learning
}

func (r *repositoryPostgreSQL) Assignment() repositories.AssignmentRepository {
	return r.assignment
}
