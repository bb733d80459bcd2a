package postgres

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm backed implementation of repositories.Repository.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Questions() repositories.QuestionRepository {
	return NewQuestionPostgreSQL(r.db)
}

func (r *Repository) Categories() repositories.CategoryRepository {
	return NewCategoryPostgreSQL(r.db)
}

func (r *Repository) Sessions() repositories.SessionRepository {
	return NewSessionPostgreSQL(r.db)
}

func (r *Repository) Sequences() repositories.SequenceRepository {
	return NewSequencePostgreSQL(r.db)
}

func (r *Repository) Answers() repositories.AnswerRepository {
	return NewAnswerPostgreSQL(r.db)
}

func (r *Repository) Users() repositories.UserRepository {
	return NewUserPostgreSQL(r.db)
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}
