package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
)

// QuestionRepository is the read side of the question bank plus the writes the
// seeder needs.
type QuestionRepository interface {
	// Lookups
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)

	// Filtered pool, ordered by id
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, error)
	ListIDs(ctx context.Context, filters QuestionFilters) ([]uint, error)

	Create(ctx context.Context, question *models.Question) error
}

// CategoryRepository interface for question category operations
type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error

	// Only categories holding at least one question are returned.
	ListWithQuestionCounts(ctx context.Context) ([]CategoryCount, error)
}
