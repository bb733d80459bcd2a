package postgres

import (
	"context"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).Preload("Category").First(&question, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

// GetByIDs loads questions without their image payload.
func (q QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	var questions []*models.Question
	if len(ids) == 0 {
		return questions, nil
	}
	if err := q.db.WithContext(ctx).
		Omit("image").
		Preload("Category").
		Where("id IN ?", ids).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.applyFilters(q.db.WithContext(ctx).Omit("image").Preload("Category"), filters).
		Order("id").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q QuestionPostgreSQL) ListIDs(ctx context.Context, filters repositories.QuestionFilters) ([]uint, error) {
	var ids []uint
	if err := q.applyFilters(q.db.WithContext(ctx).Model(&models.Question{}), filters).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (q QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if len(filters.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filters.CategoryIDs)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	return query
}

type CategoryPostgreSQL struct {
	db *gorm.DB
}

func NewCategoryPostgreSQL(db *gorm.DB) repositories.CategoryRepository {
	return &CategoryPostgreSQL{db: db}
}

func (c CategoryPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := c.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

func (c CategoryPostgreSQL) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := c.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

func (c CategoryPostgreSQL) Create(ctx context.Context, category *models.Category) error {
	return c.db.WithContext(ctx).Create(category).Error
}

func (c CategoryPostgreSQL) ListWithQuestionCounts(ctx context.Context) ([]repositories.CategoryCount, error) {
	var counts []repositories.CategoryCount
	err := c.db.WithContext(ctx).
		Table("categories AS c").
		Select("c.id AS category_id, c.name, c.description, COUNT(q.id) AS question_count").
		Joins("JOIN questions q ON q.category_id = c.id").
		Group("c.id, c.name, c.description").
		Having("COUNT(q.id) > 0").
		Order("c.name").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
