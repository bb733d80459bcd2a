package services

import (
	"context"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
)

// CatalogService exposes the read-only parts of the question bank.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]repositories.CategoryCount, error)
	GetQuestionImage(ctx context.Context, questionID uint) (*QuestionImage, error)
}

type catalogService struct {
	*engine
}

func NewCatalogService(e *engine) CatalogService {
	return &catalogService{engine: e}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]repositories.CategoryCount, error) {
	categories, err := s.repo.Categories().ListWithQuestionCounts(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	if categories == nil {
		categories = []repositories.CategoryCount{}
	}
	return categories, nil
}

func (s *catalogService) GetQuestionImage(ctx context.Context, questionID uint) (*QuestionImage, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, storeError("get question", err)
	}
	if !question.HasImage() {
		return nil, ErrImageNotFound
	}

	contentType := models.DefaultImageContentType
	if question.ImageContentType != nil && *question.ImageContentType != "" {
		contentType = *question.ImageContentType
	}
	return &QuestionImage{Data: question.Image, ContentType: contentType}, nil
}
