package cache

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"golang.org/x/sync/singleflight"
)

const questionIDsPrefix = "questions:ids:"

// CachedQuestionRepository caches filtered question id pools. Every other call
// goes straight to the wrapped repository. Cache errors are logged and never
// returned.
type CachedQuestionRepository struct {
	repositories.QuestionRepository

	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
	sf     singleflight.Group
}

func NewCachedQuestionRepository(inner repositories.QuestionRepository, cache CacheService, ttl time.Duration, logger *slog.Logger) *CachedQuestionRepository {
	return &CachedQuestionRepository{
		QuestionRepository: inner,
		cache:              cache,
		ttl:                ttl,
		logger:             logger,
	}
}

func (r *CachedQuestionRepository) ListIDs(ctx context.Context, filters repositories.QuestionFilters) ([]uint, error) {
	key := QuestionIDsKey(filters)

	var ids []uint
	err := r.cache.Get(ctx, key, &ids)
	if err == nil {
		return ids, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("Question cache read failed", "key", key, "error", err)
	}

	// Shared by every waiter on key, so not bound to the first caller.
	loadCtx := context.WithoutCancel(ctx)
	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		ids, err := r.QuestionRepository.ListIDs(loadCtx, filters)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(loadCtx, key, ids, r.ttl); err != nil {
			r.logger.Warn("Question cache write failed", "key", key, "error", err)
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]uint(nil), result.([]uint)...), nil
}

func (r *CachedQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if err := r.QuestionRepository.Create(ctx, question); err != nil {
		return err
	}
	r.Invalidate(ctx)
	return nil
}

// Invalidate drops every cached pool.
func (r *CachedQuestionRepository) Invalidate(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, questionIDsPrefix+"*"); err != nil {
		r.logger.Warn("Question cache invalidation failed", "error", err)
	}
}

// QuestionIDsKey builds a key that does not depend on category order.
func QuestionIDsKey(filters repositories.QuestionFilters) string {
	categories := append([]uint(nil), filters.CategoryIDs...)
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	parts := make([]string, len(categories))
	for i, id := range categories {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}

	difficulty := "any"
	if filters.Difficulty != nil {
		difficulty = string(*filters.Difficulty)
	}
	return questionIDsPrefix + strings.Join(parts, ",") + ":" + difficulty
}
