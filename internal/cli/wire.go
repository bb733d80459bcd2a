package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-session-service/internal/cache"
	"github.com/SAP-F-2025/quiz-session-service/internal/config"
	"github.com/SAP-F-2025/quiz-session-service/internal/events"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories/postgres"
	redisstore "github.com/SAP-F-2025/quiz-session-service/internal/repositories/redis"
	"github.com/SAP-F-2025/quiz-session-service/pkg"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// stores is the storage wiring selected by configuration.
type stores struct {
	repo      repositories.Repository
	questions repositories.QuestionRepository
	sequences repositories.SequenceRepository

	db    *gorm.DB
	redis *redis.Client
}

func (s *stores) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	s := &stores{}

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		s.repo = memory.NewStore()
	case config.StorageDriverPostgres:
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		s.db = db
		s.repo = postgres.NewRepository(db)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	client, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.redis = client

	s.questions = s.repo.Questions()
	if client != nil {
		logger.Info("Caching question pools in redis", "ttl", cfg.QuestionCacheTTL)
		s.questions = cache.NewCachedQuestionRepository(
			s.questions,
			cache.NewRedisCache(client, logger),
			cfg.QuestionCacheTTL,
			logger,
		)
	}

	s.sequences = s.repo.Sequences()
	switch cfg.SequenceStore {
	case config.SequenceStorePostgres:
	case config.SequenceStoreRedis:
		if client == nil {
			s.Close()
			return nil, fmt.Errorf("SEQUENCE_STORE=redis requires REDIS_URL")
		}
		s.sequences = redisstore.NewSequenceStore(client)
	default:
		s.Close()
		return nil, fmt.Errorf("unknown SEQUENCE_STORE %q", cfg.SequenceStore)
	}

	return s, nil
}

func newPublisher(cfg *config.Config, logger *slog.Logger) (events.EventPublisher, error) {
	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	return publisher, nil
}
