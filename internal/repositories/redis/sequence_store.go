package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"github.com/redis/go-redis/v9"
)

// SequenceStore keeps frozen question sequences in Redis, one string key per
// session: quiz:session:{id}:sequence -> JSON array of question ids.
// Keys never expire: a sequence lives as long as its session.
type SequenceStore struct {
	client *redis.Client
}

func NewSequenceStore(client *redis.Client) *SequenceStore {
	return &SequenceStore{client: client}
}

var _ repositories.SequenceRepository = (*SequenceStore)(nil)

func (s *SequenceStore) Get(ctx context.Context, sessionID uint) ([]uint, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return decodeSequence(raw)
}

// CreateIfAbsent uses SETNX so only the first writer stores its order.
func (s *SequenceStore) CreateIfAbsent(ctx context.Context, sessionID uint, questionIDs []uint) ([]uint, error) {
	if questionIDs == nil {
		questionIDs = []uint{}
	}
	payload, err := json.Marshal(questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sequence: %w", err)
	}

	stored, err := s.client.SetNX(ctx, s.key(sessionID), payload, 0).Result()
	if err != nil {
		return nil, err
	}
	if stored {
		return append([]uint(nil), questionIDs...), nil
	}
	return s.Get(ctx, sessionID)
}

func (s *SequenceStore) key(sessionID uint) string {
	return "quiz:session:" + strconv.FormatUint(uint64(sessionID), 10) + ":sequence"
}

func decodeSequence(raw []byte) ([]uint, error) {
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode sequence: %w", err)
	}
	return ids, nil
}
