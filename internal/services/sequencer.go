package services

import (
	"context"
	"math/rand"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
)

// Sequencer freezes the question order of a session the first time it is
// asked for and returns that same order on every later call.
type Sequencer struct {
	questions repositories.QuestionRepository
	sequences repositories.SequenceRepository
	logger    *ServiceLogger
	shuffle   func(ids []uint)
}

func NewSequencer(questions repositories.QuestionRepository, sequences repositories.SequenceRepository, logger *ServiceLogger) *Sequencer {
	return &Sequencer{
		questions: questions,
		sequences: sequences,
		logger:    logger,
		shuffle: func(ids []uint) {
			rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		},
	}
}

// Lookup returns the frozen sequence, or ok == false when none exists yet.
func (s *Sequencer) Lookup(ctx context.Context, sessionID uint) (ids []uint, ok bool, err error) {
	ids, err = s.sequences.Get(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, storeError("get sequence", err)
	}
	return ids, true, nil
}

// GetOrCreateSequence returns the frozen sequence of the session, building it
// from the filtered question pool when it does not exist. An empty pool yields
// an empty slice and nothing is stored.
func (s *Sequencer) GetOrCreateSequence(ctx context.Context, session *models.QuizSession) ([]uint, error) {
	ids, ok, err := s.Lookup(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if ok {
		return ids, nil
	}

	filters := repositories.QuestionFilters{
		CategoryIDs: []uint(session.SelectedCategories),
		Difficulty:  session.Difficulty,
	}
	pool, err := s.questions.ListIDs(ctx, filters)
	if err != nil {
		return nil, storeError("list question pool", err)
	}
	if len(pool) == 0 {
		return []uint{}, nil
	}

	candidate := make([]uint, len(pool))
	copy(candidate, pool)
	s.shuffle(candidate)
	if session.NumberOfQuestions > 0 && len(candidate) > session.NumberOfQuestions {
		candidate = candidate[:session.NumberOfQuestions]
	}

	frozen, err := s.sequences.CreateIfAbsent(ctx, session.ID, candidate)
	if err != nil {
		return nil, storeError("freeze sequence", err)
	}

	s.logger.LogDebug(ctx, "Question sequence frozen",
		"session_id", session.ID,
		"pool_size", len(pool),
		"length", len(frozen))

	return frozen, nil
}
