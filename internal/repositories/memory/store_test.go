package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, store *Store) *models.QuizSession {
	t.Helper()
	session := &models.QuizSession{
		UserID:             1,
		Title:              "History",
		StartTime:          time.Now(),
		TimeLimit:          30,
		NumberOfQuestions:  5,
		SelectedCategories: []uint{1},
		MaxPossibleScore:   5,
	}
	require.NoError(t, store.Sessions().Create(context.Background(), session))
	return session
}

func TestSequenceStore_CreateIfAbsentKeepsFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([][]uint, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids, err := store.Sequences().CreateIfAbsent(ctx, 1, []uint{uint(i), uint(i + 100)})
			assert.NoError(t, err)
			results[i] = ids
		}(i)
	}
	wg.Wait()

	stored, err := store.Sequences().Get(ctx, 1)
	require.NoError(t, err)
	for _, ids := range results {
		assert.Equal(t, stored, ids)
	}
}

func TestSessionStore_FinalizeIsIdempotent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	session := seedSession(t, store)

	require.NoError(t, store.Answers().Upsert(ctx, &models.UserAnswer{SessionID: session.ID, QuestionID: 10, SelectedOption: models.Option1, IsCorrect: true}))
	require.NoError(t, store.Answers().Upsert(ctx, &models.UserAnswer{SessionID: session.ID, QuestionID: 11, SelectedOption: models.Option2, IsCorrect: false}))

	end := time.Now()
	won, err := store.Sessions().Finalize(ctx, session.ID, end)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.Sessions().Finalize(ctx, session.ID, end.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, won)

	got, err := store.Sessions().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, 1, got.TotalScore)
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(end))
}

func TestSessionStore_SetMaxPossibleScoreSkipsCompleted(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	session := seedSession(t, store)

	require.NoError(t, store.Sessions().SetMaxPossibleScore(ctx, session.ID, 2))
	_, err := store.Sessions().Finalize(ctx, session.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Sessions().SetMaxPossibleScore(ctx, session.ID, 1))

	got, err := store.Sessions().GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MaxPossibleScore)
}

func TestAnswerStore_UpsertOverwrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := &models.UserAnswer{SessionID: 1, QuestionID: 2, SelectedOption: models.Option1, IsCorrect: false}
	require.NoError(t, store.Answers().Upsert(ctx, first))
	second := &models.UserAnswer{SessionID: 1, QuestionID: 2, SelectedOption: models.Option3, IsCorrect: true}
	require.NoError(t, store.Answers().Upsert(ctx, second))

	answers, err := store.Answers().GetBySession(ctx, 1)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, models.Option3, answers[0].SelectedOption)
	assert.Equal(t, first.ID, second.ID)

	count, err := store.Answers().CountCorrect(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestQuestionStore_Filters(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	science := &models.Category{Name: "Science"}
	history := &models.Category{Name: "History"}
	require.NoError(t, store.Categories().Create(ctx, science))
	require.NoError(t, store.Categories().Create(ctx, history))

	easy := models.DifficultyEasy
	for i, entry := range []struct {
		category   uint
		difficulty models.DifficultyLevel
	}{
		{science.ID, models.DifficultyEasy},
		{science.ID, models.DifficultyHard},
		{history.ID, models.DifficultyEasy},
	} {
		require.NoError(t, store.Questions().Create(ctx, &models.Question{
			CategoryID:    entry.category,
			Text:          "question",
			Option1:       "a",
			Option2:       "b",
			Option3:       "c",
			Option4:       "d",
			CorrectOption: models.OptionTags[i],
			Difficulty:    entry.difficulty,
		}))
	}

	ids, err := store.Questions().ListIDs(ctx, repositories.QuestionFilters{CategoryIDs: []uint{science.ID}})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	ids, err = store.Questions().ListIDs(ctx, repositories.QuestionFilters{CategoryIDs: []uint{science.ID, history.ID}, Difficulty: &easy})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	counts, err := store.Categories().ListWithQuestionCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "History", counts[0].Name)
	assert.Equal(t, int64(1), counts[0].QuestionCount)
	assert.Equal(t, int64(2), counts[1].QuestionCount)
}

func TestUserStore_UpsertByExternalID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &models.User{ExternalID: "ext-1", Username: "alice"}
	require.NoError(t, store.Users().Upsert(ctx, user))
	id := user.ID

	again := &models.User{ExternalID: "ext-1", Username: "alice2", IsAdmin: true}
	require.NoError(t, store.Users().Upsert(ctx, again))
	assert.Equal(t, id, again.ID)

	got, err := store.Users().GetByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.True(t, got.IsAdmin)
}
