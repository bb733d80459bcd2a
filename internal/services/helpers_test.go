package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/events"
	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories/memory"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store     *memory.Store
	clock     *testClock
	publisher *events.MockEventPublisher
	services  ServiceManager

	science   *models.Category
	empty     *models.Category
	questions map[uint]*models.Question
}

var (
	alice = Identity{UserID: 101}
	bob   = Identity{UserID: 202}
	admin = Identity{UserID: 303, IsAdmin: true}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture seeds a "Science" category holding n questions whose correct
// option cycles through Option1..Option4 and whose difficulty cycles through
// Easy, Medium, Hard. A second category has no questions.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		store:     memory.NewStore(),
		clock:     newTestClock(),
		publisher: events.NewMockEventPublisher(testLogger()),
		questions: make(map[uint]*models.Question),
	}

	f.science = &models.Category{Name: "Science", Description: "Physics and chemistry"}
	require.NoError(t, f.store.Categories().Create(ctx, f.science))
	f.empty = &models.Category{Name: "Empty"}
	require.NoError(t, f.store.Categories().Create(ctx, f.empty))

	difficulties := []models.DifficultyLevel{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	for i := 0; i < n; i++ {
		q := &models.Question{
			CategoryID:    f.science.ID,
			Text:          "Question " + string(rune('A'+i)),
			Option1:       "first",
			Option2:       "second",
			Option3:       "third",
			Option4:       "fourth",
			CorrectOption: models.OptionTags[i%4],
			Difficulty:    difficulties[i%3],
		}
		require.NoError(t, f.store.Questions().Create(ctx, q))
		f.questions[q.ID] = q
	}

	f.services = NewServiceManager(Dependencies{
		Repo:      f.store,
		Publisher: f.publisher,
		Logger:    testLogger(),
		Now:       f.clock.Now,
	})
	return f
}

func (f *fixture) createSession(t *testing.T, identity Identity, count, minutes int) *SessionResponse {
	t.Helper()
	session, err := f.services.Session().CreateSession(context.Background(), identity, &CreateSessionRequest{
		Title:             "Morning quiz",
		NumberOfQuestions: count,
		TimeLimit:         minutes,
		CategoryIDs:       []uint{f.science.ID},
	})
	require.NoError(t, err)
	return session
}

// correctOption returns the right answer for questionID.
func (f *fixture) correctOption(questionID uint) models.OptionTag {
	return f.questions[questionID].CorrectOption
}

// wrongOption returns an answer that is not right for questionID.
func (f *fixture) wrongOption(questionID uint) models.OptionTag {
	for _, tag := range models.OptionTags {
		if tag != f.questions[questionID].CorrectOption {
			return tag
		}
	}
	return ""
}

// sequenceOf freezes and returns the session's question order.
func (f *fixture) sequenceOf(t *testing.T, identity Identity, sessionID uint) []uint {
	t.Helper()
	view, err := f.services.Session().FetchQuestion(context.Background(), identity, sessionID, 0)
	require.NoError(t, err)
	require.False(t, view.Completed)
	return view.QuestionIDs
}
