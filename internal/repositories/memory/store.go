package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
)

type answerKey struct {
	sessionID  uint
	questionID uint
}

// Store is an in-memory implementation of repositories.Repository. All records
// are copied on the way in and out so callers never share state with the store.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	nextID uint

	users      map[uint]*models.User
	categories map[uint]*models.Category
	questions  map[uint]*models.Question
	sessions   map[uint]*models.QuizSession
	sequences  map[uint][]uint
	answers    map[answerKey]*models.UserAnswer
}

func NewStore() *Store {
	return &Store{
		users:      make(map[uint]*models.User),
		categories: make(map[uint]*models.Category),
		questions:  make(map[uint]*models.Question),
		sessions:   make(map[uint]*models.QuizSession),
		sequences:  make(map[uint][]uint),
		answers:    make(map[answerKey]*models.UserAnswer),
	}
}

func (s *Store) Questions() repositories.QuestionRepository  { return questionStore{s} }
func (s *Store) Categories() repositories.CategoryRepository { return categoryStore{s} }
func (s *Store) Sessions() repositories.SessionRepository    { return sessionStore{s} }
func (s *Store) Sequences() repositories.SequenceRepository  { return sequenceStore{s} }
func (s *Store) Answers() repositories.AnswerRepository      { return answerStore{s} }
func (s *Store) Users() repositories.UserRepository          { return userStore{s} }

// Transaction serializes fn against other transactions and finalization. It
// does not roll back writes made before fn returns an error.
func (s *Store) Transaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

// must hold mu
func (s *Store) allocID() uint {
	s.nextID++
	return s.nextID
}

// ===== QUESTIONS =====

type questionStore struct{ s *Store }

func (q questionStore) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	question, ok := q.s.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return q.s.copyQuestion(question, true), nil
}

func (q questionStore) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	questions := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		if question, ok := q.s.questions[id]; ok {
			questions = append(questions, q.s.copyQuestion(question, false))
		}
	}
	return questions, nil
}

func (q questionStore) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	var questions []*models.Question
	for _, id := range q.s.filteredIDs(filters) {
		questions = append(questions, q.s.copyQuestion(q.s.questions[id], false))
	}
	return questions, nil
}

func (q questionStore) ListIDs(ctx context.Context, filters repositories.QuestionFilters) ([]uint, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	return q.s.filteredIDs(filters), nil
}

func (q questionStore) Create(ctx context.Context, question *models.Question) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	now := time.Now()
	question.ID = q.s.allocID()
	question.CreatedAt = now
	question.UpdatedAt = now
	stored := *question
	stored.Category = nil
	q.s.questions[question.ID] = &stored
	return nil
}

// must hold mu
func (s *Store) filteredIDs(filters repositories.QuestionFilters) []uint {
	categories := make(map[uint]bool, len(filters.CategoryIDs))
	for _, id := range filters.CategoryIDs {
		categories[id] = true
	}
	ids := make([]uint, 0)
	for id, question := range s.questions {
		if len(categories) > 0 && !categories[question.CategoryID] {
			continue
		}
		if filters.Difficulty != nil && question.Difficulty != *filters.Difficulty {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// must hold mu
func (s *Store) copyQuestion(question *models.Question, withImage bool) *models.Question {
	out := *question
	if withImage && question.Image != nil {
		out.Image = append([]byte(nil), question.Image...)
	} else {
		out.Image = nil
	}
	if category, ok := s.categories[question.CategoryID]; ok {
		c := *category
		out.Category = &c
	}
	return &out
}

// ===== CATEGORIES =====

type categoryStore struct{ s *Store }

func (c categoryStore) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	category, ok := c.s.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *category
	return &out, nil
}

func (c categoryStore) GetByName(ctx context.Context, name string) (*models.Category, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	for _, category := range c.s.categories {
		if category.Name == name {
			out := *category
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (c categoryStore) Create(ctx context.Context, category *models.Category) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	now := time.Now()
	category.ID = c.s.allocID()
	category.CreatedAt = now
	category.UpdatedAt = now
	stored := *category
	stored.Questions = nil
	c.s.categories[category.ID] = &stored
	return nil
}

func (c categoryStore) ListWithQuestionCounts(ctx context.Context) ([]repositories.CategoryCount, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	counts := make(map[uint]int64)
	for _, question := range c.s.questions {
		counts[question.CategoryID]++
	}
	var result []repositories.CategoryCount
	for id, count := range counts {
		category, ok := c.s.categories[id]
		if !ok {
			continue
		}
		result = append(result, repositories.CategoryCount{
			CategoryID:    id,
			Name:          category.Name,
			Description:   category.Description,
			QuestionCount: count,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ===== SESSIONS =====

type sessionStore struct{ s *Store }

func (ss sessionStore) Create(ctx context.Context, session *models.QuizSession) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	now := time.Now()
	session.ID = ss.s.allocID()
	session.CreatedAt = now
	session.UpdatedAt = now
	ss.s.sessions[session.ID] = copySession(session)
	return nil
}

func (ss sessionStore) GetByID(ctx context.Context, id uint) (*models.QuizSession, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()
	session, ok := ss.s.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copySession(session), nil
}

// GetByIDForUpdate relies on Transaction holding txMu.
func (ss sessionStore) GetByIDForUpdate(ctx context.Context, id uint) (*models.QuizSession, error) {
	return ss.GetByID(ctx, id)
}

func (ss sessionStore) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.QuizSession, int64, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()
	var sessions []*models.QuizSession
	for _, session := range ss.s.sessions {
		if session.UserID == userID {
			sessions = append(sessions, copySession(session))
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartTime.Equal(sessions[j].StartTime) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	total := int64(len(sessions))
	if offset > 0 {
		if offset >= len(sessions) {
			return []*models.QuizSession{}, total, nil
		}
		sessions = sessions[offset:]
	}
	if limit > 0 && limit < len(sessions) {
		sessions = sessions[:limit]
	}
	return sessions, total, nil
}

func (ss sessionStore) SetMaxPossibleScore(ctx context.Context, id uint, maxScore int) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	session, ok := ss.s.sessions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if session.IsCompleted {
		return nil
	}
	session.MaxPossibleScore = maxScore
	return nil
}

func (ss sessionStore) Finalize(ctx context.Context, id uint, endTime time.Time) (bool, error) {
	ss.s.txMu.Lock()
	defer ss.s.txMu.Unlock()
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	session, ok := ss.s.sessions[id]
	if !ok || session.IsCompleted {
		return false, nil
	}
	score := 0
	for key, answer := range ss.s.answers {
		if key.sessionID == id && answer.IsCorrect {
			score++
		}
	}
	end := endTime
	session.IsCompleted = true
	session.EndTime = &end
	session.TotalScore = score
	session.UpdatedAt = time.Now()
	return true, nil
}

func (ss sessionStore) TopCompleted(ctx context.Context, limit int) ([]repositories.SessionSummary, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()
	var summaries []repositories.SessionSummary
	for _, session := range ss.s.sessions {
		if !session.IsCompleted {
			continue
		}
		summary := repositories.SessionSummary{
			SessionID:        session.ID,
			UserID:           session.UserID,
			Title:            session.Title,
			TotalScore:       session.TotalScore,
			MaxPossibleScore: session.MaxPossibleScore,
			EndTime:          session.EndTime,
		}
		if user, ok := ss.s.users[session.UserID]; ok {
			summary.Username = user.Username
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalScore != summaries[j].TotalScore {
			return summaries[i].TotalScore > summaries[j].TotalScore
		}
		return summaries[i].EndTime.After(*summaries[j].EndTime)
	})
	if limit > 0 && limit < len(summaries) {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func copySession(session *models.QuizSession) *models.QuizSession {
	out := *session
	out.SelectedCategories = append([]uint(nil), session.SelectedCategories...)
	if session.EndTime != nil {
		end := *session.EndTime
		out.EndTime = &end
	}
	if session.Difficulty != nil {
		difficulty := *session.Difficulty
		out.Difficulty = &difficulty
	}
	out.User = nil
	out.Sequence = nil
	out.Answers = nil
	return &out
}

// ===== SEQUENCES =====

type sequenceStore struct{ s *Store }

func (q sequenceStore) Get(ctx context.Context, sessionID uint) ([]uint, error) {
	q.s.mu.RLock()
	defer q.s.mu.RUnlock()
	ids, ok := q.s.sequences[sessionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return append([]uint(nil), ids...), nil
}

func (q sequenceStore) CreateIfAbsent(ctx context.Context, sessionID uint, questionIDs []uint) ([]uint, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if existing, ok := q.s.sequences[sessionID]; ok {
		return append([]uint(nil), existing...), nil
	}
	q.s.sequences[sessionID] = append([]uint(nil), questionIDs...)
	return append([]uint(nil), questionIDs...), nil
}

// ===== ANSWERS =====

type answerStore struct{ s *Store }

func (a answerStore) Upsert(ctx context.Context, answer *models.UserAnswer) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	key := answerKey{sessionID: answer.SessionID, questionID: answer.QuestionID}
	if existing, ok := a.s.answers[key]; ok {
		answer.ID = existing.ID
	} else {
		answer.ID = a.s.allocID()
	}
	stored := *answer
	stored.Question = nil
	a.s.answers[key] = &stored
	return nil
}

func (a answerStore) GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.UserAnswer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	answer, ok := a.s.answers[answerKey{sessionID: sessionID, questionID: questionID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *answer
	return &out, nil
}

func (a answerStore) GetBySession(ctx context.Context, sessionID uint) ([]*models.UserAnswer, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var answers []*models.UserAnswer
	for key, answer := range a.s.answers {
		if key.sessionID == sessionID {
			out := *answer
			answers = append(answers, &out)
		}
	}
	sort.Slice(answers, func(i, j int) bool {
		if answers[i].AnsweredAt.Equal(answers[j].AnsweredAt) {
			return answers[i].ID < answers[j].ID
		}
		return answers[i].AnsweredAt.Before(answers[j].AnsweredAt)
	})
	return answers, nil
}

func (a answerStore) CountCorrect(ctx context.Context, sessionID uint) (int64, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var count int64
	for key, answer := range a.s.answers {
		if key.sessionID == sessionID && answer.IsCorrect {
			count++
		}
	}
	return count, nil
}

// ===== USERS =====

type userStore struct{ s *Store }

func (u userStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (u userStore) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, user := range u.s.users {
		if user.ExternalID == externalID {
			out := *user
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (u userStore) Upsert(ctx context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	now := time.Now()
	for _, existing := range u.s.users {
		if existing.ExternalID == user.ExternalID {
			existing.Username = user.Username
			existing.IsAdmin = user.IsAdmin
			existing.LastLoginAt = user.LastLoginAt
			existing.UpdatedAt = now
			*user = *existing
			return nil
		}
	}
	user.ID = u.s.allocID()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	u.s.users[user.ID] = &stored
	return nil
}
