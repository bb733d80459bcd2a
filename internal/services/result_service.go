package services

import (
	"context"
	"math"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
)

const (
	defaultTopScoresLimit = 5
	maxTopScoresLimit     = 50
)

// ResultService projects finished (or running) sessions into score reports.
type ResultService interface {
	GetResult(ctx context.Context, identity Identity, sessionID uint) (*SessionResult, error)
	TopScores(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
}

type resultService struct {
	*engine
}

func NewResultService(e *engine) ResultService {
	return &resultService{engine: e}
}

func (s *resultService) GetResult(ctx context.Context, identity Identity, sessionID uint) (*SessionResult, error) {
	log := s.svcLogger.WithOperation(ctx, "get_result", identity.UserID)

	result, err := s.buildResult(ctx, identity, sessionID)
	log.LogResult(sessionID, "quiz_session", err)
	return result, err
}

func (s *resultService) buildResult(ctx context.Context, identity Identity, sessionID uint) (*SessionResult, error) {
	session, err := s.loadSession(ctx, identity, sessionID, true)
	if err != nil {
		return nil, err
	}
	if session, err = s.enforceDeadline(ctx, session); err != nil {
		return nil, err
	}

	sequence, hasSequence, err := s.sequencer.Lookup(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	answers, err := s.repo.Answers().GetBySession(ctx, session.ID)
	if err != nil {
		return nil, storeError("get answers", err)
	}
	byQuestion := make(map[uint]*models.UserAnswer, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = answer
	}

	order := sequence
	total := len(sequence)
	if !hasSequence {
		order = make([]uint, 0, len(answers))
		for _, answer := range answers {
			order = append(order, answer.QuestionID)
		}
		total = session.MaxPossibleScore
	}

	questions, err := s.questions.GetByIDs(ctx, order)
	if err != nil {
		return nil, storeError("get questions", err)
	}
	questionsByID := make(map[uint]*models.Question, len(questions))
	for _, question := range questions {
		questionsByID[question.ID] = question
	}

	correct := 0
	for _, answer := range answers {
		if answer.IsCorrect {
			correct++
		}
	}
	unanswered := total - len(answers)
	if unanswered < 0 {
		unanswered = 0
	}

	end := s.now()
	if session.EndTime != nil {
		end = *session.EndTime
	}
	elapsed := int(end.Sub(session.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	result := &SessionResult{
		SessionID:        session.ID,
		Title:            session.Title,
		IsCompleted:      session.IsCompleted,
		TotalQuestions:   total,
		Correct:          correct,
		Wrong:            len(answers) - correct,
		Unanswered:       unanswered,
		Percentage:       percentage(correct, total),
		TotalScore:       session.TotalScore,
		MaxPossibleScore: session.MaxPossibleScore,
		StartTime:        session.StartTime,
		EndTime:          session.EndTime,
		TimeTakenSeconds: elapsed,
		Breakdown:        make([]*QuestionResult, 0, len(order)),
	}

	for _, questionID := range order {
		row := &QuestionResult{QuestionID: questionID}
		question, ok := questionsByID[questionID]
		if ok {
			row.Text = question.Text
			row.CategoryName = question.CategoryName()
			row.Difficulty = question.Difficulty
		} else {
			s.logger.Error("Result references a missing question",
				"session_id", session.ID,
				"question_id", questionID)
		}

		if answer, answered := byQuestion[questionID]; answered {
			selected := answer.SelectedOption
			row.Answered = true
			row.SelectedOption = &selected
			row.IsCorrect = answer.IsCorrect
			row.TimeTaken = answer.TimeTaken
			if ok {
				row.SelectedText = question.OptionText(selected)
			}
		}

		// The answer key is only revealed once the session can no longer change.
		if session.IsCompleted && ok {
			correctOption := question.CorrectOption
			row.CorrectOption = &correctOption
			row.CorrectAnswerText = question.OptionText(correctOption)
		}

		result.Breakdown = append(result.Breakdown, row)
	}

	return result, nil
}

func (s *resultService) TopScores(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultTopScoresLimit
	}
	if limit > maxTopScoresLimit {
		limit = maxTopScoresLimit
	}

	summaries, err := s.repo.Sessions().TopCompleted(ctx, limit)
	if err != nil {
		return nil, storeError("top completed sessions", err)
	}

	entries := make([]*LeaderboardEntry, 0, len(summaries))
	for i, summary := range summaries {
		entries = append(entries, toLeaderboardEntry(i+1, summary))
	}
	return entries, nil
}

func toLeaderboardEntry(rank int, summary repositories.SessionSummary) *LeaderboardEntry {
	return &LeaderboardEntry{
		Rank:             rank,
		SessionID:        summary.SessionID,
		Username:         summary.Username,
		Title:            summary.Title,
		Score:            summary.TotalScore,
		MaxPossibleScore: summary.MaxPossibleScore,
		Percentage:       percentage(summary.TotalScore, summary.MaxPossibleScore),
		CompletedAt:      summary.EndTime,
	}
}

// percentage of part in total rounded to two decimals, 0 when total is 0.
func percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
