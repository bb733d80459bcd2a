package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Summary"
	breakdownSheet = "Breakdown"
	exportTimeFmt  = "2006-01-02 15:04:05"
)

// ExportService renders session results as spreadsheets.
type ExportService interface {
	ExportResult(ctx context.Context, identity Identity, sessionID uint) (*bytes.Buffer, error)
}

type exportService struct {
	results ResultService
	*engine
}

func NewExportService(e *engine, results ResultService) ExportService {
	return &exportService{engine: e, results: results}
}

func (s *exportService) ExportResult(ctx context.Context, identity Identity, sessionID uint) (*bytes.Buffer, error) {
	log := s.svcLogger.WithOperation(ctx, "export_result", identity.UserID)

	result, err := s.results.GetResult(ctx, identity, sessionID)
	if err != nil {
		log.LogResult(sessionID, "quiz_session", err)
		return nil, err
	}

	buf, err := renderResultWorkbook(result)
	log.LogResult(sessionID, "quiz_session", err)
	return buf, err
}

func renderResultWorkbook(result *SessionResult) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	endTime := ""
	if result.EndTime != nil {
		endTime = result.EndTime.Format(exportTimeFmt)
	}

	summary := [][]interface{}{
		{"Title", result.Title},
		{"Completed", result.IsCompleted},
		{"Started At", result.StartTime.Format(exportTimeFmt)},
		{"Ended At", endTime},
		{"Time Taken (seconds)", result.TimeTakenSeconds},
		{"Total Questions", result.TotalQuestions},
		{"Correct", result.Correct},
		{"Wrong", result.Wrong},
		{"Unanswered", result.Unanswered},
		{"Percentage", result.Percentage},
		{"Score", fmt.Sprintf("%d/%d", result.TotalScore, result.MaxPossibleScore)},
	}
	for rowIndex, row := range summary {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+1)
			if err := f.SetCellValue(summarySheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	index, err := f.NewSheet(breakdownSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []string{
		"#", "Question", "Category", "Difficulty", "Your Answer", "Correct Answer", "Result", "Time Taken (seconds)",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(breakdownSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}

	for rowIndex, question := range result.Breakdown {
		status := "Unanswered"
		if question.Answered {
			status = "Wrong"
			if question.IsCorrect {
				status = "Correct"
			}
		}
		row := []interface{}{
			rowIndex + 1,
			question.Text,
			question.CategoryName,
			string(question.Difficulty),
			question.SelectedText,
			question.CorrectAnswerText,
			status,
			question.TimeTaken,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			if err := f.SetCellValue(breakdownSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf, nil
}
