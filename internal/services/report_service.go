package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/prepnexus/learning-service/internal/mastery"
	"github.com/prepnexus/learning-service/internal/repositories"
)

// ReportService exports a user's learning state as a spreadsheet for
// mentors and placement teams.
type ReportService interface {
	ExportMasteryReport(ctx context.Context, userID uint) ([]byte, error)
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *reportService) ExportMasteryReport(ctx context.Context, userID uint) ([]byte, error) {
	records, err := s.repo.Learning().ListMastery(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery records: %w", err)
	}

	quizzes, err := s.repo.Learning().CountQuizAttemptsSince(ctx, userID, mastery.WindowStart(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent quiz attempts: %w", err)
	}
	submissions, err := s.repo.Assignment().CountSubmissionsSince(ctx, userID, mastery.WindowStart(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent submissions: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Mastery"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Topic", "Mastery Score", "Risk Level", "Topic Level", "Updated At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, record := range records {
		score := record.MasteryScore
		row := []interface{}{
			record.Topic,
			score,
			string(mastery.Risk(&score)),
			string(mastery.TopicLevel(&score)),
			record.UpdatedAt.Format(time.RFC3339),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	summaryRow := len(records) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Consistency Score (7 days)")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), mastery.Consistency(int(quizzes), int(submissions)))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported mastery report", "user_id", userID, "topics", len(records))
	return buf.Bytes(), nil
}
