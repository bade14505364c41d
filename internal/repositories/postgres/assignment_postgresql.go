package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db}
}

func (a *AssignmentPostgreSQL) Create(ctx context.Context, assignment *models.Assignment) error {
	return a.db.WithContext(ctx).Create(assignment).Error
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, id, userID uint) (*models.Assignment, error) {
	var assignment models.Assignment
	err := a.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) ListByUser(ctx context.Context, userID uint) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) DistinctTopics(ctx context.Context, userID uint) ([]string, error) {
	var topics []string
	if err := a.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("user_id = ?", userID).
		Distinct("topic").
		Pluck("topic", &topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (a *AssignmentPostgreSQL) CreateSubmission(ctx context.Context, submission *models.AssignmentSubmission) error {
	return a.db.WithContext(ctx).Create(submission).Error
}

func (a *AssignmentPostgreSQL) LatestSubmission(ctx context.Context, assignmentID, userID uint) (*models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	err := a.db.WithContext(ctx).
		Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		Order("submitted_at desc").
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// LatestSubmissionScoreForTopic returns the most recent graded score for
// any assignment on the given topic, or nil when there is none.
func (a *AssignmentPostgreSQL) LatestSubmissionScoreForTopic(ctx context.Context, userID uint, topic string) (*float64, error) {
	var submission models.AssignmentSubmission
	err := a.db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Where("assignment_submissions.user_id = ? AND assignments.topic = ? AND assignment_submissions.score IS NOT NULL", userID, topic).
		Order("assignment_submissions.submitted_at desc").
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return submission.Score, nil
}

func (a *AssignmentPostgreSQL) ListSubmissionsByUser(ctx context.Context, userID uint) ([]*models.AssignmentSubmission, error) {
	var submissions []*models.AssignmentSubmission
	if err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at desc").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (a *AssignmentPostgreSQL) CountSubmissionsSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.AssignmentSubmission{}).
		Where("user_id = ? AND submitted_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
