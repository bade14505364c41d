package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/prepnexus/learning-service/internal/models"
)

// ErrNotFound is returned by repositories when the requested row does
// not exist.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// LearningRepository covers mastery records, quiz attempt history and
// analyzed-resume data.
type LearningRepository interface {
	// Mastery
	GetMastery(ctx context.Context, userID uint, topic string) (*models.TopicMastery, error)
	ListMastery(ctx context.Context, userID uint) ([]*models.TopicMastery, error)
	// UpsertMastery creates or overwrites the (user, topic) record.
	// Implementations must serialize concurrent updates to the same pair
	// so a read-compute-write cycle cannot lose a newer score.
	UpsertMastery(ctx context.Context, userID uint, topic string, score float64) (*models.TopicMastery, error)

	// Quiz attempt history (append-only)
	CreateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	ListQuizAttempts(ctx context.Context, userID uint) ([]*models.QuizAttempt, error)
	LatestQuizAttempt(ctx context.Context, userID uint, topic string) (*models.QuizAttempt, error)
	CountQuizAttemptsSince(ctx context.Context, userID uint, since time.Time) (int64, error)

	// Resume data
	GetResumeData(ctx context.Context, userID uint) (*models.UserResumeData, error)
	SaveResumeData(ctx context.Context, data *models.UserResumeData) error
}

// AssignmentRepository covers generated assignments and their
// submissions (submissions are append-only).
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id, userID uint) (*models.Assignment, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Assignment, error)
	DistinctTopics(ctx context.Context, userID uint) ([]string, error)

	CreateSubmission(ctx context.Context, submission *models.AssignmentSubmission) error
	LatestSubmission(ctx context.Context, assignmentID, userID uint) (*models.AssignmentSubmission, error)
	LatestSubmissionScoreForTopic(ctx context.Context, userID uint, topic string) (*float64, error)
	ListSubmissionsByUser(ctx context.Context, userID uint) ([]*models.AssignmentSubmission, error)
	CountSubmissionsSince(ctx context.Context, userID uint, since time.Time) (int64, error)
}

// Repository aggregates all persistent stores.
type Repository interface {
	Learning() LearningRepository
	Assignment() AssignmentRepository
}
