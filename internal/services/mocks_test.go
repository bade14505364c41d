package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
)

// MockLearningRepository is a mock implementation of LearningRepository
type MockLearningRepository struct {
	mock.Mock
}

func (m *MockLearningRepository) GetMastery(ctx context.Context, userID uint, topic string) (*models.TopicMastery, error) {
	args := m.Called(ctx, userID, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TopicMastery), args.Error(1)
}

func (m *MockLearningRepository) ListMastery(ctx context.Context, userID uint) ([]*models.TopicMastery, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TopicMastery), args.Error(1)
}

func (m *MockLearningRepository) UpsertMastery(ctx context.Context, userID uint, topic string, score float64) (*models.TopicMastery, error) {
	args := m.Called(ctx, userID, topic, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TopicMastery), args.Error(1)
}

func (m *MockLearningRepository) CreateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockLearningRepository) ListQuizAttempts(ctx context.Context, userID uint) ([]*models.QuizAttempt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuizAttempt), args.Error(1)
}

func (m *MockLearningRepository) LatestQuizAttempt(ctx context.Context, userID uint, topic string) (*models.QuizAttempt, error) {
	args := m.Called(ctx, userID, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

func (m *MockLearningRepository) CountQuizAttemptsSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLearningRepository) GetResumeData(ctx context.Context, userID uint) (*models.UserResumeData, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserResumeData), args.Error(1)
}

func (m *MockLearningRepository) SaveResumeData(ctx context.Context, data *models.UserResumeData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// MockAssignmentRepository is a mock implementation of AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id, userID uint) (*models.Assignment, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Assignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) DistinctTopics(ctx context.Context, userID uint) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAssignmentRepository) CreateSubmission(ctx context.Context, submission *models.AssignmentSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockAssignmentRepository) LatestSubmission(ctx context.Context, assignmentID, userID uint) (*models.AssignmentSubmission, error) {
	args := m.Called(ctx, assignmentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssignmentSubmission), args.Error(1)
}

func (m *MockAssignmentRepository) LatestSubmissionScoreForTopic(ctx context.Context, userID uint, topic string) (*float64, error) {
	args := m.Called(ctx, userID, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockAssignmentRepository) ListSubmissionsByUser(ctx context.Context, userID uint) ([]*models.AssignmentSubmission, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssignmentSubmission), args.Error(1)
}

func (m *MockAssignmentRepository) CountSubmissionsSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

// mockRepository bundles the repository mocks behind the aggregate
// interface.
type mockRepository struct {
	learning   *MockLearningRepository
	assignment *MockAssignmentRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		learning:   new(MockLearningRepository),
		assignment: new(MockAssignmentRepository),
	}
}

func (m *mockRepository) Learning() repositories.LearningRepository {
	return m.learning
}

func (m *mockRepository) Assignment() repositories.AssignmentRepository {
	return m.assignment
}
