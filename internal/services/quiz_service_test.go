package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/events"
	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validQuizJSON(questionCount, optionCount int) string {
	type rawQuestion struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
		Explanation   string   `json:"explanation"`
	}

	questions := make([]rawQuestion, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		options := make([]string, 0, optionCount)
		for j := 0; j < optionCount; j++ {
			options = append(options, fmt.Sprintf("option %d", j+1))
		}
		questions = append(questions, rawQuestion{
			Question:      fmt.Sprintf("What does snippet %d print?", i+1),
			Options:       options,
			CorrectAnswer: "option 1",
			Explanation:   "Because of evaluation order.",
		})
	}

	raw, _ := json.Marshal(map[string]interface{}{"questions": questions})
	return string(raw)
}

func TestQuizService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidPayload", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(nil, repositories.ErrNotFound)
		repo.learning.On("GetMastery", ctx, uint(1), "Goroutines").Return(nil, repositories.ErrNotFound)

		provider := ai.NewMockProvider().Respond(validQuizJSON(5, 4))
		svc := NewQuizService(repo, provider, nil, testLogger())

		quiz, err := svc.Generate(ctx, 1, "Goroutines")
		require.NoError(t, err)

		assert.Equal(t, "Basic Quiz: Goroutines", quiz.Title)
		assert.Equal(t, "Basic", quiz.Difficulty)
		assert.Equal(t, 10, quiz.TimeLimit)
		require.Len(t, quiz.Questions, 5)
		for i, q := range quiz.Questions {
			assert.Equal(t, i+1, q.ID)
			assert.Equal(t, "mcq_single", q.Type)
			assert.Len(t, q.Options, 4)
		}

		// No mastery yet means Basic focus.
		require.Len(t, provider.Prompts, 1)
		assert.Contains(t, provider.Prompts[0], "Concept clarity")
	})

	t.Run("LevelFromMastery", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(nil, repositories.ErrNotFound)
		repo.learning.On("GetMastery", ctx, uint(1), "SQL").
			Return(&models.TopicMastery{UserID: 1, Topic: "SQL", MasteryScore: 80}, nil)

		provider := ai.NewMockProvider().Respond(validQuizJSON(5, 4))
		svc := NewQuizService(repo, provider, nil, testLogger())

		quiz, err := svc.Generate(ctx, 1, "SQL")
		require.NoError(t, err)
		assert.Equal(t, "Advanced", quiz.Difficulty)
		assert.Contains(t, provider.Prompts[0], "Optimization")
	})

	t.Run("RetryOnceThenSucceed", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(nil, repositories.ErrNotFound)
		repo.learning.On("GetMastery", ctx, uint(1), "Goroutines").Return(nil, repositories.ErrNotFound)

		provider := ai.NewMockProvider().
			Respond(validQuizJSON(4, 4)).
			Respond(validQuizJSON(5, 4))
		svc := NewQuizService(repo, provider, nil, testLogger())

		quiz, err := svc.Generate(ctx, 1, "Goroutines")
		require.NoError(t, err)
		assert.Len(t, quiz.Questions, 5)
		assert.Equal(t, 2, provider.CallCount())
	})

	t.Run("FailAfterTwoInvalidAttempts", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(nil, repositories.ErrNotFound)
		repo.learning.On("GetMastery", ctx, uint(1), "Goroutines").Return(nil, repositories.ErrNotFound)

		provider := ai.NewMockProvider().
			Respond(validQuizJSON(5, 3)).
			Respond("not json at all")
		svc := NewQuizService(repo, provider, nil, testLogger())

		_, err := svc.Generate(ctx, 1, "Goroutines")
		assert.ErrorIs(t, err, ErrQuizGenerationFailed)
		assert.Equal(t, 2, provider.CallCount())
	})

	t.Run("ProviderErrorFailsImmediately", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(nil, repositories.ErrNotFound)
		repo.learning.On("GetMastery", ctx, uint(1), "Goroutines").Return(nil, repositories.ErrNotFound)

		provider := ai.NewMockProvider().Fail(fmt.Errorf("connection refused"))
		svc := NewQuizService(repo, provider, nil, testLogger())

		_, err := svc.Generate(ctx, 1, "Goroutines")
		assert.ErrorIs(t, err, ErrQuizGenerationFailed)
		assert.Equal(t, 1, provider.CallCount())
	})

	t.Run("EmptyTopic", func(t *testing.T) {
		svc := NewQuizService(newMockRepository(), ai.NewMockProvider(), nil, testLogger())
		_, err := svc.Generate(ctx, 1, "  ")
		assert.ErrorIs(t, err, ErrTopicRequired)
	})

	t.Run("MixedQuizRequiresResumeData", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(nil, repositories.ErrNotFound)

		svc := NewQuizService(repo, ai.NewMockProvider(), nil, testLogger())
		_, err := svc.Generate(ctx, 1, MixedQuizName)
		assert.ErrorIs(t, err, ErrResumeDataRequired)
	})

	t.Run("MixedQuizFocusSplit", func(t *testing.T) {
		repo := newMockRepository()
		resumeData := &models.UserResumeData{
			UserID: 1,
			Role:   "Backend Engineer",
			Topics: encodeStringList([]string{"Go", "SQL", "Kafka"}),
		}
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(resumeData, nil)
		repo.learning.On("ListMastery", ctx, uint(1)).Return([]*models.TopicMastery{
			{Topic: "Go", MasteryScore: 30},
			{Topic: "SQL", MasteryScore: 55},
			{Topic: "Kafka", MasteryScore: 90},
		}, nil)

		provider := ai.NewMockProvider().Respond(validQuizJSON(5, 4))
		svc := NewQuizService(repo, provider, nil, testLogger())

		quiz, err := svc.Generate(ctx, 1, MixedQuizName)
		require.NoError(t, err)
		assert.Equal(t, "Mixed", quiz.Difficulty)

		prompt := provider.Prompts[0]
		assert.Contains(t, prompt, "60% from weak topics (Go)")
		assert.Contains(t, prompt, "30% from medium topics (SQL)")
		assert.Contains(t, prompt, "10% from strong topics (Kafka)")
	})
}

func TestQuizService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("ScoreAndMasteryBlend", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("CreateQuizAttempt", ctx, mock.AnythingOfType("*models.QuizAttempt")).Return(nil)
		repo.assignment.On("LatestSubmissionScoreForTopic", ctx, uint(1), "Go").Return(nil, nil)
		repo.learning.On("CountQuizAttemptsSince", ctx, uint(1), mock.AnythingOfType("time.Time")).Return(int64(2), nil)
		repo.assignment.On("CountSubmissionsSince", ctx, uint(1), mock.AnythingOfType("time.Time")).Return(int64(1), nil)

		// quiz 80, no assignment signal, consistency 30: 80*0.7 + 30*0.3 = 65
		repo.learning.On("UpsertMastery", ctx, uint(1), "Go", 65.0).
			Return(&models.TopicMastery{UserID: 1, Topic: "Go", MasteryScore: 65}, nil)

		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewQuizService(repo, ai.NewMockProvider(), publisher, testLogger())

		resp, err := svc.Submit(ctx, 1, &QuizSubmitRequest{
			Topic:          "Go",
			CorrectAnswers: 4,
			TotalQuestions: 5,
		})
		require.NoError(t, err)

		assert.Equal(t, 80.0, resp.Score)
		assert.Equal(t, 80.0, resp.TopicAccuracy)
		assert.Equal(t, 65.0, resp.NewMastery)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 2)
		assert.Equal(t, events.EventQuizSubmitted, published[0].Type)
		assert.Equal(t, events.EventMasteryUpdated, published[1].Type)
	})

	t.Run("ZeroTotalQuestions", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("CreateQuizAttempt", ctx, mock.AnythingOfType("*models.QuizAttempt")).Return(nil)
		repo.assignment.On("LatestSubmissionScoreForTopic", ctx, uint(1), "Go").Return(nil, nil)
		repo.learning.On("CountQuizAttemptsSince", ctx, uint(1), mock.AnythingOfType("time.Time")).Return(int64(1), nil)
		repo.assignment.On("CountSubmissionsSince", ctx, uint(1), mock.AnythingOfType("time.Time")).Return(int64(0), nil)

		// quiz 0, consistency 10: 0*0.7 + 10*0.3 = 3
		repo.learning.On("UpsertMastery", ctx, uint(1), "Go", 3.0).
			Return(&models.TopicMastery{UserID: 1, Topic: "Go", MasteryScore: 3}, nil)

		svc := NewQuizService(repo, ai.NewMockProvider(), nil, testLogger())
		resp, err := svc.Submit(ctx, 1, &QuizSubmitRequest{Topic: "Go"})
		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.Score)
	})

	t.Run("TopicRequired", func(t *testing.T) {
		svc := NewQuizService(newMockRepository(), ai.NewMockProvider(), nil, testLogger())
		_, err := svc.Submit(ctx, 1, &QuizSubmitRequest{Topic: ""})
		assert.ErrorIs(t, err, ErrTopicRequired)
	})
}

func TestQuizService_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("NoResumeData", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(nil, repositories.ErrNotFound)

		svc := NewQuizService(repo, ai.NewMockProvider(), nil, testLogger())
		opts, err := svc.Options(ctx, 1)
		require.NoError(t, err)

		assert.Empty(t, opts.ResumeTopics)
		assert.Equal(t, MixedQuizName, opts.MixedQuizName)
		assert.Equal(t, "Diagnostic", opts.Mode)
	})

	t.Run("RecommendsLowMasteryTopics", func(t *testing.T) {
		repo := newMockRepository()
		resumeData := &models.UserResumeData{
			UserID: 1,
			Topics: encodeStringList([]string{"Go", "SQL", "Kafka"}),
		}
		repo.learning.On("GetResumeData", ctx, uint(1)).Return(resumeData, nil)
		repo.learning.On("ListMastery", ctx, uint(1)).Return([]*models.TopicMastery{
			{Topic: "Go", MasteryScore: 72},
			{Topic: "SQL", MasteryScore: 45},
		}, nil)

		svc := NewQuizService(repo, ai.NewMockProvider(), nil, testLogger())
		opts, err := svc.Options(ctx, 1)
		require.NoError(t, err)

		// SQL is below 50; Kafka has no mastery record at all.
		assert.Equal(t, []string{"SQL", "Kafka"}, opts.RecommendedTopics)
		assert.Equal(t, "Adaptive", opts.Mode)
	})
}
