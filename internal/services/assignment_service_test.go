package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/events"
	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
)

func TestNormalizeAssignment(t *testing.T) {
	t.Run("FullStructuredPayload", func(t *testing.T) {
		payload := &rawAssignmentPayload{
			Title:              "Build a Rate Limiter",
			Difficulty:         "Intermediate",
			ProblemStatement:   "Implement a sliding-window rate limiter.",
			Requirements:       json.RawMessage(`["Support per-user limits", "Expose a middleware"]`),
			Constraints:        json.RawMessage(`["No external cache"]`),
			ExpectedOutput:     "A reusable package with tests.",
			EvaluationCriteria: json.RawMessage(`["Correctness", "Concurrency safety"]`),
		}

		result := normalizeAssignment(payload, "Go", "Intermediate")

		assert.Equal(t, "Build a Rate Limiter", result.Title)
		assert.Equal(t, "coding", result.Type)
		assert.Equal(t, "Code submission", result.ExpectedDeliverables)
		assert.Equal(t, "Correctness, Concurrency safety", result.EvaluationCriteria)

		expected := "**Problem Statement:**\nImplement a sliding-window rate limiter.\n\n" +
			"**Requirements:**\n- Support per-user limits\n- Expose a middleware\n\n" +
			"**Constraints:**\n- No external cache\n\n" +
			"**Expected Output:**\nA reusable package with tests."
		assert.Equal(t, expected, result.Instructions)
	})

	t.Run("InstructionsOnlyPayload", func(t *testing.T) {
		payload := &rawAssignmentPayload{Instructions: "Just build something small."}
		result := normalizeAssignment(payload, "SQL", "Basic")
		assert.Equal(t, "Just build something small.", result.Instructions)
		assert.Equal(t, "Basic Assignment on SQL", result.Title)
		assert.Equal(t, "Basic", result.Difficulty)
	})

	t.Run("EmptyPayloadGetsPlaceholder", func(t *testing.T) {
		result := normalizeAssignment(&rawAssignmentPayload{}, "SQL", "Basic")
		assert.Equal(t, "Please refer to the title for instructions.", result.Instructions)
		assert.Equal(t, "General correctness", result.EvaluationCriteria)
	})

	t.Run("CriteriaAsString", func(t *testing.T) {
		payload := &rawAssignmentPayload{
			EvaluationCriteria: json.RawMessage(`"Clean code and passing tests"`),
		}
		result := normalizeAssignment(payload, "Go", "Advanced")
		assert.Equal(t, "Clean code and passing tests", result.EvaluationCriteria)
	})

	t.Run("NonStringListItems", func(t *testing.T) {
		payload := &rawAssignmentPayload{
			Requirements: json.RawMessage(`[1, "two"]`),
		}
		result := normalizeAssignment(payload, "Go", "Basic")
		assert.Contains(t, result.Instructions, "- 1\n- two")
	})
}

func TestAssignmentService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("PersistsNormalizedAssignment", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", mock.Anything, uint(1)).Return(nil, repositories.ErrNotFound)
		repo.learning.On("GetMastery", mock.Anything, uint(1), "Go").Return(nil, repositories.ErrNotFound)
		repo.assignment.On("Create", mock.Anything, mock.AnythingOfType("*models.Assignment")).Return(nil)

		provider := ai.NewMockProvider().Respond(`{
  "title": "Go Fundamentals Task",
  "difficulty": "Basic",
  "problem_statement": "Write a CLI that counts words.",
  "requirements": ["Read from stdin"],
  "evaluation_criteria": ["Correctness"]
}`)
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewAssignmentService(repo, provider, publisher, testLogger())

		assignment, err := svc.Generate(ctx, 1, "Go")
		require.NoError(t, err)

		assert.Equal(t, "Go Fundamentals Task", assignment.Title)
		assert.Equal(t, "Go", assignment.Topic)
		assert.Equal(t, "coding", assignment.Type)
		assert.Contains(t, assignment.Instructions, "**Problem Statement:**")
		repo.assignment.AssertCalled(t, "Create", mock.Anything, mock.Anything)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventAssignmentGenerated, published[0].Type)
	})

	t.Run("RetriesOnceOnInvalidJSON", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", mock.Anything, uint(1)).Return(nil, repositories.ErrNotFound)
		repo.learning.On("GetMastery", mock.Anything, uint(1), "Go").Return(nil, repositories.ErrNotFound)
		repo.assignment.On("Create", mock.Anything, mock.Anything).Return(nil)

		provider := ai.NewMockProvider().
			Respond("not json").
			Respond(`{"title": "Recovered Task"}`)
		svc := NewAssignmentService(repo, provider, nil, testLogger())

		assignment, err := svc.Generate(ctx, 1, "Go")
		require.NoError(t, err)
		assert.Equal(t, "Recovered Task", assignment.Title)
		assert.Equal(t, 2, provider.CallCount())
	})

	t.Run("ProviderErrorFailsImmediately", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", mock.Anything, uint(1)).Return(nil, repositories.ErrNotFound)
		repo.learning.On("GetMastery", mock.Anything, uint(1), "Go").Return(nil, repositories.ErrNotFound)

		provider := ai.NewMockProvider().Fail(fmt.Errorf("provider down"))
		svc := NewAssignmentService(repo, provider, nil, testLogger())

		_, err := svc.Generate(ctx, 1, "Go")
		assert.ErrorIs(t, err, ErrAssignmentGenFailed)
		assert.Equal(t, 1, provider.CallCount())
	})

	t.Run("EmptyTopic", func(t *testing.T) {
		svc := NewAssignmentService(newMockRepository(), ai.NewMockProvider(), nil, testLogger())
		_, err := svc.Generate(ctx, 1, "  ")
		assert.ErrorIs(t, err, ErrTopicRequired)
	})
}

func TestAssignmentService_Submit(t *testing.T) {
	ctx := context.Background()
	code := "package main"

	assignment := &models.Assignment{
		ID:                 10,
		UserID:             1,
		Title:              "Build a Rate Limiter",
		Topic:              "Go",
		Difficulty:         "Intermediate",
		EvaluationCriteria: "Correctness",
	}

	evaluationJSON := `{
  "score": 90,
  "concept_coverage": "Strong grasp of concurrency primitives.",
  "mistakes": ["No limit on map growth"],
  "improvement_suggestions": ["Add eviction"]
}`

	t.Run("GradesAndBlendsMastery", func(t *testing.T) {
		repo := newMockRepository()
		repo.assignment.On("GetByID", mock.Anything, uint(10), uint(1)).Return(assignment, nil)
		repo.assignment.On("CreateSubmission", mock.Anything, mock.AnythingOfType("*models.AssignmentSubmission")).Return(nil)

		quizScore := 80.0
		repo.learning.On("LatestQuizAttempt", mock.Anything, uint(1), "Go").
			Return(&models.QuizAttempt{Score: quizScore}, nil)
		repo.learning.On("CountQuizAttemptsSince", mock.Anything, uint(1), mock.Anything).Return(int64(2), nil)
		repo.assignment.On("CountSubmissionsSince", mock.Anything, uint(1), mock.Anything).Return(int64(1), nil)

		oldMastery := 30.0
		repo.learning.On("GetMastery", mock.Anything, uint(1), "Go").
			Return(&models.TopicMastery{UserID: 1, Topic: "Go", MasteryScore: oldMastery}, nil)

		// 80*0.5 + 90*0.3 + 30*0.2 = 73
		repo.learning.On("UpsertMastery", mock.Anything, uint(1), "Go", 73.0).
			Return(&models.TopicMastery{UserID: 1, Topic: "Go", MasteryScore: 73.0}, nil)

		provider := ai.NewMockProvider().Respond(evaluationJSON)
		publisher := events.NewMockEventPublisher(testLogger())
		svc := NewAssignmentService(repo, provider, publisher, testLogger())

		resp, err := svc.Submit(ctx, 1, &AssignmentSubmitRequest{AssignmentID: 10, CodeText: &code})
		require.NoError(t, err)

		assert.Equal(t, 90.0, resp.Score)
		assert.Equal(t, 73.0, resp.NewMastery)
		require.NotNil(t, resp.Evaluation)
		assert.Equal(t, []string{"No limit on map growth"}, resp.Evaluation.Mistakes)

		// Mastery moved from 30 (Basic) to 73 (Intermediate).
		assert.True(t, resp.LevelUp)
		assert.Equal(t, "Go", resp.Topic)
		assert.Equal(t, "Intermediate", resp.NewLevel)

		types := make([]events.EventType, 0)
		for _, e := range publisher.GetPublishedEvents() {
			types = append(types, e.Type)
		}
		assert.Equal(t, []events.EventType{
			events.EventMasteryUpdated,
			events.EventTopicLevelUp,
			events.EventAssignmentEvaluated,
		}, types)
	})

	t.Run("EvaluationFailureDoesNotPersist", func(t *testing.T) {
		repo := newMockRepository()
		repo.assignment.On("GetByID", mock.Anything, uint(10), uint(1)).Return(assignment, nil)

		provider := ai.NewMockProvider().Fail(fmt.Errorf("provider down"))
		svc := NewAssignmentService(repo, provider, nil, testLogger())

		_, err := svc.Submit(ctx, 1, &AssignmentSubmitRequest{AssignmentID: 10, CodeText: &code})
		assert.ErrorIs(t, err, ErrEvaluationFailed)
		repo.assignment.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything)
	})

	t.Run("OutOfRangeScoreRejected", func(t *testing.T) {
		repo := newMockRepository()
		repo.assignment.On("GetByID", mock.Anything, uint(10), uint(1)).Return(assignment, nil)

		provider := ai.NewMockProvider().Respond(`{"score": 150}`)
		svc := NewAssignmentService(repo, provider, nil, testLogger())

		_, err := svc.Submit(ctx, 1, &AssignmentSubmitRequest{AssignmentID: 10, CodeText: &code})
		assert.ErrorIs(t, err, ErrEvaluationFailed)
		repo.assignment.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything)
	})

	t.Run("MissingContent", func(t *testing.T) {
		repo := newMockRepository()
		repo.assignment.On("GetByID", mock.Anything, uint(10), uint(1)).Return(assignment, nil)

		svc := NewAssignmentService(repo, ai.NewMockProvider(), nil, testLogger())
		empty := "  "
		_, err := svc.Submit(ctx, 1, &AssignmentSubmitRequest{AssignmentID: 10, CodeText: &empty})
		assert.ErrorIs(t, err, ErrSubmissionContentMissing)
	})

	t.Run("UnknownAssignment", func(t *testing.T) {
		repo := newMockRepository()
		repo.assignment.On("GetByID", mock.Anything, uint(99), uint(1)).Return(nil, repositories.ErrNotFound)

		svc := NewAssignmentService(repo, ai.NewMockProvider(), nil, testLogger())
		_, err := svc.Submit(ctx, 1, &AssignmentSubmitRequest{AssignmentID: 99, CodeText: &code})
		assert.ErrorIs(t, err, ErrAssignmentNotFound)
	})
}

func TestAssignmentService_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("NoResumeData", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", mock.Anything, uint(1)).Return(nil, repositories.ErrNotFound)

		svc := NewAssignmentService(repo, ai.NewMockProvider(), nil, testLogger())
		resp, err := svc.Options(ctx, 1)
		require.NoError(t, err)

		assert.Empty(t, resp.SkillProjects)
		assert.Equal(t, CapstoneName, resp.Capstone)
	})

	t.Run("GrowthProjectsBelowThreshold", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("GetResumeData", mock.Anything, uint(1)).Return(&models.UserResumeData{
			UserID: 1,
			Topics: encodeStringList([]string{"Go", "SQL", "Kafka"}),
		}, nil)
		repo.learning.On("ListMastery", mock.Anything, uint(1)).Return([]*models.TopicMastery{
			{Topic: "Go", MasteryScore: 80},
			{Topic: "SQL", MasteryScore: 45},
		}, nil)

		svc := NewAssignmentService(repo, ai.NewMockProvider(), nil, testLogger())
		resp, err := svc.Options(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, []string{"Go", "SQL", "Kafka"}, resp.SkillProjects)
		// SQL is below 50 and Kafka has no record at all.
		assert.Equal(t, []string{"SQL", "Kafka"}, resp.GrowthProjects)
	})
}
