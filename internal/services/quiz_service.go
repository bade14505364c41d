package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/events"
	"github.com/prepnexus/learning-service/internal/mastery"
	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
)

// MixedQuizName is the reserved topic that triggers a cross-topic
// diagnostic quiz instead of a single-topic one.
const MixedQuizName = "Career Readiness Pulse Assessment"

type QuizService interface {
	Options(ctx context.Context, userID uint) (*QuizOptionsResponse, error)
	Generate(ctx context.Context, userID uint, topic string) (*models.Quiz, error)
	Submit(ctx context.Context, userID uint, req *QuizSubmitRequest) (*QuizSubmitResponse, error)
}

type QuizOptionsResponse struct {
	ResumeTopics      []string `json:"resume_topics"`
	RecommendedTopics []string `json:"recommended_topics"`
	MixedQuizName     string   `json:"mixed_quiz_name"`
	Mode              string   `json:"mode"`
}

type QuizSubmitRequest struct {
	Topic          string `json:"topic" validate:"required"`
	CorrectAnswers int    `json:"correct_answers" validate:"min=0"`
	TotalQuestions int    `json:"total_questions" validate:"min=0"`
}

type QuizSubmitResponse struct {
	Score         float64 `json:"score"`
	TopicAccuracy float64 `json:"topic_accuracy"`
	NewMastery    float64 `json:"new_mastery"`
}

type quizService struct {
	repo      repositories.Repository
	provider  ai.Provider
	publisher events.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewQuizService(repo repositories.Repository, provider ai.Provider, publisher events.EventPublisher, logger *slog.Logger) QuizService {
	return &quizService{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *quizService) Options(ctx context.Context, userID uint) (*QuizOptionsResponse, error) {
	resumeData, err := s.repo.Learning().GetResumeData(ctx, userID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load resume data: %w", err)
	}
	if resumeData == nil {
		return &QuizOptionsResponse{
			ResumeTopics:      []string{},
			RecommendedTopics: []string{},
			MixedQuizName:     MixedQuizName,
			Mode:              "Diagnostic",
		}, nil
	}

	records, err := s.repo.Learning().ListMastery(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery records: %w", err)
	}
	masteryMap := masteryScoreMap(records)

	resumeTopics := decodeStringList(resumeData.Topics)
	recommended := make([]string, 0, len(resumeTopics))
	for _, topic := range resumeTopics {
		if masteryMap[topic] < 50 {
			recommended = append(recommended, topic)
		}
	}

	mode := "Adaptive"
	if len(records) == 0 {
		mode = "Diagnostic"
	}

	return &QuizOptionsResponse{
		ResumeTopics:      resumeTopics,
		RecommendedTopics: recommended,
		MixedQuizName:     MixedQuizName,
		Mode:              mode,
	}, nil
}

func (s *quizService) Generate(ctx context.Context, userID uint, topic string) (*models.Quiz, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrTopicRequired
	}

	resumeData, err := s.repo.Learning().GetResumeData(ctx, userID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load resume data: %w", err)
	}
	role := resolveRole(resumeData)

	if topic == MixedQuizName {
		return s.generateMixedQuiz(ctx, userID, resumeData, role)
	}

	var score *float64
	record, err := s.repo.Learning().GetMastery(ctx, userID, topic)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load mastery: %w", err)
	}
	if record != nil {
		score = &record.MasteryScore
	}

	level := string(mastery.TopicLevel(score))
	return s.generateQuiz(ctx, topic, level, role, quizFocusForLevel(level))
}

// generateMixedQuiz builds a cross-topic assessment weighted toward the
// user's weak areas (60% weak, 30% medium, 10% strong).
func (s *quizService) generateMixedQuiz(ctx context.Context, userID uint, resumeData *models.UserResumeData, role string) (*models.Quiz, error) {
	if resumeData == nil {
		return nil, ErrResumeDataRequired
	}

	records, err := s.repo.Learning().ListMastery(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery records: %w", err)
	}
	masteryMap := masteryScoreMap(records)
	resumeTopics := decodeStringList(resumeData.Topics)

	var focus string
	if len(records) == 0 {
		focus = fmt.Sprintf("Diagnostic mixed quiz covering: %s", strings.Join(resumeTopics, ", "))
	} else {
		var weak, medium, strong []string
		for _, topic := range resumeTopics {
			score := masteryMap[topic]
			switch {
			case score < 40:
				weak = append(weak, topic)
			case score <= 70:
				medium = append(medium, topic)
			default:
				strong = append(strong, topic)
			}
		}
		focus = fmt.Sprintf(
			"Mixed quiz: 60%% from weak topics (%s), 30%% from medium topics (%s), 10%% from strong topics (%s)",
			orNA(weak), orNA(medium), orNA(strong))
	}

	return s.generateQuiz(ctx, MixedQuizName, "Mixed", role, focus)
}

// generateQuiz prompts the provider and validates the structural contract
// strictly: exactly 5 questions, exactly 4 options each, no empty fields.
// Malformed output earns one retry; a second failure surfaces as a
// generation error with no fallback, since a patched quiz would mislead
// the learner.
func (s *quizService) generateQuiz(ctx context.Context, topic, level, role, focus string) (*models.Quiz, error) {
	prompt := quizPrompt(topic, level, role, focus)

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		content, err := s.provider.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuizGenerationFailed, err)
		}

		questions, err := parseQuizQuestions(content)
		if err != nil {
			s.logger.Warn("Quiz generation produced invalid payload",
				"topic", topic, "attempt", attempt, "error", err)
			lastErr = err
			continue
		}

		return &models.Quiz{
			Title:      fmt.Sprintf("%s Quiz: %s", level, topic),
			Topic:      topic,
			Difficulty: level,
			TimeLimit:  10,
			Questions:  questions,
		}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrQuizGenerationFailed, lastErr)
}

func parseQuizQuestions(content string) ([]models.QuizQuestion, error) {
	var payload struct {
		Questions []models.QuizQuestion `json:"questions"`
	}
	if err := decodeAIJSON(content, &payload); err != nil {
		return nil, err
	}

	if len(payload.Questions) != 5 {
		return nil, fmt.Errorf("payload must contain exactly 5 questions, got %d", len(payload.Questions))
	}
	for i := range payload.Questions {
		q := &payload.Questions[i]
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d must have exactly 4 options", i+1)
		}
		if q.Question == "" || q.CorrectAnswer == "" || q.Explanation == "" {
			return nil, fmt.Errorf("question %d has empty fields", i+1)
		}
		q.ID = i + 1
		q.Type = "mcq_single"
	}

	return payload.Questions, nil
}

func (s *quizService) Submit(ctx context.Context, userID uint, req *QuizSubmitRequest) (*QuizSubmitResponse, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, ErrTopicRequired
	}

	var score float64
	if req.TotalQuestions > 0 {
		score = float64(req.CorrectAnswers) / float64(req.TotalQuestions) * 100
	}
	score = roundScore(score)

	attempt := &models.QuizAttempt{
		UserID:         userID,
		Topic:          req.Topic,
		Score:          score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
	}
	if err := s.repo.Learning().CreateQuizAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record quiz attempt: %w", err)
	}

	newMastery, err := s.recomputeMastery(ctx, userID, req.Topic, score)
	if err != nil {
		return nil, err
	}

	s.publishSubmitEvents(ctx, userID, req.Topic, score, newMastery)

	return &QuizSubmitResponse{
		Score:         score,
		TopicAccuracy: score,
		NewMastery:    newMastery,
	}, nil
}

// recomputeMastery blends the fresh quiz score with the latest assignment
// signal for the topic and a freshly computed consistency term, then
// overwrites the stored mastery.
func (s *quizService) recomputeMastery(ctx context.Context, userID uint, topic string, quizScore float64) (float64, error) {
	assignmentScore, err := s.repo.Assignment().LatestSubmissionScoreForTopic(ctx, userID, topic)
	if err != nil {
		return 0, fmt.Errorf("failed to load latest assignment score: %w", err)
	}

	consistency, err := consistencyScore(ctx, s.repo, userID, s.now())
	if err != nil {
		return 0, err
	}

	newScore, ok := mastery.Calculate(&quizScore, assignmentScore, consistency)
	if !ok {
		return 0, fmt.Errorf("mastery computation yielded no signal")
	}

	record, err := s.repo.Learning().UpsertMastery(ctx, userID, topic, newScore)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert mastery: %w", err)
	}
	return record.MasteryScore, nil
}

func (s *quizService) publishSubmitEvents(ctx context.Context, userID uint, topic string, score, newMastery float64) {
	if s.publisher == nil {
		return
	}

	submitted := events.NewLearningEvent(events.EventQuizSubmitted, events.QuizSubmittedEvent{
		UserID:     userID,
		Topic:      topic,
		Score:      score,
		NewMastery: newMastery,
	})
	if err := s.publisher.PublishLearningEvent(ctx, submitted); err != nil {
		s.logger.Warn("Failed to publish quiz submitted event", "user_id", userID, "error", err)
	}

	updated := events.NewLearningEvent(events.EventMasteryUpdated, events.MasteryUpdatedEvent{
		UserID:       userID,
		Topic:        topic,
		MasteryScore: newMastery,
		RiskLevel:    string(mastery.Risk(&newMastery)),
		TopicLevel:   string(mastery.TopicLevel(&newMastery)),
	})
	if err := s.publisher.PublishLearningEvent(ctx, updated); err != nil {
		s.logger.Warn("Failed to publish mastery updated event", "user_id", userID, "error", err)
	}
}

// ===== SHARED HELPERS =====

func masteryScoreMap(records []*models.TopicMastery) map[string]float64 {
	m := make(map[string]float64, len(records))
	for _, r := range records {
		m[r.Topic] = r.MasteryScore
	}
	return m
}

// consistencyScore recomputes activity consistency from the trailing
// window, fresh on every call.
func consistencyScore(ctx context.Context, repo repositories.Repository, userID uint, now time.Time) (float64, error) {
	since := mastery.WindowStart(now)

	quizzes, err := repo.Learning().CountQuizAttemptsSince(ctx, userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent quiz attempts: %w", err)
	}
	submissions, err := repo.Assignment().CountSubmissionsSince(ctx, userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent submissions: %w", err)
	}

	return mastery.Consistency(int(quizzes), int(submissions)), nil
}

// quizFocusForLevel shifts the question style with the learner's tier.
func quizFocusForLevel(level string) string {
	switch level {
	case string(mastery.LevelBasic):
		return "Concept clarity, Definitions, Simple examples"
	case string(mastery.LevelIntermediate):
		return "Code snippets, Output prediction, Scenario-based MCQs"
	default:
		return "Optimization, Edge case reasoning, Real-world scenario, Debugging"
	}
}

func orNA(topics []string) string {
	if len(topics) == 0 {
		return "N/A"
	}
	return strings.Join(topics, ", ")
}
