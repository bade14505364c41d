package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/events"
	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
	"github.com/prepnexus/learning-service/internal/sessions"
)

type InterviewService interface {
	Start(ctx context.Context, userID uint, req *StartInterviewRequest) (*StartInterviewResponse, error)
	SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*SubmitAnswerResponse, error)
	GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error)
}

type StartInterviewRequest struct {
	ResumeText string   `json:"resume_text" validate:"required"`
	Role       string   `json:"role"`
	Skills     []string `json:"skills"`
	Difficulty string   `json:"difficulty"`
}

type StartInterviewResponse struct {
	SessionID      string                   `json:"session_id"`
	FirstQuestion  models.InterviewQuestion `json:"first_question"`
	TotalQuestions int                      `json:"total_questions"`
}

type SubmitAnswerRequest struct {
	SessionID  string `json:"session_id" validate:"required"`
	AnswerText string `json:"answer_text" validate:"required"`
}

type SubmitAnswerResponse struct {
	FinalScore         float64                     `json:"final_score"`
	ComponentBreakdown models.AnswerScoreBreakdown `json:"component_breakdown"`
	MissingConcepts    []string                    `json:"missing_concepts"`
	Feedback           string                      `json:"feedback"`
	NextQuestion       *models.InterviewQuestion   `json:"next_question"`
	IsLastQuestion     bool                        `json:"is_last_question"`

	// Populated only on the final answer.
	InterviewReadinessScore *float64 `json:"interview_readiness_score"`
	ReadinessClassification *string  `json:"readiness_classification"`
	CareerReadinessScore    *float64 `json:"career_readiness_score"`

	// Communication clarity for this answer, as reported by the evaluator.
	CCIScore          *float64 `json:"cci_score"`
	CCIClassification *string  `json:"cci_classification"`
}

type interviewService struct {
	store     sessions.Store
	provider  ai.Provider
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	locks     sessionLocks
	now       func() time.Time
}

// NewInterviewService builds the interview state machine. repo may be nil
// when no persistent activity history is available; career readiness then
// uses the mid-range consistency baseline.
func NewInterviewService(store sessions.Store, provider ai.Provider, repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) InterviewService {
	return &interviewService{
		store:     store,
		provider:  provider,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *interviewService) Start(ctx context.Context, userID uint, req *StartInterviewRequest) (*StartInterviewResponse, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, ErrResumeTextRequired
	}
	role := req.Role
	if role == "" {
		role = DefaultRole
	}

	prompt := interviewStartPrompt(req.ResumeText, role, req.Skills, req.Difficulty)
	content, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterviewStartFailed, err)
	}

	var payload struct {
		ResumeAnalysis models.ResumeAnalysis      `json:"resume_analysis"`
		Questions      []models.InterviewQuestion `json:"questions"`
	}
	if err := decodeAIJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterviewStartFailed, err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions generated", ErrInterviewStartFailed)
	}
	for i := range payload.Questions {
		q := &payload.Questions[i]
		if q.QuestionText == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrInterviewStartFailed, i+1)
		}
		if q.ScoringWeights == (models.ScoringWeights{}) {
			q.ScoringWeights = models.DefaultScoringWeights()
		}
	}

	session := &models.InterviewSession{
		SessionID:      uuid.NewString(),
		UserID:         userID,
		ResumeAnalysis: payload.ResumeAnalysis,
		Questions:      payload.Questions,
		Answers:        []models.AnswerRecord{},
		Status:         models.SessionInitialized,
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.publishEvent(ctx, events.EventInterviewStarted, events.InterviewStartedEvent{
		SessionID:      session.SessionID,
		UserID:         userID,
		Role:           role,
		TotalQuestions: len(session.Questions),
	})

	return &StartInterviewResponse{
		SessionID:      session.SessionID,
		FirstQuestion:  session.Questions[0],
		TotalQuestions: len(session.Questions),
	}, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*SubmitAnswerResponse, error) {
	if strings.TrimSpace(req.AnswerText) == "" {
		return nil, ErrAnswerRequired
	}

	// Concurrent submissions for the same session would race on the
	// cursor and running totals; serialize per session id while leaving
	// other sessions untouched.
	unlock := s.locks.lock(req.SessionID)
	defer unlock()

	session, err := s.store.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.CurrentQuestionIndex >= len(session.Questions) {
		return nil, ErrSessionComplete
	}

	question := session.Questions[session.CurrentQuestionIndex]

	scored, err := s.scoreAnswer(ctx, question, req.AnswerText)
	if err != nil {
		return nil, err
	}

	// Scoring succeeded; only now is the session mutated, so a failed
	// provider call leaves the session untouched and the call retryable.
	record := models.AnswerRecord{
		QuestionID:      question.QuestionID,
		AnswerText:      req.AnswerText,
		Scores:          scored.Scores,
		MissingConcepts: scored.MissingConcepts,
		Feedback:        scored.Feedback,
	}
	session.Answers = append(session.Answers, record)

	if categoryBucket(question.Category) == "behavioral" {
		session.BehavioralScoreTotal += scored.Scores.Total
	} else {
		session.TechnicalScoreTotal += scored.Scores.Total
	}

	isLast := session.CurrentQuestionIndex == len(session.Questions)-1
	session.CurrentQuestionIndex++
	if isLast {
		session.Status = models.SessionCompleted
	} else {
		session.Status = models.SessionInProgress
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	resp := &SubmitAnswerResponse{
		FinalScore:         scored.Scores.Total,
		ComponentBreakdown: scored.Scores,
		MissingConcepts:    scored.MissingConcepts,
		Feedback:           scored.Feedback,
		IsLastQuestion:     isLast,
		CCIScore:           scored.CCIScore,
		CCIClassification:  scored.CCIClassification,
	}
	if !isLast {
		next := session.Questions[session.CurrentQuestionIndex]
		resp.NextQuestion = &next
	}

	if isLast {
		irs, classification := computeReadiness(session)
		crs := s.computeCareerReadiness(ctx, session, irs)

		resp.InterviewReadinessScore = &irs
		resp.ReadinessClassification = &classification
		resp.CareerReadinessScore = &crs

		s.publishEvent(ctx, events.EventInterviewCompleted, events.InterviewCompletedEvent{
			SessionID:            session.SessionID,
			UserID:               session.UserID,
			InterviewReadiness:   irs,
			ReadinessLabel:       classification,
			CareerReadinessScore: crs,
		})
	}

	return resp, nil
}

func (s *interviewService) GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

type scoredAnswer struct {
	Scores            models.AnswerScoreBreakdown
	MissingConcepts   []string
	Feedback          string
	CCIScore          *float64
	CCIClassification *string
}

// scoreAnswer runs the single-shot per-answer evaluation. The weighted
// total is always recomputed from the components and the question's fixed
// weights; the evaluator's own total is discarded.
func (s *interviewService) scoreAnswer(ctx context.Context, question models.InterviewQuestion, answerText string) (*scoredAnswer, error) {
	prompt := answerEvaluationPrompt(question, answerText)

	content, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnswerScoringFailed, err)
	}

	var payload struct {
		Scores          models.AnswerScoreBreakdown `json:"scores"`
		MissingConcepts []string                    `json:"missing_concepts"`
		Feedback        string                      `json:"feedback"`
		Communication   *struct {
			CCIScore          float64 `json:"cci_score"`
			CCIClassification string  `json:"cci_classification"`
		} `json:"communication"`
	}
	if err := decodeAIJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnswerScoringFailed, err)
	}

	w := question.ScoringWeights
	payload.Scores.Total = payload.Scores.Keyword*w.Keyword +
		payload.Scores.Technical*w.Technical +
		payload.Scores.Logical*w.Logical +
		payload.Scores.Terminology*w.Terminology +
		payload.Scores.Completeness*w.Completeness

	scored := &scoredAnswer{
		Scores:          payload.Scores,
		MissingConcepts: payload.MissingConcepts,
		Feedback:        payload.Feedback,
	}
	if payload.Communication != nil {
		scored.CCIScore = &payload.Communication.CCIScore
		scored.CCIClassification = &payload.Communication.CCIClassification
	}

	return scored, nil
}

// categoryBucket folds a question category into the binary aggregation
// bucket: anything not explicitly behavioral/HR counts as technical.
func categoryBucket(category string) string {
	c := strings.ToLower(category)
	if strings.Contains(c, "behavior") || strings.Contains(c, "hr") {
		return "behavioral"
	}
	return "technical"
}

// computeReadiness derives the interview readiness score (IRS) from the
// session's aggregated totals. Called once, at completion.
func computeReadiness(session *models.InterviewSession) (float64, string) {
	resumeStrength := session.ResumeAnalysis.ResumeStrengthScore
	roleMatch := session.ResumeAnalysis.RoleSkillMatchScore

	technicalPerf := session.TechnicalScoreTotal / float64(max(1, len(session.Questions)))

	behavioralCount := 0
	for _, q := range session.Questions {
		if categoryBucket(q.Category) == "behavioral" {
			behavioralCount++
		}
	}
	behavioralPerf := technicalPerf
	if behavioralCount > 0 {
		behavioralPerf = session.BehavioralScoreTotal / float64(behavioralCount)
	}

	irs := resumeStrength*0.20 + technicalPerf*0.40 + behavioralPerf*0.20 + roleMatch*0.20
	irs = roundScore(irs)

	var classification string
	switch {
	case irs >= 85:
		classification = "Highly Ready"
	case irs >= 70:
		classification = "Moderately Ready"
	case irs >= 50:
		classification = "Developing"
	default:
		classification = "Needs Significant Improvement"
	}

	return irs, classification
}

// computeCareerReadiness blends the session outcome with the user's
// activity consistency. Without a persistent history a mid-range baseline
// of 50 stands in for consistency.
func (s *interviewService) computeCareerReadiness(ctx context.Context, session *models.InterviewSession, irs float64) float64 {
	consistency := 50.0
	if s.repo != nil {
		if computed, err := consistencyScore(ctx, s.repo, session.UserID, s.now()); err == nil {
			consistency = computed
		} else {
			s.logger.Warn("Falling back to baseline consistency for career readiness",
				"session_id", session.SessionID, "error", err)
		}
	}

	resumeStrength := session.ResumeAnalysis.ResumeStrengthScore
	roleMatch := session.ResumeAnalysis.RoleSkillMatchScore

	crs := resumeStrength*0.30 + irs*0.40 + consistency*0.10 + roleMatch*0.20
	return roundScore(crs)
}

func (s *interviewService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewLearningEvent(eventType, payload)
	if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish learning event", "event_type", eventType, "error", err)
	}
}

// sessionLocks hands out one mutex per live session id, dropping entries
// once no caller holds them.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*sessionLockEntry
}

type sessionLockEntry struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.entries == nil {
		l.entries = make(map[string]*sessionLockEntry)
	}
	entry, ok := l.entries[id]
	if !ok {
		entry = &sessionLockEntry{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
