package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a learning activity event.
type EventType string

const (
	// Quiz events
	EventQuizSubmitted EventType = "quiz.submitted"

	// Assignment events
	EventAssignmentGenerated EventType = "assignment.generated"
	EventAssignmentEvaluated EventType = "assignment.evaluated"

	// Mastery events
	EventMasteryUpdated EventType = "mastery.updated"
	EventTopicLevelUp   EventType = "mastery.level_up"

	// Interview events
	EventInterviewStarted   EventType = "interview.started"
	EventInterviewCompleted EventType = "interview.completed"
)

// LearningEvent is the envelope for all learning activity events.
type LearningEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewLearningEvent wraps a payload in the standard envelope.
func NewLearningEvent(eventType EventType, data interface{}) *LearningEvent {
	return &LearningEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    "learning-service",
		Version:   "1.0",
		Data:      data,
	}
}

// Event payloads

type QuizSubmittedEvent struct {
	UserID     uint    `json:"user_id"`
	Topic      string  `json:"topic"`
	Score      float64 `json:"score"`
	NewMastery float64 `json:"new_mastery"`
}

type AssignmentGeneratedEvent struct {
	UserID       uint   `json:"user_id"`
	AssignmentID uint   `json:"assignment_id"`
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
}

type AssignmentEvaluatedEvent struct {
	UserID       uint    `json:"user_id"`
	AssignmentID uint    `json:"assignment_id"`
	Topic        string  `json:"topic"`
	Score        float64 `json:"score"`
	NewMastery   float64 `json:"new_mastery"`
}

type MasteryUpdatedEvent struct {
	UserID       uint    `json:"user_id"`
	Topic        string  `json:"topic"`
	MasteryScore float64 `json:"mastery_score"`
	RiskLevel    string  `json:"risk_level"`
	TopicLevel   string  `json:"topic_level"`
}

type TopicLevelUpEvent struct {
	UserID   uint   `json:"user_id"`
	Topic    string `json:"topic"`
	OldLevel string `json:"old_level"`
	NewLevel string `json:"new_level"`
}

type InterviewStartedEvent struct {
	SessionID      string `json:"session_id"`
	UserID         uint   `json:"user_id"`
	Role           string `json:"role"`
	TotalQuestions int    `json:"total_questions"`
}

type InterviewCompletedEvent struct {
	SessionID            string  `json:"session_id"`
	UserID               uint    `json:"user_id"`
	InterviewReadiness   float64 `json:"interview_readiness_score"`
	ReadinessLabel       string  `json:"readiness_classification"`
	CareerReadinessScore float64 `json:"career_readiness_score"`
}
