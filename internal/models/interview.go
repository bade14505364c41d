package models

// SessionStatus is the interview lifecycle state. Transitions are
// one-directional: initialized -> in_progress -> completed.
type SessionStatus string

const (
	SessionInitialized SessionStatus = "initialized"
	SessionInProgress  SessionStatus = "in_progress"
	SessionCompleted   SessionStatus = "completed"
)

// ScoringWeights fixes how the five answer components combine into a
// total. Each weight is in [0,1]; together they sum to 1.0.
type ScoringWeights struct {
	Keyword      float64 `json:"keyword"`
	Technical    float64 `json:"technical"`
	Logical      float64 `json:"logical"`
	Terminology  float64 `json:"terminology"`
	Completeness float64 `json:"completeness"`
}

// DefaultScoringWeights is the weight tuple requested for every
// generated question.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Keyword:      0.30,
		Technical:    0.30,
		Logical:      0.20,
		Terminology:  0.10,
		Completeness: 0.10,
	}
}

// InterviewQuestion is immutable once generated.
type InterviewQuestion struct {
	QuestionID           string         `json:"question_id"`
	Category             string         `json:"category"` // Technical | Behavioral | System Design | Project Deep Dive
	Difficulty           string         `json:"difficulty"`
	QuestionText         string         `json:"question_text"`
	ExpectedKeywords     []string       `json:"expected_keywords"`
	EvaluationGuidelines string         `json:"evaluation_guidelines"`
	ScoringWeights       ScoringWeights `json:"scoring_weights"`
}

// ResumeAnalysis is computed once at session start and frozen for the
// session's lifetime.
type ResumeAnalysis struct {
	ResumeStrengthScore float64  `json:"resume_strength_score"`
	RoleSkillMatchScore float64  `json:"role_skill_match_score"`
	MissingSkills       []string `json:"missing_skills"`
}

// AnswerScoreBreakdown holds the five component scores plus the weighted
// total. The total is always recomputed server-side from the components
// and the question's weights; an AI-reported total is never trusted.
type AnswerScoreBreakdown struct {
	Keyword      float64 `json:"keyword"`
	Technical    float64 `json:"technical"`
	Logical      float64 `json:"logical"`
	Terminology  float64 `json:"terminology"`
	Completeness float64 `json:"completeness"`
	Total        float64 `json:"total"`
}

// AnswerRecord is immutable once appended to a session.
type AnswerRecord struct {
	QuestionID      string               `json:"question_id"`
	AnswerText      string               `json:"answer_text"`
	Scores          AnswerScoreBreakdown `json:"scores"`
	MissingConcepts []string             `json:"missing_concepts"`
	Feedback        string               `json:"feedback"`
}

// InterviewSession is the full state of one mock interview. Invariant:
// len(Answers) == CurrentQuestionIndex at all times; answers are
// committed before the cursor advances.
type InterviewSession struct {
	SessionID            string              `json:"session_id"`
	UserID               uint                `json:"user_id"`
	ResumeAnalysis       ResumeAnalysis      `json:"resume_analysis"`
	Questions            []InterviewQuestion `json:"questions"`
	Answers              []AnswerRecord      `json:"answers"`
	CurrentQuestionIndex int                 `json:"current_question_index"`
	TechnicalScoreTotal  float64             `json:"technical_score_total"`
	BehavioralScoreTotal float64             `json:"behavioral_score_total"`
	Status               SessionStatus       `json:"status"`
}
