package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment is an AI-generated practical task tied to a topic. The
// instruction text is normalized at generation time from whatever shape
// the provider returned.
type Assignment struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	UserID               uint      `json:"user_id" gorm:"not null;index"`
	Title                string    `json:"title" gorm:"not null;size:300;index"`
	Topic                string    `json:"topic" gorm:"not null;size:200;index"`
	Type                 string    `json:"type" gorm:"not null;size:50"` // coding | mini_project | case_study
	Difficulty           string    `json:"difficulty" gorm:"not null;size:50"`
	Instructions         string    `json:"instructions" gorm:"type:text;not null"`
	ExpectedDeliverables string    `json:"expected_deliverables" gorm:"type:text;not null"`
	EvaluationCriteria   string    `json:"evaluation_criteria" gorm:"type:text;not null"`
	CreatedAt            time.Time `json:"created_at"`

	Submissions []AssignmentSubmission `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// AssignmentSubmission is an immutable record of one submission and its
// AI evaluation.
type AssignmentSubmission struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	AssignmentID uint           `json:"assignment_id" gorm:"not null;index"`
	UserID       uint           `json:"user_id" gorm:"not null;index"`
	CodeText     *string        `json:"code_text" gorm:"type:text"`
	GithubLink   *string        `json:"github_link" gorm:"size:500"`
	Score        *float64       `json:"score"`
	Evaluation   datatypes.JSON `json:"evaluation"`
	SubmittedAt  time.Time      `json:"submitted_at" gorm:"index"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}

// SubmissionEvaluation is the structured grading result for one
// assignment submission.
type SubmissionEvaluation struct {
	Score                  float64  `json:"score"`
	ConceptCoverage        string   `json:"concept_coverage"`
	Mistakes               []string `json:"mistakes"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}
