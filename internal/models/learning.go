package models

import (
	"time"

	"gorm.io/datatypes"
)

// TopicMastery is the rolling [0,100] mastery estimate for one
// (user, topic) pair. It is recomputed, not accumulated: every new quiz
// or assignment signal overwrites the stored score with a fresh blend.
type TopicMastery struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_topic"`
	Topic        string    `json:"topic" gorm:"not null;size:200;uniqueIndex:idx_user_topic" validate:"required"`
	MasteryScore float64   `json:"mastery_score" gorm:"not null" validate:"min=0,max=100"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (TopicMastery) TableName() string {
	return "topic_mastery"
}

// QuizAttempt is an immutable historical record of one quiz submission.
type QuizAttempt struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	Topic          string    `json:"topic" gorm:"not null;size:200;index"`
	Score          float64   `json:"score" gorm:"not null"`
	TotalQuestions int       `json:"total_questions" gorm:"not null"`
	CorrectAnswers int       `json:"correct_answers" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// UserResumeData is the analyzed-resume snapshot for a user: target role
// plus the topic lists extracted and suggested by the analyzer.
type UserResumeData struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"user_id" gorm:"not null;uniqueIndex"`
	Role            string         `json:"role" gorm:"size:200"`
	Topics          datatypes.JSON `json:"topics" gorm:"not null"`
	SuggestedTopics datatypes.JSON `json:"suggested_topics"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (UserResumeData) TableName() string {
	return "user_resume_data"
}

// ResumeAnalysisResult is the analyzer's structured output.
type ResumeAnalysisResult struct {
	SkillRelevance  int      `json:"skill_relevance"`
	ProjectDepth    int      `json:"project_depth"`
	ExperienceScore int      `json:"experience_score"`
	StructureScore  int      `json:"structure_score"`
	MissingSkills   []string `json:"missing_skills"`
	Recommendations []string `json:"recommendations"`
	ExtractedTopics []string `json:"extracted_topics"`
}
