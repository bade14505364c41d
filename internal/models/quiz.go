package models

// QuizQuestion is one generated multiple-choice question. Exactly 4
// options; question, correct answer and explanation are all non-empty
// after validation.
type QuizQuestion struct {
	ID            int      `json:"id"`
	Type          string   `json:"type"` // always "mcq_single"
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Quiz is a generated quiz of exactly 5 questions.
type Quiz struct {
	Title      string         `json:"title"`
	Topic      string         `json:"topic"`
	Difficulty string         `json:"difficulty"`
	TimeLimit  int            `json:"time_limit"` // minutes
	Questions  []QuizQuestion `json:"questions"`
}

// GeneratedAssignment is the normalized output of assignment generation,
// before persistence.
type GeneratedAssignment struct {
	Title                string `json:"title"`
	Type                 string `json:"type"`
	Difficulty           string `json:"difficulty"`
	Instructions         string `json:"instructions"`
	ExpectedDeliverables string `json:"expected_deliverables"`
	EvaluationCriteria   string `json:"evaluation_criteria"`
}

// DailyTask is one block of a weekly study plan.
type DailyTask struct {
	Day        string   `json:"day"`
	FocusTopic string   `json:"focus_topic"`
	Tasks      []string `json:"tasks"`
}

// StudyPlan is a structured weekly plan. Fallback construction
// guarantees it is always syntactically complete.
type StudyPlan struct {
	WeeklyGoal       string      `json:"weekly_goal"`
	DailyTasks       []DailyTask `json:"daily_tasks"`
	MiniProjects     []string    `json:"mini_projects"`
	RevisionSchedule []string    `json:"revision_schedule"`
}

// ResourceLink is one curated learning resource.
type ResourceLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ResourceCategories groups curated links by medium.
type ResourceCategories struct {
	YouTube       []ResourceLink `json:"youtube"`
	Documentation []ResourceLink `json:"documentation"`
	Practice      []ResourceLink `json:"practice"`
	Articles      []ResourceLink `json:"articles"`
}

// ResourceSet is the curated resource bundle for a (topic, level) pair.
type ResourceSet struct {
	Topic     string             `json:"topic"`
	Level     string             `json:"level"`
	Resources ResourceCategories `json:"resources"`
}
