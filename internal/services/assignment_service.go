package services

import (
	"context"
	"encoding/json"
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

// CapstoneName is the reserved cross-topic capstone challenge offered in
// the assignment options.
const CapstoneName = "Career Execution Challenge"

type AssignmentService interface {
	Options(ctx context.Context, userID uint) (*AssignmentOptionsResponse, error)
	Generate(ctx context.Context, userID uint, topic string) (*models.Assignment, error)
	Get(ctx context.Context, userID, assignmentID uint) (*AssignmentDetail, error)
	List(ctx context.Context, userID uint) ([]AssignmentSummary, error)
	Submit(ctx context.Context, userID uint, req *AssignmentSubmitRequest) (*AssignmentSubmitResponse, error)
}

type AssignmentOptionsResponse struct {
	SkillProjects  []string `json:"skill_projects"`
	GrowthProjects []string `json:"growth_projects"`
	Capstone       string   `json:"capstone"`
}

type AssignmentSummary struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Topic      string    `json:"topic"`
	Difficulty string    `json:"difficulty"`
	Status     string    `json:"status"`
	Score      *float64  `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

type AssignmentDetail struct {
	ID                   uint            `json:"id"`
	Title                string          `json:"title"`
	Topic                string          `json:"topic"`
	Difficulty           string          `json:"difficulty"`
	Instructions         string          `json:"instructions"`
	ExpectedDeliverables string          `json:"expected_deliverables"`
	EvaluationCriteria   string          `json:"evaluation_criteria"`
	Status               string          `json:"status"`
	Score                *float64        `json:"score"`
	Submission           *string         `json:"submission"`
	Evaluation           json.RawMessage `json:"evaluation"`
}

type AssignmentSubmitRequest struct {
	AssignmentID uint    `json:"assignment_id" validate:"required"`
	CodeText     *string `json:"code_text"`
	GithubLink   *string `json:"github_link"`
}

type AssignmentSubmitResponse struct {
	SubmissionID uint                         `json:"submission_id"`
	Score        float64                      `json:"score"`
	Evaluation   *models.SubmissionEvaluation `json:"evaluation"`
	NewMastery   float64                      `json:"new_mastery"`
	LevelUp      bool                         `json:"level_up,omitempty"`
	Topic        string                       `json:"topic,omitempty"`
	NewLevel     string                       `json:"new_level,omitempty"`
}

type assignmentService struct {
	repo      repositories.Repository
	provider  ai.Provider
	publisher events.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewAssignmentService(repo repositories.Repository, provider ai.Provider, publisher events.EventPublisher, logger *slog.Logger) AssignmentService {
	return &assignmentService{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *assignmentService) Options(ctx context.Context, userID uint) (*AssignmentOptionsResponse, error) {
	resumeData, err := s.repo.Learning().GetResumeData(ctx, userID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load resume data: %w", err)
	}
	if resumeData == nil {
		return &AssignmentOptionsResponse{
			SkillProjects:  []string{},
			GrowthProjects: []string{},
			Capstone:       CapstoneName,
		}, nil
	}

	records, err := s.repo.Learning().ListMastery(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery records: %w", err)
	}
	masteryMap := masteryScoreMap(records)

	resumeTopics := decodeStringList(resumeData.Topics)
	growth := make([]string, 0, len(resumeTopics))
	for _, topic := range resumeTopics {
		if masteryMap[topic] < 50 {
			growth = append(growth, topic)
		}
	}

	return &AssignmentOptionsResponse{
		SkillProjects:  resumeTopics,
		GrowthProjects: growth,
		Capstone:       CapstoneName,
	}, nil
}

func (s *assignmentService) Generate(ctx context.Context, userID uint, topic string) (*models.Assignment, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrTopicRequired
	}

	resumeData, err := s.repo.Learning().GetResumeData(ctx, userID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load resume data: %w", err)
	}
	role := resolveRole(resumeData)

	var score *float64
	record, err := s.repo.Learning().GetMastery(ctx, userID, topic)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load mastery: %w", err)
	}
	if record != nil {
		score = &record.MasteryScore
	}
	level := string(mastery.TopicLevel(score))

	generated, err := s.generateAssignment(ctx, topic, level, role)
	if err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		UserID:               userID,
		Title:                generated.Title,
		Topic:                topic,
		Type:                 generated.Type,
		Difficulty:           generated.Difficulty,
		Instructions:         generated.Instructions,
		ExpectedDeliverables: generated.ExpectedDeliverables,
		EvaluationCriteria:   generated.EvaluationCriteria,
	}
	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}

	s.publishEvent(ctx, events.EventAssignmentGenerated, events.AssignmentGeneratedEvent{
		UserID:       userID,
		AssignmentID: assignment.ID,
		Topic:        topic,
		Difficulty:   assignment.Difficulty,
	})

	return assignment, nil
}

// generateAssignment prompts the provider and normalizes whatever shape
// comes back. Only a JSON-decode failure earns the single retry; the
// normalization itself accepts any subset of the expected fields.
func (s *assignmentService) generateAssignment(ctx context.Context, topic, level, role string) (*models.GeneratedAssignment, error) {
	prompt := assignmentPrompt(topic, level, role, assignmentInstructionsForLevel(level))

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		content, err := s.provider.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAssignmentGenFailed, err)
		}

		var payload rawAssignmentPayload
		if err := decodeAIJSON(content, &payload); err != nil {
			s.logger.Warn("Assignment generation produced invalid JSON",
				"topic", topic, "attempt", attempt, "error", err)
			lastErr = err
			continue
		}

		return normalizeAssignment(&payload, topic, level), nil
	}

	return nil, fmt.Errorf("%w: %v", ErrAssignmentGenFailed, lastErr)
}

// rawAssignmentPayload tolerates the loose shapes providers return:
// list fields may arrive as strings, criteria may be a string or a list.
type rawAssignmentPayload struct {
	Title              string          `json:"title"`
	Difficulty         string          `json:"difficulty"`
	ProblemStatement   string          `json:"problem_statement"`
	Requirements       json.RawMessage `json:"requirements"`
	Constraints        json.RawMessage `json:"constraints"`
	ExpectedOutput     string          `json:"expected_output"`
	EvaluationCriteria json.RawMessage `json:"evaluation_criteria"`
	Instructions       string          `json:"instructions"`
}

// normalizeAssignment assembles free-text instructions from whichever
// structured fields are present, with markdown bullet formatting for
// lists.
func normalizeAssignment(payload *rawAssignmentPayload, topic, level string) *models.GeneratedAssignment {
	var parts []string
	if payload.ProblemStatement != "" {
		parts = append(parts, "**Problem Statement:**\n"+payload.ProblemStatement)
	}
	if reqs := rawToStringList(payload.Requirements); len(reqs) > 0 {
		parts = append(parts, "**Requirements:**\n- "+strings.Join(reqs, "\n- "))
	}
	if cons := rawToStringList(payload.Constraints); len(cons) > 0 {
		parts = append(parts, "**Constraints:**\n- "+strings.Join(cons, "\n- "))
	}
	if payload.ExpectedOutput != "" {
		parts = append(parts, "**Expected Output:**\n"+payload.ExpectedOutput)
	}

	var instructions string
	switch {
	case len(parts) == 0 && payload.Instructions != "":
		instructions = payload.Instructions
	case len(parts) > 0:
		instructions = strings.Join(parts, "\n\n")
	default:
		instructions = "Please refer to the title for instructions."
	}

	criteria := "General correctness"
	if list := rawToStringList(payload.EvaluationCriteria); len(list) > 0 {
		criteria = strings.Join(list, ", ")
	} else if str := rawToString(payload.EvaluationCriteria); str != "" {
		criteria = str
	}

	title := payload.Title
	if title == "" {
		title = fmt.Sprintf("%s Assignment on %s", level, topic)
	}
	difficulty := payload.Difficulty
	if difficulty == "" {
		difficulty = level
	}

	return &models.GeneratedAssignment{
		Title:                title,
		Type:                 "coding",
		Difficulty:           difficulty,
		Instructions:         instructions,
		ExpectedDeliverables: "Code submission",
		EvaluationCriteria:   criteria,
	}
}

func rawToStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return ""
	}
	return str
}

func (s *assignmentService) Get(ctx context.Context, userID, assignmentID uint) (*AssignmentDetail, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	detail := &AssignmentDetail{
		ID:                   assignment.ID,
		Title:                assignment.Title,
		Topic:                assignment.Topic,
		Difficulty:           assignment.Difficulty,
		Instructions:         assignment.Instructions,
		ExpectedDeliverables: assignment.ExpectedDeliverables,
		EvaluationCriteria:   assignment.EvaluationCriteria,
		Status:               "pending",
	}

	latest, err := s.repo.Assignment().LatestSubmission(ctx, assignmentID, userID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load latest submission: %w", err)
	}
	if latest != nil {
		detail.Status = submissionStatus(latest)
		detail.Score = latest.Score
		detail.Submission = latest.GithubLink
		detail.Evaluation = json.RawMessage(latest.Evaluation)
	}

	return detail, nil
}

func (s *assignmentService) List(ctx context.Context, userID uint) ([]AssignmentSummary, error) {
	assignments, err := s.repo.Assignment().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	summaries := make([]AssignmentSummary, 0, len(assignments))
	for _, a := range assignments {
		summary := AssignmentSummary{
			ID:         a.ID,
			Title:      a.Title,
			Topic:      a.Topic,
			Difficulty: a.Difficulty,
			Status:     "pending",
			CreatedAt:  a.CreatedAt,
		}

		latest, err := s.repo.Assignment().LatestSubmission(ctx, a.ID, userID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to load latest submission: %w", err)
		}
		if latest != nil {
			summary.Status = submissionStatus(latest)
			summary.Score = latest.Score
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func submissionStatus(sub *models.AssignmentSubmission) string {
	if sub.Score != nil {
		return "graded"
	}
	return "submitted"
}

func (s *assignmentService) Submit(ctx context.Context, userID uint, req *AssignmentSubmitRequest) (*AssignmentSubmitResponse, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, req.AssignmentID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	codeText := strPtrValue(req.CodeText)
	githubLink := strPtrValue(req.GithubLink)
	if codeText == "" && githubLink == "" {
		return nil, ErrSubmissionContentMissing
	}

	evaluation, err := s.evaluateSubmission(ctx, assignment, codeText, githubLink)
	if err != nil {
		return nil, err
	}

	evalJSON, err := json.Marshal(evaluation)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluation: %w", err)
	}

	submission := &models.AssignmentSubmission{
		AssignmentID: assignment.ID,
		UserID:       userID,
		CodeText:     req.CodeText,
		GithubLink:   req.GithubLink,
		Score:        &evaluation.Score,
		Evaluation:   evalJSON,
	}
	if err := s.repo.Assignment().CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	resp := &AssignmentSubmitResponse{
		SubmissionID: submission.ID,
		Score:        evaluation.Score,
		Evaluation:   evaluation,
	}

	if err := s.updateMasteryAfterSubmission(ctx, userID, assignment.Topic, evaluation.Score, resp); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventAssignmentEvaluated, events.AssignmentEvaluatedEvent{
		UserID:       userID,
		AssignmentID: assignment.ID,
		Topic:        assignment.Topic,
		Score:        evaluation.Score,
		NewMastery:   resp.NewMastery,
	})

	return resp, nil
}

// evaluateSubmission is single-shot: no retry, no fallback. A fabricated
// grade is worse than an explicit failure.
func (s *assignmentService) evaluateSubmission(ctx context.Context, assignment *models.Assignment, codeText, githubLink string) (*models.SubmissionEvaluation, error) {
	prompt := evaluationPrompt(assignment.Title, assignment.EvaluationCriteria, codeText, githubLink)

	content, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	var evaluation models.SubmissionEvaluation
	if err := decodeAIJSON(content, &evaluation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}
	if evaluation.Score < 0 || evaluation.Score > 100 {
		return nil, fmt.Errorf("%w: score %v out of range", ErrEvaluationFailed, evaluation.Score)
	}

	return &evaluation, nil
}

// updateMasteryAfterSubmission blends the fresh assignment grade with the
// topic's latest quiz signal and a freshly computed consistency term,
// detecting level transitions on the way.
func (s *assignmentService) updateMasteryAfterSubmission(ctx context.Context, userID uint, topic string, assignmentScore float64, resp *AssignmentSubmitResponse) error {
	var quizScore *float64
	latestQuiz, err := s.repo.Learning().LatestQuizAttempt(ctx, userID, topic)
	if err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to load latest quiz attempt: %w", err)
	}
	if latestQuiz != nil {
		quizScore = &latestQuiz.Score
	}

	consistency, err := consistencyScore(ctx, s.repo, userID, s.now())
	if err != nil {
		return err
	}

	var oldScore *float64
	record, err := s.repo.Learning().GetMastery(ctx, userID, topic)
	if err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to load mastery: %w", err)
	}
	if record != nil {
		oldScore = &record.MasteryScore
	}
	oldLevel := mastery.TopicLevel(oldScore)

	newScore, ok := mastery.Calculate(quizScore, &assignmentScore, consistency)
	if !ok {
		return fmt.Errorf("mastery computation yielded no signal")
	}
	newLevel := mastery.TopicLevel(&newScore)

	updated, err := s.repo.Learning().UpsertMastery(ctx, userID, topic, newScore)
	if err != nil {
		return fmt.Errorf("failed to upsert mastery: %w", err)
	}
	resp.NewMastery = updated.MasteryScore

	s.publishEvent(ctx, events.EventMasteryUpdated, events.MasteryUpdatedEvent{
		UserID:       userID,
		Topic:        topic,
		MasteryScore: updated.MasteryScore,
		RiskLevel:    string(mastery.Risk(&updated.MasteryScore)),
		TopicLevel:   string(newLevel),
	})

	var previous float64
	if oldScore != nil {
		previous = *oldScore
	}
	if oldLevel != newLevel && newScore > previous {
		resp.LevelUp = true
		resp.Topic = topic
		resp.NewLevel = string(newLevel)

		s.publishEvent(ctx, events.EventTopicLevelUp, events.TopicLevelUpEvent{
			UserID:   userID,
			Topic:    topic,
			OldLevel: string(oldLevel),
			NewLevel: string(newLevel),
		})
	}

	return nil
}

func (s *assignmentService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewLearningEvent(eventType, payload)
	if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish learning event", "event_type", eventType, "error", err)
	}
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// assignmentInstructionsForLevel scales the task shape with the tier.
func assignmentInstructionsForLevel(level string) string {
	switch level {
	case string(mastery.LevelBasic):
		return "Generate 1 small task + 1 conceptual question."
	case string(mastery.LevelIntermediate):
		return "Generate a multi-step problem. Include constraints."
	default:
		return "Generate a mini project. Include: Problem statement, Requirements, Edge cases, Evaluation criteria."
	}
}
