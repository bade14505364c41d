package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/prepnexus/learning-service/internal/mastery"
	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
)

// DashboardService aggregates the stored learning history into the
// student dashboard payload: the mastery heatmap, risk picture, topic
// recommendations and the current study plan.
type DashboardService interface {
	Dashboard(ctx context.Context, userID uint) (*DashboardResponse, error)
	Topics(ctx context.Context, userID uint) ([]TopicOverview, error)
	Resources(ctx context.Context, userID uint, topic string) (*models.ResourceSet, error)
}

type HeatmapEntry struct {
	Topic   string   `json:"topic"`
	Mastery *float64 `json:"mastery"`
	Risk    string   `json:"risk"`
	Level   string   `json:"level"`
}

type TrendEntry struct {
	Type  string    `json:"type"`
	Score float64   `json:"score"`
	Date  time.Time `json:"date"`
	Topic string    `json:"topic"`
}

type DashboardResponse struct {
	IsNewUser                  bool              `json:"is_new_user"`
	MasteryHeatmap             []HeatmapEntry    `json:"mastery_heatmap"`
	HighRiskTopics             []string          `json:"high_risk_topics"`
	ResumeTopics               []string          `json:"resume_topics"`
	ImprovementTopics          []string          `json:"improvement_topics"`
	ResumeStrengthTopics       []string          `json:"resume_strength_topics"`
	RecommendedQuizTopic       string            `json:"recommended_quiz_topic"`
	RecommendedAssignmentTopic string            `json:"recommended_assignment_topic"`
	ConsistencyScore           float64           `json:"consistency_score"`
	PerformanceTrend           []TrendEntry      `json:"performance_trend"`
	StudyPlan                  *models.StudyPlan `json:"study_plan"`
}

type TopicOverview struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Progress         int    `json:"progress"`
	TotalModules     int    `json:"totalModules"`
	CompletedModules int    `json:"completedModules"`
}

type dashboardService struct {
	repo   repositories.Repository
	plans  StudyPlanService
	logger *slog.Logger
	now    func() time.Time
}

func NewDashboardService(repo repositories.Repository, plans StudyPlanService, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		plans:  plans,
		logger: logger,
		now:    time.Now,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, userID uint) (*DashboardResponse, error) {
	resumeData, err := s.repo.Learning().GetResumeData(ctx, userID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load resume data: %w", err)
	}

	resumeTopics := []string{}
	improvementTopics := []string{}
	if resumeData != nil {
		resumeTopics = decodeStringList(resumeData.Topics)
		improvementTopics = decodeStringList(resumeData.SuggestedTopics)
	}
	role := resolveRole(resumeData)

	records, err := s.repo.Learning().ListMastery(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery records: %w", err)
	}
	masteryMap := make(map[string]*float64, len(records))
	for _, r := range records {
		score := r.MasteryScore
		masteryMap[r.Topic] = &score
	}

	attempts, err := s.repo.Learning().ListQuizAttempts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz attempts: %w", err)
	}
	submissions, err := s.repo.Assignment().ListSubmissionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	assignmentTopics, err := s.repo.Assignment().DistinctTopics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment topics: %w", err)
	}

	isNewUser := len(attempts) == 0 && len(submissions) == 0

	sortedTopics := collectTopics(resumeTopics, improvementTopics, attempts, assignmentTopics)

	heatmap := make([]HeatmapEntry, 0, len(sortedTopics))
	var highRisk, weak []string
	for _, topic := range sortedTopics {
		score := masteryMap[topic]
		risk := mastery.Risk(score)

		if risk == mastery.RiskHigh {
			highRisk = append(highRisk, topic)
			weak = append(weak, topic)
		} else if score != nil && *score < 60 {
			weak = append(weak, topic)
		}

		heatmap = append(heatmap, HeatmapEntry{
			Topic:   topic,
			Mastery: score,
			Risk:    string(risk),
			Level:   string(mastery.TopicLevel(score)),
		})
	}

	resp := &DashboardResponse{
		IsNewUser:            isNewUser,
		MasteryHeatmap:       heatmap,
		HighRiskTopics:       []string{},
		ResumeTopics:         resumeTopics,
		ImprovementTopics:    improvementTopics,
		ResumeStrengthTopics: resumeTopics,
		ConsistencyScore:     recentConsistency(attempts, submissions, s.now()),
		PerformanceTrend:     []TrendEntry{},
	}

	if isNewUser {
		resp.RecommendedQuizTopic = firstOr(improvementTopics, firstOr(resumeTopics, "General Aptitude"))
		resp.RecommendedAssignmentTopic = firstOr(resumeTopics, "Foundational Project")
		resp.StudyPlan = s.plans.StarterPlan(ctx, resumeTopics, improvementTopics, role)
		return resp, nil
	}

	resp.HighRiskTopics = append([]string{}, highRisk...)
	resp.RecommendedQuizTopic = firstOr(highRisk, firstOr(sortedTopics, ""))
	resp.RecommendedAssignmentTopic = lastOr(highRisk, lastOr(sortedTopics, ""))

	planFocus := weak
	if len(planFocus) == 0 {
		planFocus = sortedTopics
	}
	if len(planFocus) > 3 {
		planFocus = planFocus[:3]
	}
	resp.StudyPlan = s.plans.WeeklyPlan(ctx, planFocus, role)

	resp.PerformanceTrend = performanceTrend(attempts, submissions)

	return resp, nil
}

// Topics lists every topic the user is tracking, with progress derived
// from stored mastery.
func (s *dashboardService) Topics(ctx context.Context, userID uint) ([]TopicOverview, error) {
	resumeData, err := s.repo.Learning().GetResumeData(ctx, userID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load resume data: %w", err)
	}
	if resumeData == nil {
		return []TopicOverview{}, nil
	}

	records, err := s.repo.Learning().ListMastery(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery records: %w", err)
	}
	masteryMap := masteryScoreMap(records)

	const totalModules = 10

	all := append(decodeStringList(resumeData.Topics), decodeStringList(resumeData.SuggestedTopics)...)
	topics := make([]TopicOverview, 0, len(all))
	for i, title := range all {
		progress := int(masteryMap[title])
		topics = append(topics, TopicOverview{
			ID:               fmt.Sprintf("%d", i+1),
			Title:            title,
			Description:      fmt.Sprintf("Master core concepts of %s", title),
			Progress:         progress,
			TotalModules:     totalModules,
			CompletedModules: progress * totalModules / 100,
		})
	}

	return topics, nil
}

// Resources picks the resource tier from the user's stored mastery for
// the topic, then delegates to the study plan service.
func (s *dashboardService) Resources(ctx context.Context, userID uint, topic string) (*models.ResourceSet, error) {
	if topic == "" {
		return nil, ErrTopicRequired
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
	return s.plans.Resources(ctx, topic, level), nil
}

func collectTopics(resumeTopics, improvementTopics []string, attempts []*models.QuizAttempt, assignmentTopics []string) []string {
	seen := make(map[string]struct{})
	for _, t := range resumeTopics {
		seen[t] = struct{}{}
	}
	for _, t := range improvementTopics {
		seen[t] = struct{}{}
	}
	for _, a := range attempts {
		seen[a.Topic] = struct{}{}
	}
	for _, t := range assignmentTopics {
		seen[t] = struct{}{}
	}

	sorted := make([]string, 0, len(seen))
	for t := range seen {
		sorted = append(sorted, t)
	}
	sort.Strings(sorted)
	return sorted
}

func recentConsistency(attempts []*models.QuizAttempt, submissions []*models.AssignmentSubmission, now time.Time) float64 {
	since := mastery.WindowStart(now)

	var quizzes, recent int
	for _, a := range attempts {
		if !a.CreatedAt.Before(since) {
			quizzes++
		}
	}
	for _, s := range submissions {
		if !s.SubmittedAt.Before(since) {
			recent++
		}
	}

	return mastery.Consistency(quizzes, recent)
}

// performanceTrend merges the last 10 quiz attempts and submissions into
// a single chronological series, trimmed to the trailing 10 entries.
func performanceTrend(attempts []*models.QuizAttempt, submissions []*models.AssignmentSubmission) []TrendEntry {
	recentQuizzes := append([]*models.QuizAttempt(nil), attempts...)
	sort.Slice(recentQuizzes, func(i, j int) bool {
		return recentQuizzes[i].CreatedAt.After(recentQuizzes[j].CreatedAt)
	})
	if len(recentQuizzes) > 10 {
		recentQuizzes = recentQuizzes[:10]
	}

	recentSubs := append([]*models.AssignmentSubmission(nil), submissions...)
	sort.Slice(recentSubs, func(i, j int) bool {
		return recentSubs[i].SubmittedAt.After(recentSubs[j].SubmittedAt)
	})
	if len(recentSubs) > 10 {
		recentSubs = recentSubs[:10]
	}

	trend := make([]TrendEntry, 0, len(recentQuizzes)+len(recentSubs))
	for _, q := range recentQuizzes {
		trend = append(trend, TrendEntry{Type: "Quiz", Score: q.Score, Date: q.CreatedAt, Topic: q.Topic})
	}
	for _, sub := range recentSubs {
		if sub.Score == nil {
			continue
		}
		trend = append(trend, TrendEntry{Type: "Assignment", Score: *sub.Score, Date: sub.SubmittedAt, Topic: "Project"})
	}

	sort.Slice(trend, func(i, j int) bool { return trend[i].Date.Before(trend[j].Date) })
	if len(trend) > 10 {
		trend = trend[len(trend)-10:]
	}
	return trend
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}

func lastOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[len(items)-1]
	}
	return fallback
}
