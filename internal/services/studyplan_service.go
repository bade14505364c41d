package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/models"
)

// StudyPlanService produces weekly plans and curated resources. Every
// operation is fallback-eligible: a deterministic substitute is returned
// when the provider fails or returns unparseable content, so the learning
// flow is never blocked on AI availability.
type StudyPlanService interface {
	WeeklyPlan(ctx context.Context, weakTopics []string, role string) *models.StudyPlan
	StarterPlan(ctx context.Context, resumeTopics, suggestedTopics []string, role string) *models.StudyPlan
	Resources(ctx context.Context, topic, level string) *models.ResourceSet
}

type studyPlanService struct {
	provider ai.Provider
	logger   *slog.Logger
}

func NewStudyPlanService(provider ai.Provider, logger *slog.Logger) StudyPlanService {
	return &studyPlanService{provider: provider, logger: logger}
}

func (s *studyPlanService) WeeklyPlan(ctx context.Context, weakTopics []string, role string) *models.StudyPlan {
	if len(weakTopics) == 0 {
		return &models.StudyPlan{
			WeeklyGoal:       "Maintain strong performance across all topics.",
			DailyTasks:       []models.DailyTask{},
			MiniProjects:     []string{"Advanced Architecture Mini-Project"},
			RevisionSchedule: []string{"Weekly cumulative review"},
		}
	}

	content, err := s.provider.Generate(ctx, studyPlanPrompt(weakTopics, role))
	if err == nil {
		var plan models.StudyPlan
		if parseErr := decodeAIJSON(content, &plan); parseErr == nil && plan.WeeklyGoal != "" {
			return &plan
		}
		err = fmt.Errorf("unparseable study plan payload")
	}

	s.logger.Warn("Study plan generation failed, using fallback plan",
		"role", role, "error", err)
	return fallbackWeeklyPlan(weakTopics)
}

// fallbackWeeklyPlan assigns the first two weak topics to day blocks. It
// always returns a syntactically complete plan.
func fallbackWeeklyPlan(weakTopics []string) *models.StudyPlan {
	first := "General"
	if len(weakTopics) > 0 {
		first = weakTopics[0]
	}
	second := "General"
	if len(weakTopics) > 1 {
		second = weakTopics[1]
	}

	goalTopics := weakTopics
	if len(goalTopics) > 2 {
		goalTopics = goalTopics[:2]
	}

	return &models.StudyPlan{
		WeeklyGoal: fmt.Sprintf("Strengthen fundamentals in %s", strings.Join(goalTopics, ", ")),
		DailyTasks: []models.DailyTask{
			{Day: "Day 1-2", FocusTopic: first, Tasks: []string{"Watch tutorial", "Practical exercise"}},
			{Day: "Day 3-4", FocusTopic: second, Tasks: []string{"Read documentation", "Build small module"}},
		},
		MiniProjects:     []string{"Knowledge Reinforcement Project"},
		RevisionSchedule: []string{"End of week quiz"},
	}
}

func (s *studyPlanService) StarterPlan(ctx context.Context, resumeTopics, suggestedTopics []string, role string) *models.StudyPlan {
	content, err := s.provider.Generate(ctx, starterPlanPrompt(resumeTopics, suggestedTopics, role))
	if err == nil {
		var plan models.StudyPlan
		if parseErr := decodeAIJSON(content, &plan); parseErr == nil && plan.WeeklyGoal != "" {
			return &plan
		}
		err = fmt.Errorf("unparseable starter plan payload")
	}

	s.logger.Warn("Starter plan generation failed, using fallback plan",
		"role", role, "error", err)
	return fallbackStarterPlan(resumeTopics, suggestedTopics)
}

func fallbackStarterPlan(resumeTopics, suggestedTopics []string) *models.StudyPlan {
	known := "Core Fundamentals"
	if len(resumeTopics) > 0 {
		known = resumeTopics[0]
	}
	next := "New Concepts"
	if len(suggestedTopics) > 0 {
		next = suggestedTopics[0]
	}

	return &models.StudyPlan{
		WeeklyGoal: "Establish a strong technical foundation.",
		DailyTasks: []models.DailyTask{
			{Day: "Day 1-3", FocusTopic: known, Tasks: []string{"Quick review of existing skills"}},
			{Day: "Day 4-7", FocusTopic: next, Tasks: []string{"Introduction to recommended topics"}},
		},
		MiniProjects:     []string{"Self-Assessment Project"},
		RevisionSchedule: []string{"First diagnostic quiz"},
	}
}

func (s *studyPlanService) Resources(ctx context.Context, topic, level string) *models.ResourceSet {
	var searchIntent string
	switch level {
	case "Basic":
		searchIntent = "beginner tutorial, getting started, fundamentals"
	case "Intermediate":
		searchIntent = "intermediate deep dive, best practices, architecture"
	default:
		searchIntent = "advanced optimization, real world project, under the hood"
	}

	content, err := s.provider.Generate(ctx, resourcesPrompt(topic, level, searchIntent))
	if err == nil {
		var set models.ResourceSet
		if parseErr := decodeAIJSON(content, &set); parseErr == nil && set.Topic != "" {
			return &set
		}
		err = fmt.Errorf("unparseable resources payload")
	}

	s.logger.Warn("Resource fetch failed, using fallback resources",
		"topic", topic, "level", level, "error", err)
	return fallbackResources(topic, level)
}

// fallbackResources builds generic search-engine links so the UI always
// has something to render.
func fallbackResources(topic, level string) *models.ResourceSet {
	query := strings.ReplaceAll(topic, " ", "+")

	return &models.ResourceSet{
		Topic: topic,
		Level: level,
		Resources: models.ResourceCategories{
			YouTube: []models.ResourceLink{
				{Title: topic + " Crash Course", URL: "https://youtube.com/results?search_query=" + query},
			},
			Documentation: []models.ResourceLink{
				{Title: topic + " Official Docs", URL: "https://google.com/search?q=" + query + "+official+documentation"},
			},
			Practice: []models.ResourceLink{
				{Title: "Practice " + topic, URL: "https://google.com/search?q=practice+" + query},
			},
			Articles: []models.ResourceLink{
				{Title: "Understanding " + topic, URL: "https://medium.com/search?q=" + query},
			},
		},
	}
}
