package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnexus/learning-service/internal/ai"
)

func TestStudyPlanService_WeeklyPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("NoWeakTopicsSkipsProvider", func(t *testing.T) {
		provider := ai.NewMockProvider()
		svc := NewStudyPlanService(provider, testLogger())

		plan := svc.WeeklyPlan(ctx, nil, "Backend Engineer")

		assert.Equal(t, "Maintain strong performance across all topics.", plan.WeeklyGoal)
		assert.Empty(t, plan.DailyTasks)
		assert.Equal(t, []string{"Advanced Architecture Mini-Project"}, plan.MiniProjects)
		assert.Equal(t, []string{"Weekly cumulative review"}, plan.RevisionSchedule)
		assert.Equal(t, 0, provider.CallCount())
	})

	t.Run("ParsesGeneratedPlan", func(t *testing.T) {
		provider := ai.NewMockProvider().Respond(`{
  "weekly_goal": "Close the SQL gap.",
  "daily_tasks": [{"day": "Day 1", "focus_topic": "SQL", "tasks": ["Joins practice"]}],
  "mini_projects": ["Query analyzer"],
  "revision_schedule": ["Friday recap"]
}`)
		svc := NewStudyPlanService(provider, testLogger())

		plan := svc.WeeklyPlan(ctx, []string{"SQL"}, "Backend Engineer")

		assert.Equal(t, "Close the SQL gap.", plan.WeeklyGoal)
		require.Len(t, plan.DailyTasks, 1)
		assert.Equal(t, "SQL", plan.DailyTasks[0].FocusTopic)
	})

	t.Run("FallbackOnProviderFailure", func(t *testing.T) {
		provider := ai.NewMockProvider().Fail(fmt.Errorf("provider down"))
		svc := NewStudyPlanService(provider, testLogger())

		plan := svc.WeeklyPlan(ctx, []string{"SQL", "Kafka", "Redis"}, "Backend Engineer")

		// The goal names only the first two weak topics.
		assert.Equal(t, "Strengthen fundamentals in SQL, Kafka", plan.WeeklyGoal)
		require.Len(t, plan.DailyTasks, 2)
		assert.Equal(t, "Day 1-2", plan.DailyTasks[0].Day)
		assert.Equal(t, "SQL", plan.DailyTasks[0].FocusTopic)
		assert.Equal(t, "Day 3-4", plan.DailyTasks[1].Day)
		assert.Equal(t, "Kafka", plan.DailyTasks[1].FocusTopic)
	})

	t.Run("FallbackOnMissingGoal", func(t *testing.T) {
		provider := ai.NewMockProvider().Respond(`{"daily_tasks": []}`)
		svc := NewStudyPlanService(provider, testLogger())

		plan := svc.WeeklyPlan(ctx, []string{"SQL"}, "Backend Engineer")

		assert.Equal(t, "Strengthen fundamentals in SQL", plan.WeeklyGoal)
		assert.Equal(t, "General", plan.DailyTasks[1].FocusTopic)
	})
}

func TestStudyPlanService_StarterPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("FallbackOnUnparseablePayload", func(t *testing.T) {
		provider := ai.NewMockProvider().Respond("not json")
		svc := NewStudyPlanService(provider, testLogger())

		plan := svc.StarterPlan(ctx, []string{"Python"}, []string{"System Design"}, "Backend Engineer")

		assert.Equal(t, "Establish a strong technical foundation.", plan.WeeklyGoal)
		require.Len(t, plan.DailyTasks, 2)
		assert.Equal(t, "Day 1-3", plan.DailyTasks[0].Day)
		assert.Equal(t, "Python", plan.DailyTasks[0].FocusTopic)
		assert.Equal(t, "Day 4-7", plan.DailyTasks[1].Day)
		assert.Equal(t, "System Design", plan.DailyTasks[1].FocusTopic)
		assert.Equal(t, []string{"Self-Assessment Project"}, plan.MiniProjects)
		assert.Equal(t, []string{"First diagnostic quiz"}, plan.RevisionSchedule)
	})

	t.Run("FallbackDefaultsWithoutTopics", func(t *testing.T) {
		provider := ai.NewMockProvider().Fail(fmt.Errorf("provider down"))
		svc := NewStudyPlanService(provider, testLogger())

		plan := svc.StarterPlan(ctx, nil, nil, "Backend Engineer")

		assert.Equal(t, "Core Fundamentals", plan.DailyTasks[0].FocusTopic)
		assert.Equal(t, "New Concepts", plan.DailyTasks[1].FocusTopic)
	})
}

func TestStudyPlanService_Resources(t *testing.T) {
	ctx := context.Background()

	t.Run("ParsesGeneratedResources", func(t *testing.T) {
		provider := ai.NewMockProvider().Respond(`{
  "topic": "Go",
  "level": "Intermediate",
  "resources": {
    "youtube": [{"title": "Go Concurrency Patterns", "url": "https://youtube.com/watch?v=abc"}],
    "documentation": [],
    "practice": [],
    "articles": []
  }
}`)
		svc := NewStudyPlanService(provider, testLogger())

		set := svc.Resources(ctx, "Go", "Intermediate")

		assert.Equal(t, "Go", set.Topic)
		require.Len(t, set.Resources.YouTube, 1)
		assert.Equal(t, "Go Concurrency Patterns", set.Resources.YouTube[0].Title)
	})

	t.Run("FallbackSearchLinks", func(t *testing.T) {
		provider := ai.NewMockProvider().Fail(fmt.Errorf("provider down"))
		svc := NewStudyPlanService(provider, testLogger())

		set := svc.Resources(ctx, "System Design", "Basic")

		assert.Equal(t, "System Design", set.Topic)
		assert.Equal(t, "Basic", set.Level)
		assert.Equal(t, "https://youtube.com/results?search_query=System+Design", set.Resources.YouTube[0].URL)
		assert.Equal(t, "https://google.com/search?q=System+Design+official+documentation", set.Resources.Documentation[0].URL)
		assert.Equal(t, "https://google.com/search?q=practice+System+Design", set.Resources.Practice[0].URL)
		assert.Equal(t, "https://medium.com/search?q=System+Design", set.Resources.Articles[0].URL)
	})

	t.Run("SearchIntentTracksLevel", func(t *testing.T) {
		provider := ai.NewMockProvider().Respond(`{"topic": "Go", "level": "Advanced", "resources": {}}`)
		svc := NewStudyPlanService(provider, testLogger())

		svc.Resources(ctx, "Go", "Advanced")

		require.Len(t, provider.Prompts, 1)
		assert.Contains(t, provider.Prompts[0], "advanced optimization, real world project, under the hood")
	})
}
