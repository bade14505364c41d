package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/models"
)

func TestResumeService_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("ParsesProviderAnalysis", func(t *testing.T) {
		repo := newMockRepository()
		var saved *models.UserResumeData
		repo.learning.On("SaveResumeData", mock.Anything, mock.AnythingOfType("*models.UserResumeData")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*models.UserResumeData)
			}).Return(nil)

		provider := ai.NewMockProvider().Respond(`{
  "skill_relevance": 80,
  "project_depth": 70,
  "experience_score": 60,
  "structure_score": 90,
  "missing_skills": ["Kubernetes"],
  "recommendations": ["Quantify project impact."],
  "extracted_topics": ["Go", "SQL"]
}`)
		svc := NewResumeService(repo, provider, testLogger())

		resp, err := svc.Analyze(ctx, 1, "Go developer with five years of backend work.", "Backend Engineer")
		require.NoError(t, err)

		// 80*0.40 + 70*0.30 + 60*0.20 + 90*0.10 = 74
		assert.Equal(t, 74, resp.ResumeStrength)
		assert.Equal(t, []string{"Kubernetes"}, resp.MissingSkills)
		assert.Equal(t, []string{"Go", "SQL"}, resp.ExtractedTopics)

		require.NotNil(t, saved)
		assert.Equal(t, uint(1), saved.UserID)
		assert.Equal(t, "Backend Engineer", saved.Role)
		assert.Equal(t, []string{"Go", "SQL"}, decodeStringList(saved.Topics))
		assert.Equal(t, []string{"Kubernetes"}, decodeStringList(saved.SuggestedTopics))
	})

	t.Run("FallbackOnProviderFailure", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("SaveResumeData", mock.Anything, mock.Anything).Return(nil)

		provider := ai.NewMockProvider().Fail(fmt.Errorf("provider down"))
		svc := NewResumeService(repo, provider, testLogger())

		resp, err := svc.Analyze(ctx, 1, "resume text", "")
		require.NoError(t, err)

		assert.Equal(t, 75, resp.SkillRelevance)
		assert.Equal(t, 60, resp.ProjectDepth)
		assert.Equal(t, 70, resp.ExperienceScore)
		assert.Equal(t, 85, resp.StructureScore)
		// 75*0.40 + 60*0.30 + 70*0.20 + 85*0.10 = 70.5, rounded up.
		assert.Equal(t, 71, resp.ResumeStrength)
		assert.Equal(t, []string{"System Design", "Unit Testing", "Cloud Deployment"}, resp.MissingSkills)
		assert.Equal(t, []string{"Python", "JavaScript", "React", "SQL", "Git", "REST APIs"}, resp.ExtractedTopics)
		assert.Len(t, resp.Recommendations, 3)
	})

	t.Run("FallbackOnUnparseablePayload", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("SaveResumeData", mock.Anything, mock.Anything).Return(nil)

		provider := ai.NewMockProvider().Respond("I cannot produce JSON today.")
		svc := NewResumeService(repo, provider, testLogger())

		resp, err := svc.Analyze(ctx, 1, "resume text", "Backend Engineer")
		require.NoError(t, err)
		assert.Equal(t, 71, resp.ResumeStrength)
	})

	t.Run("DefaultsRoleWhenMissing", func(t *testing.T) {
		repo := newMockRepository()
		var saved *models.UserResumeData
		repo.learning.On("SaveResumeData", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*models.UserResumeData)
			}).Return(nil)

		svc := NewResumeService(repo, ai.NewMockProvider().Fail(fmt.Errorf("down")), testLogger())
		_, err := svc.Analyze(ctx, 1, "resume text", "")
		require.NoError(t, err)

		require.NotNil(t, saved)
		assert.Equal(t, DefaultRole, saved.Role)
	})

	t.Run("EmptyResumeText", func(t *testing.T) {
		svc := NewResumeService(newMockRepository(), ai.NewMockProvider(), testLogger())
		_, err := svc.Analyze(ctx, 1, "   ", "Backend Engineer")
		assert.ErrorIs(t, err, ErrResumeTextRequired)
	})

	t.Run("SaveFailurePropagates", func(t *testing.T) {
		repo := newMockRepository()
		repo.learning.On("SaveResumeData", mock.Anything, mock.Anything).Return(fmt.Errorf("db down"))

		svc := NewResumeService(repo, ai.NewMockProvider().Fail(fmt.Errorf("down")), testLogger())
		_, err := svc.Analyze(ctx, 1, "resume text", "Backend Engineer")
		assert.Error(t, err)
	})
}
