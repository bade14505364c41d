package services

import (
	"encoding/json"
	"fmt"
	"math"

	"gorm.io/datatypes"

	"github.com/prepnexus/learning-service/internal/ai"
	"github.com/prepnexus/learning-service/internal/models"
)

// DefaultRole is used whenever a user has no analyzed resume on file.
const DefaultRole = "Software Engineer"

// decodeAIJSON strips code-fence wrapping and decodes the provider output
// into the target schema.
func decodeAIJSON(content string, v interface{}) error {
	cleaned := ai.StripCodeFence(content)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("malformed AI output: %w", err)
	}
	return nil
}

// decodeStringList unpacks a JSON column holding a string array. A nil
// or unreadable column yields an empty list, never an error.
func decodeStringList(col datatypes.JSON) []string {
	if len(col) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(col, &out); err != nil {
		return nil
	}
	return out
}

func encodeStringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	raw, _ := json.Marshal(items)
	return datatypes.JSON(raw)
}

// resolveRole picks the user's target role from resume data, defaulting
// when no analysis exists.
func resolveRole(resumeData *models.UserResumeData) string {
	if resumeData != nil && resumeData.Role != "" {
		return resumeData.Role
	}
	return DefaultRole
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
