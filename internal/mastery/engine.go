package mastery

import (
	"math"
	"time"
)

// RiskLevel classifies a mastery score for dashboard and study-plan use.
type RiskLevel string

const (
	RiskNotAttempted RiskLevel = "Not Attempted"
	RiskHigh         RiskLevel = "High Risk"
	RiskModerate     RiskLevel = "Moderate"
	RiskStrong       RiskLevel = "Strong"
)

// Level is the difficulty tier used to scale generated content.
type Level string

const (
	LevelBasic        Level = "Basic"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// DifficultyTrend is the adaptive-difficulty decision for the next activity.
type DifficultyTrend string

const (
	TrendIncrease DifficultyTrend = "increase"
	TrendDecrease DifficultyTrend = "decrease"
	TrendMaintain DifficultyTrend = "maintain"
)

// Calculate blends the latest quiz and assignment signals with the
// activity consistency term into a single mastery score. Each signal is
// optional; when neither is present there is no mastery yet and ok is
// false. The result is clamped to [0,100] and rounded to 2 decimals.
//
// The weights deliberately discount history: a user who stops practicing
// sees mastery decay through the dropping consistency term.
func Calculate(quizScore, assignmentScore *float64, consistency float64) (float64, bool) {
	var score float64
	switch {
	case quizScore != nil && assignmentScore != nil:
		score = *quizScore*0.50 + *assignmentScore*0.30 + consistency*0.20
	case quizScore != nil:
		score = *quizScore*0.70 + consistency*0.30
	case assignmentScore != nil:
		score = *assignmentScore*0.60 + consistency*0.40
	default:
		return 0, false
	}

	return round2(clamp(score, 0, 100)), true
}

// Risk classifies a mastery score. The boundaries are exact: 40 and 70
// themselves land in Moderate.
func Risk(score *float64) RiskLevel {
	if score == nil {
		return RiskNotAttempted
	}
	switch {
	case *score < 40:
		return RiskHigh
	case *score <= 70:
		return RiskModerate
	default:
		return RiskStrong
	}
}

// TopicLevel maps mastery to the difficulty tier for generated content.
// Note the upper boundary (75) differs from the risk thresholds.
func TopicLevel(score *float64) Level {
	if score == nil {
		return LevelBasic
	}
	switch {
	case *score < 40:
		return LevelBasic
	case *score <= 75:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

// AdaptiveDifficulty decides difficulty scaling from recent scores.
func AdaptiveDifficulty(recentScores []float64) DifficultyTrend {
	if len(recentScores) == 0 {
		return TrendMaintain
	}

	var sum float64
	for _, s := range recentScores {
		sum += s
	}
	avg := sum / float64(len(recentScores))

	switch {
	case avg > 75:
		return TrendIncrease
	case avg < 50:
		return TrendDecrease
	default:
		return TrendMaintain
	}
}

// ConsistencyWindow is the trailing window counted toward the consistency
// score.
const ConsistencyWindow = 7 * 24 * time.Hour

// Consistency converts recent activity counts into a [0,100] score:
// 10 points per quiz attempt or assignment submission inside the trailing
// window, capped at 100. It is recomputed fresh on every mastery update,
// never cached.
func Consistency(recentQuizzes, recentAssignments int) float64 {
	return math.Min(100, float64(recentQuizzes+recentAssignments)*10)
}

// WindowStart returns the inclusive start of the consistency window
// relative to now.
func WindowStart(now time.Time) time.Time {
	return now.Add(-ConsistencyWindow)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
