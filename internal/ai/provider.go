package ai

import (
	"context"
	"strings"
)

// Provider is the single capability every AI backend exposes: turn a
// prompt into text. Implementations must honor ctx cancellation and
// return an error rather than blocking past the configured timeout.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// quotaSignatures are the substrings that identify a quota or rate-limit
// failure. Only these failures are eligible for provider fallback; any
// other error propagates to the caller untouched.
var quotaSignatures = []string{"insufficient_quota", "429", "rate_limit"}

// IsQuotaError reports whether err looks like a quota/rate-limit failure.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range quotaSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// StripCodeFence removes a wrapping markdown code fence from model
// output. Models routinely wrap JSON in ```json ... ``` despite being
// asked not to, so every parse site cleans the payload first.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
