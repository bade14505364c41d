package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config selects and configures the AI backend.
type Config struct {
	Provider    string // "openai", "gemini" or "mock"
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
	Timeout     time.Duration
}

// NewProvider builds the configured provider. When the primary is OpenAI
// and a Gemini key is also present, the result is a FallbackProvider that
// switches to Gemini on quota errors. An unsupported provider type is a
// startup error.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	var base Provider

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		openaiP, err := NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, fmt.Errorf("initializing openai provider: %w", err)
		}
		base = openaiP

		if cfg.GeminiKey != "" && cfg.GeminiKey != "PASTE_YOUR_GEMINI_KEY_HERE" {
			geminiP, err := NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiModel)
			if err != nil {
				logger.Warn("could not initialize gemini fallback", "error", err)
			} else {
				base = NewFallbackProvider(openaiP, geminiP, logger)
			}
		}

	case "gemini":
		geminiP, err := NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini provider: %w", err)
		}
		base = geminiP

	case "mock":
		base = NewMockProvider()

	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.Provider)
	}

	return WithTimeout(base, cfg.Timeout), nil
}
