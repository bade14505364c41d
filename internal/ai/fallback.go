package ai

import (
	"context"
	"log/slog"
)

// FallbackProvider tries a primary provider and, only when the primary
// fails with a quota/rate-limit-shaped error, retries once against a
// secondary. Any other failure propagates immediately; a broken prompt
// will not get better on a different backend.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	logger    *slog.Logger
}

func NewFallbackProvider(primary, secondary Provider, logger *slog.Logger) *FallbackProvider {
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (p *FallbackProvider) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := p.primary.Generate(ctx, prompt)
	if err == nil {
		return out, nil
	}

	if !IsQuotaError(err) {
		return "", err
	}

	p.logger.Warn("primary AI provider quota exhausted, falling back",
		"error", err)

	out, secErr := p.secondary.Generate(ctx, prompt)
	if secErr != nil {
		p.logger.Error("secondary AI provider also failed", "error", secErr)
		return "", secErr
	}
	return out, nil
}
