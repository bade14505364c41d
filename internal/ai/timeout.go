package ai

import (
	"context"
	"time"
)

// timeoutProvider bounds every Generate call so a hung provider surfaces
// as a failure instead of stalling the request.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a provider with a per-call deadline. A zero or
// negative timeout returns the provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: timeout}
}

func (p *timeoutProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.inner.Generate(ctx, prompt)
}
