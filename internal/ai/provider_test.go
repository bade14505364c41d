package ai

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	t.Run("JSONFence", func(t *testing.T) {
		in := "```json\n{\"a\": 1}\n```"
		assert.Equal(t, `{"a": 1}`, StripCodeFence(in))
	})

	t.Run("BareFence", func(t *testing.T) {
		in := "```\n{\"a\": 1}\n```"
		assert.Equal(t, `{"a": 1}`, StripCodeFence(in))
	})

	t.Run("NoFence", func(t *testing.T) {
		assert.Equal(t, `{"a": 1}`, StripCodeFence(`{"a": 1}`))
	})

	t.Run("MultilineBody", func(t *testing.T) {
		in := "```json\n{\n  \"a\": 1\n}\n```"
		assert.Equal(t, "{\n  \"a\": 1\n}", StripCodeFence(in))
	})

	t.Run("SurroundingWhitespace", func(t *testing.T) {
		in := "  ```json\n{}\n```  "
		assert.Equal(t, "{}", StripCodeFence(in))
	})
}

func TestIsQuotaError(t *testing.T) {
	assert.False(t, IsQuotaError(nil))
	assert.False(t, IsQuotaError(errors.New("connection refused")))
	assert.True(t, IsQuotaError(errors.New("You exceeded your quota: insufficient_quota")))
	assert.True(t, IsQuotaError(errors.New("status code 429")))
	assert.True(t, IsQuotaError(errors.New("Rate_Limit exceeded")))
}

func TestFallbackProvider(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("PrimarySucceeds", func(t *testing.T) {
		primary := NewMockProvider().Respond("primary out")
		secondary := NewMockProvider().Respond("secondary out")
		fb := NewFallbackProvider(primary, secondary, logger)

		out, err := fb.Generate(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "primary out", out)
		assert.Equal(t, 0, secondary.CallCount())
	})

	t.Run("QuotaErrorFallsBack", func(t *testing.T) {
		primary := NewMockProvider().Fail(errors.New("insufficient_quota"))
		secondary := NewMockProvider().Respond("secondary out")
		fb := NewFallbackProvider(primary, secondary, logger)

		out, err := fb.Generate(ctx, "p")
		require.NoError(t, err)
		assert.Equal(t, "secondary out", out)
	})

	t.Run("NonQuotaErrorPropagates", func(t *testing.T) {
		primary := NewMockProvider().Fail(errors.New("boom"))
		secondary := NewMockProvider().Respond("secondary out")
		fb := NewFallbackProvider(primary, secondary, logger)

		_, err := fb.Generate(ctx, "p")
		require.Error(t, err)
		assert.Equal(t, 0, secondary.CallCount())
	})

	t.Run("SecondaryFailurePropagates", func(t *testing.T) {
		primary := NewMockProvider().Fail(errors.New("rate_limit"))
		secondary := NewMockProvider().Fail(errors.New("also down"))
		fb := NewFallbackProvider(primary, secondary, logger)

		_, err := fb.Generate(ctx, "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "also down")
	})
}

func TestNewProviderUnsupported(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	_, err := NewProvider(context.Background(), Config{Provider: "watson"}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported AI provider")
}
