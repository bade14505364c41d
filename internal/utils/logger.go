package utils

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
)

// NewLogger builds the service logger. Production gets JSON output,
// everything else gets text output at debug level.
func NewLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// RequestLogger replaces Gin's default logger with structured request logs.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		level := slog.LevelInfo
		if param.StatusCode >= 400 {
			level = slog.LevelWarn
		}
		if param.StatusCode >= 500 {
			level = slog.LevelError
		}

		logger.Log(param.Request.Context(), level, "HTTP Request",
			"method", param.Method,
			"path", param.Path,
			"status_code", param.StatusCode,
			"duration", param.Latency.String(),
			"client_ip", param.ClientIP,
		)
		return ""
	})
}

// ContextLogger attaches a request-scoped logger to the Gin context.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestLogger := logger.With(
			"request_id", c.GetHeader("X-Request-ID"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Set("logger", requestLogger)
		c.Next()
	}
}

// LoggerFromContext retrieves the request-scoped logger, falling back to
// the default slog logger when middleware did not run.
func LoggerFromContext(c *gin.Context) *slog.Logger {
	if logger, exists := c.Get("logger"); exists {
		if typed, ok := logger.(*slog.Logger); ok {
			return typed
		}
	}
	return slog.Default()
}
