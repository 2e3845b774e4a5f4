package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with proper configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("test message",
			slog.String("component", "test"),
			slog.Int("count", 42))

		output := buf.String()

		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"test message"`)
		assert.Contains(t, output, `"component":"test"`)
		assert.Contains(t, output, `"count":42`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError creates structured error log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		err := assert.AnError
		LogError(logger, "failed to fetch line statuses", err,
			slog.String("url", "http://example.com"),
			slog.String("component", "upstream"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to fetch line statuses"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"url":"http://example.com"`)
		assert.Contains(t, output, `"component":"upstream"`)
	})

	t.Run("LogError tolerates nil logger", func(t *testing.T) {
		LogError(nil, "ignored", assert.AnError)
	})

	t.Run("LogOperation logs structured operation info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "datastream_push",
			slog.String("stream_url", "https://datastream.example.com/abc"),
			slog.Int("line_count", 21),
			slog.Duration("duration", 0)) // ignored when zero

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"datastream_push"`)
		assert.Contains(t, output, `"line_count":21`)
		assert.NotContains(t, output, `"duration"`)
	})

	t.Run("LogHTTPRequest includes request fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogHTTPRequest(logger, "POST", "/manual/send", 200, 12.5,
			slog.String("component", "http_server"))

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"POST"`)
		assert.Contains(t, output, `"path":"/manual/send"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":12.5`)
	})
}

func TestLoggerContext(t *testing.T) {
	t.Run("round-trips logger through context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		ctx := WithLogger(context.Background(), logger)
		got := FromContext(ctx)

		got.Info("from context")
		assert.Contains(t, buf.String(), `"msg":"from context"`)
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		got := FromContext(context.Background())
		assert.NotNil(t, got)
	})
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

func TestSafeCloseWithLogging(t *testing.T) {
	t.Run("logs close failures", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(failingCloser{}, logger, "http_response_body")

		output := buf.String()
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"error":"close failed"`)
		assert.Contains(t, output, `"operation":"http_response_body"`)
	})

	t.Run("ignores nil closers", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(nil, logger, "noop")
		assert.Empty(t, buf.String())
	})

	t.Run("swallows successful closes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(io.NopCloser(bytes.NewReader(nil)), logger, "reader")
		assert.Empty(t, buf.String())
	})
}
