package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-lists/internal/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, logging.LevelCritical, logging.ParseLevel("critical"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("nonsense"))
}

func TestNew_JSONRendersCriticalLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "json", "info")

	logging.Critical(context.Background(), log.With("handler", "get_todos"), "Error getting client from pool", "cause", "dial tcp: connection refused")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "CRITICAL", entry["level"])
	assert.Equal(t, "get_todos", entry["handler"])
	assert.Equal(t, "dial tcp: connection refused", entry["cause"])
	assert.Equal(t, logging.Version, entry["v"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "json", "error")

	log.Info("ignored")
	assert.Zero(t, buf.Len())

	log.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_TextHandler(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "text", "debug")

	log.Debug("hello", "handler", "status")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "status")
}

func TestContextRoundTrip(t *testing.T) {
	log := logging.Discard()
	ctx := logging.WithContext(context.Background(), log)

	assert.Same(t, log, logging.FromContext(ctx))
	assert.Same(t, slog.Default(), logging.FromContext(context.Background()))
}
