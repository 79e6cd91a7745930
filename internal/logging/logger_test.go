package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "parseLevel(%q)", in)
	}
}

func TestSetupWriter_JSONWithSession(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "info", "json")

	ctx := WithSession(context.Background(), "sess-1")
	WithFields(ctx, "file", "book.xlsx").Info("upload stored")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "upload stored", entry["msg"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.Equal(t, "book.xlsx", entry["file"])
	assert.NotContains(t, entry, "request_id")
}

func TestSetupWriter_LevelFilters(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "warn", "text")

	slog.Info("hidden")
	slog.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestFromContext_RequestID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	SetupWriter(&buf, "info", "text")

	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("handled")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, strings.Contains(buf.String(), "request_id="), "log line should carry request_id: %s", buf.String())
}

func TestSessionFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", SessionFromContext(context.Background()))
}
