package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "warn", "json").Info("hidden")
	assert.Empty(t, buf.String())

	New(&buf, "info", "JSON").Info("no data for date", "date", "2021-04-02")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "2021-04-02", line["date"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "").Debug("state", "state", "done")
	assert.Contains(t, buf.String(), "state=done")
}

func TestDefaultIsInfo(t *testing.T) {
	assert.True(t, Default.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, Default.Enabled(context.Background(), slog.LevelDebug))
}
