package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := globalLogger
	t.Cleanup(func() { SetLogger(prev) })

	buf := &bytes.Buffer{}
	SetLogger(NewLogger(buf, level))
	return buf
}

func TestErrorLogAttachesError(t *testing.T) {
	buf := captureLogs(t, "info")

	ErrorLog(context.Background(), "store failed: %v", errors.New("boom"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "store failed: boom", line["message"])
}

func TestWithLoggerFields(t *testing.T) {
	buf := captureLogs(t, "debug")

	ctx := WithLogger(context.Background(), map[string]interface{}{"request_id": "r-1"})
	DebugLog(ctx, "hello %s", "world")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "r-1", line["request_id"])
	assert.Equal(t, "hello world", line["message"])
}

func TestNewLoggerLevelFallback(t *testing.T) {
	buf := captureLogs(t, "not-a-level")

	DebugLog(context.Background(), "hidden")
	InfoLog(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
