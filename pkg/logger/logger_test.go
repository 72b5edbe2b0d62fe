package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFormatsMessage(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info")
	require.NoError(t, err)

	log.Info("MarkArrival: booking id=%d", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "MarkArrival: booking id=42", entry["message"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("skipped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info")
	require.NoError(t, err)

	log.With("request_id", "abc").Info("hello")

	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}
