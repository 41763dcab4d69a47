package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(&buf, "info", FormatJSON)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("run finished", zap.Int("scenarios", 42))
	cleanup()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "debug entries are below the level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "run finished", entry["message"])
	assert.Equal(t, float64(42), entry["scenarios"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(&buf, "debug", FormatConsole)
	require.NoError(t, err)

	logger.Debug("scenario finished", zap.String("status", "pass"))
	cleanup()

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "scenario finished")
	assert.Contains(t, out, `"status": "pass"`)
}

func TestNew_Invalid(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, "loud", FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, _, err = New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}
