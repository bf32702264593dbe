package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		Configure("info")
	})
	return &buf
}

func TestInfoWritesJSONLine(t *testing.T) {
	buf := captureLogs(t)

	Info("analysis.completed", map[string]any{"request_id": "abc", "duration_ms": 12.5})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "analysis.completed", entry["msg"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.NotEmpty(t, entry["ts"])
}

func TestConfigureFiltersDebug(t *testing.T) {
	buf := captureLogs(t)

	Configure("info")
	Debug("hidden", nil)
	assert.Empty(t, buf.String())

	Configure("debug")
	Debug("shown", nil)
	assert.True(t, strings.Contains(buf.String(), `"msg":"shown"`))
}

func TestConfigureUnknownLevelFallsBackToInfo(t *testing.T) {
	buf := captureLogs(t)

	Configure("chatty")
	Debug("hidden", nil)
	Warn("kept", map[string]any{"k": "v"})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"warning"`)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLoggerWriterEmitsInfoLines(t *testing.T) {
	buf := &lockedBuffer{}
	SetOutput(buf)
	t.Cleanup(func() { SetOutput(nil) })

	w := Logger().Writer()
	_, err := w.Write([]byte("[GIN-debug] GET /metrics\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), `"msg":"[GIN-debug] GET /metrics"`)
	}, time.Second, 10*time.Millisecond)
}
