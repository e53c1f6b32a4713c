package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want LogLevel
		ok   bool
	}{
		{"DEBUG", DEBUG, true},
		{"info", INFO, true},
		{" Warn ", WARN, true},
		{"ERROR", ERROR, true},
		{"loud", INFO, false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseLevel(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestLogger_RespectsGlobalLevel(t *testing.T) {
	defer SetGlobalLogLevel(INFO)

	var buf bytes.Buffer
	l := New("test", &buf)

	SetGlobalLogLevel(WARN)
	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "[TEST]")
}

func TestLogger_SetFileWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("filetest", &buf)

	path := filepath.Join(t.TempDir(), "out.log")
	require.NoError(t, l.SetFile(path))

	l.Info("player %d connected", 3)
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "player 3 connected", entry["msg"])
	assert.Equal(t, "filetest", entry["component"])
	assert.Contains(t, buf.String(), "player 3 connected")
}
