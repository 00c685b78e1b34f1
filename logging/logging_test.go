package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDefaultLoggerFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	l.SetLevel(WarnLevel)

	child := l.WithFields(Fields{"component": "stream", "channel": 2})
	child.Info("dropped")
	child.Warn("filter reset", Fields{"value": 1.5})
	child.Error(errors.New("boom"), "failed")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "[WARN] filter reset channel=2 component=stream value=1.5")
	assert.Contains(t, out, "[ERROR] failed: boom")
}

func TestDefaultLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	ctx := ContextWithFields(context.Background(), Fields{"session": "abc"})
	ctx = ContextWithFields(ctx, Fields{"channel": 1})
	l.WithContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "channel=1 session=abc")
}

func TestDefaultLoggerFatalUsesExitHook(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal(errors.New("bad"), "stop")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "[FATAL] stop: bad")
}

func TestZapLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	z := NewZapLoggerWithWriter(&buf, InfoLevel)

	z.Debug("hidden")
	z.WithFields(Fields{"component": "analysis"}).Warn("passthrough", Fields{"reason": "low >= high"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "passthrough", entry["msg"])
	assert.Equal(t, "analysis", entry["component"])
	assert.Equal(t, "low >= high", entry["reason"])
}

func TestZapLoggerSetLevelSharedWithChildren(t *testing.T) {
	var buf bytes.Buffer
	z := NewZapLoggerWithWriter(&buf, InfoLevel)
	child := z.WithFields(Fields{"k": "v"})

	z.SetLevel(DebugLevel)
	child.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewSelectsImplementation(t *testing.T) {
	l, err := New(Options{Format: FormatJSON, Level: WarnLevel})
	require.NoError(t, err)
	assert.IsType(t, &ZapLogger{}, l)

	l, err = New(Options{Format: FormatText})
	require.NoError(t, err)
	assert.IsType(t, &DefaultLogger{}, l)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestSetGlobalLoggerNil(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	SetGlobalLogger(nil)
	assert.IsType(t, &NoOpLogger{}, GetGlobalLogger())
}
