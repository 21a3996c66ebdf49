package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Enabled(slog.LevelError))
	Logger().Error("dropped") // must not panic
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	assert.True(t, Enabled(slog.LevelDebug))
	Logger().Debug("zoom clamped", "scale", 5.0)
	assert.Contains(t, buf.String(), "zoom clamped")
	assert.Contains(t, buf.String(), "scale=5")
}
