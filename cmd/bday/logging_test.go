package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanout(t *testing.T) {
	var file, console bytes.Buffer
	h := fanout{
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
	logger := slog.New(h).With("component", "test")

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger.Debug("only console")
	assert.Empty(t, file.String())
	assert.Contains(t, console.String(), "only console")

	logger.Info("both", "count", 2)
	assert.Contains(t, file.String(), `"msg":"both"`)
	assert.Contains(t, file.String(), `"component":"test"`)
	assert.Contains(t, console.String(), "count=2")
}

func TestRunMain_Version(t *testing.T) {
	assert.Equal(t, 0, runMain([]string{"--version"}))
}

func TestRunMain_BadGlobalFlag(t *testing.T) {
	assert.Equal(t, 2, runMain([]string{"--no-such-flag"}))
}
