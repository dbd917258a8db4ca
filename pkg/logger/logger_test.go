package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerMasksContactKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromCore(core)

	l.Info("notification sent", "contact_email", "ada@example.com", "lesson_id", "l-1")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, masked, fields["contact_email"])
	assert.Equal(t, "l-1", fields["lesson_id"])
}

func TestLoggerErrorErrAttachesError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromCore(core)

	l.ErrorErr("badge check failed", errors.New("boom"), "user_id", "u-1")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.ContextMap()["error"])
	assert.Equal(t, "u-1", entry.ContextMap()["user_id"])
}

func TestLoggerWithKeepsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewFromCore(core).With("component", "progress")

	l.Debug("recorded")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "progress", logs.All()[0].ContextMap()["component"])
}

func TestMaskLeavesOddTrailingKeyAlone(t *testing.T) {
	in := []interface{}{"email", "x@y.z", "dangling"}
	out := mask(in)

	assert.Equal(t, []interface{}{"email", masked, "dangling"}, out)
	assert.Equal(t, "x@y.z", in[1], "input slice must not be modified")
}
