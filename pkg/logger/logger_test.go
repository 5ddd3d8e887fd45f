package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitInstallsLeveledLogger(t *testing.T) {
	restore := Replace(zap.NewNop())
	t.Cleanup(restore)

	require.NoError(t, Init("DEBUG"))
	require.Equal(t, zapcore.DebugLevel, Level())
	require.True(t, Logger().Core().Enabled(zapcore.DebugLevel))

	SetLevel("warn")
	require.False(t, Logger().Core().Enabled(zapcore.InfoLevel))
	require.True(t, Logger().Core().Enabled(zapcore.WarnLevel))
}

func TestInitFallsBackToInfo(t *testing.T) {
	restore := Replace(zap.NewNop())
	t.Cleanup(restore)

	require.NoError(t, Init("loud"))
	require.Equal(t, zapcore.InfoLevel, Level())
}

func TestReplaceRestoresPrevious(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))

	Info("login recorded", zap.String("uid", "u-1"))
	Error("mail failed")
	restore()
	Info("dropped")

	entries := recorded.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, "login recorded", entries[0].Message)
	require.Equal(t, "u-1", entries[0].ContextMap()["uid"])
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestWithModuleAddsField(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	t.Cleanup(Replace(zap.New(core)))

	WithModule("maintenance").Info("job finished")

	entries := recorded.FilterField(zap.String("module", "maintenance")).All()
	require.Len(t, entries, 1)
	require.Equal(t, "job finished", entries[0].Message)
}
