package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFunc_NilIsSafe(t *testing.T) {
	var f Func
	require.NotPanics(t, func() {
		f.Info("ignored")
		f.Emit(Event{Message: "ignored", Level: LevelError})
	})
}

func TestFunc_Collects(t *testing.T) {
	var got []Event
	f := Func(func(e Event) { got = append(got, e) })

	f.Info("a")
	f.Warn("b", slog.Int("polls", 3))
	f.Success("c")

	require.Len(t, got, 3)
	require.Equal(t, LevelInfo, got[0].Level)
	require.Equal(t, LevelWarning, got[1].Level)
	require.Equal(t, "polls", got[1].Attrs[0].Key)
	require.Equal(t, LevelSuccess, got[2].Level)
}

func TestSlogFunc(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	f := SlogFunc(logger)

	f.Verbose("hidden")
	f.Warn("scroll ceiling reached", slog.Int("polls", 500))
	f.Success("exported")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "polls=500")
	require.True(t, strings.Contains(out, "status=success"))
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "info", LevelInfo.String())
	require.Equal(t, "warning", LevelWarning.String())
	require.Equal(t, "success", LevelSuccess.String())
}
