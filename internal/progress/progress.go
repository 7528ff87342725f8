// Package progress carries human-readable status updates from the long
// running parts of suno-exporter (scrolling, extraction, export, downloads)
// to whichever front-end is driving them.
package progress

import (
	"context"
	"log/slog"
)

// Level indicates the severity/type of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// Event is a single progress update.
type Event struct {
	Message string
	Level   Level

	// Attrs are optional structured fields attached to the message.
	Attrs []slog.Attr
}

// Func receives progress events. A nil Func discards them.
type Func func(Event)

// Emit calls f when it is non-nil.
func (f Func) Emit(e Event) {
	if f != nil {
		f(e)
	}
}

// Info emits msg at LevelInfo.
func (f Func) Info(msg string, attrs ...slog.Attr) {
	f.Emit(Event{Message: msg, Level: LevelInfo, Attrs: attrs})
}

// Verbose emits msg at LevelVerbose.
func (f Func) Verbose(msg string, attrs ...slog.Attr) {
	f.Emit(Event{Message: msg, Level: LevelVerbose, Attrs: attrs})
}

// Warn emits msg at LevelWarning.
func (f Func) Warn(msg string, attrs ...slog.Attr) {
	f.Emit(Event{Message: msg, Level: LevelWarning, Attrs: attrs})
}

// Error emits msg at LevelError.
func (f Func) Error(msg string, attrs ...slog.Attr) {
	f.Emit(Event{Message: msg, Level: LevelError, Attrs: attrs})
}

// Success emits msg at LevelSuccess.
func (f Func) Success(msg string, attrs ...slog.Attr) {
	f.Emit(Event{Message: msg, Level: LevelSuccess, Attrs: attrs})
}

// SlogFunc returns a Func that writes every event to logger.
//
// Verbose events are logged at debug level, success at info with
// status=success.
func SlogFunc(logger *slog.Logger) Func {
	return func(e Event) {
		level := slog.LevelInfo
		attrs := e.Attrs
		switch e.Level {
		case LevelVerbose:
			level = slog.LevelDebug
		case LevelWarning:
			level = slog.LevelWarn
		case LevelError:
			level = slog.LevelError
		case LevelSuccess:
			attrs = append(attrs[:len(attrs):len(attrs)], slog.String("status", "success"))
		}
		logger.LogAttrs(context.Background(), level, e.Message, attrs...)
	}
}
