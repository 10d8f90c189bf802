package routines

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured-logging seam the Runtime writes lifecycle and
// queue trace events through. The default, installed unless [WithLogger]
// is used, is a disabled logger: tracing costs nothing unless a caller
// opts in.
//
// StumpyLogger (below) is the concrete implementation this package ships,
// backed by github.com/joeycumines/logiface and its JSON event
// implementation github.com/joeycumines/stumpy — the same pairing the
// sibling izerolog/ilogrus packages use for zerolog/logrus.
type Logger interface {
	// Event logs a single structured event at the given level, with field
	// name/value pairs supplied as alternating key, value, key, value...
	// Odd-length fields are ignored (the trailing key is dropped).
	Event(level Level, msg string, fields ...any)
	// Enabled reports whether events at level would actually be written,
	// so callers can skip building field slices on the hot path.
	Enabled(level Level) bool
}

// Level mirrors the subset of syslog-style severities the runtime emits
// at. It maps directly onto logiface.Level.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) logifaceLevel() logiface.Level {
	switch l {
	case LevelTrace:
		return logiface.LevelTrace
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelDebug
	}
}

// noopLogger is the default Logger: every method is a no-op, so the
// runtime's trace call sites are free when no logger is configured.
type noopLogger struct{}

func (noopLogger) Event(Level, string, ...any) {}
func (noopLogger) Enabled(Level) bool          { return false }

// StumpyLogger adapts a *logiface.Logger[*stumpy.Event] to the Logger
// interface, so a host program can plug in real structured JSON logging
// by constructing one via [NewStumpyLogger] and passing it to
// [WithLogger].
type StumpyLogger struct {
	log *logiface.Logger[*stumpy.Event]
}

// NewStumpyLogger wraps an already-configured stumpy-backed logiface
// logger (typically built with stumpy.L.New(stumpy.L.WithStumpy(...))).
func NewStumpyLogger(log *logiface.Logger[*stumpy.Event]) *StumpyLogger {
	return &StumpyLogger{log: log}
}

// Enabled implements Logger.
func (s *StumpyLogger) Enabled(level Level) bool {
	return s.log != nil && s.log.Level() >= level.logifaceLevel() && level.logifaceLevel().Enabled()
}

// Event implements Logger.
func (s *StumpyLogger) Event(level Level, msg string, fields ...any) {
	if s.log == nil {
		return
	}
	b := s.log.Build(level.logifaceLevel())
	if !b.Enabled() {
		b.Release()
		return
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if err, ok := fields[i+1].(error); ok {
			b = b.Err(err)
			continue
		}
		b = b.Field(key, fields[i+1])
	}
	b.Log(msg)
}
