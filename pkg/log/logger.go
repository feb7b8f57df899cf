package log

import (
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// SetupLogger configures the default slog logger with a JSON handler that
// also emits cockroachdb/errors stack traces. Used by command-line entry
// points for their own top-level messages.
func SetupLogger(w io.Writer, loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{Key: "severity", Value: attr.Value}
			case slog.MessageKey:
				attr = slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
	return nil
}

// ToLogLevel maps a level name onto slog.Level.
func ToLogLevel(level string) (slog.Level, error) {
	l, ok := ParseLevel(level)
	if !ok {
		return slog.LevelInfo, errors.Newf("invalid log level: %q", level)
	}
	return slog.Level(l), nil
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
