package xslog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level string

var _ fmt.Stringer = (*Level)(nil)

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the handler: JSON for the server, text for humans at a terminal.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

const (
	EnvKey       = "LOG_LEVEL"
	FormatEnvKey = "LOG_FORMAT"
)

const (
	Default       = LevelInfo
	DefaultFormat = FormatJSON
)

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

func Parse(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := slogLevels[l]; !ok {
		return "", fmt.Errorf("invalid log level: %q (valid: debug, info, warn, error)", s)
	}
	return l, nil
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("invalid log format: %q (valid: json, text)", s)
	}
}

// FromEnv reads LOG_LEVEL, falling back to Default when unset or invalid.
func FromEnv() Level {
	level, err := Parse(os.Getenv(EnvKey))
	if err != nil {
		return Default
	}
	return level
}

func FormatFromEnv() Format {
	format, err := ParseFormat(os.Getenv(FormatEnvKey))
	if err != nil {
		return DefaultFormat
	}
	return format
}

func (l Level) ToSlog() slog.Level {
	if level, ok := slogLevels[l]; ok {
		return level
	}
	return slog.LevelInfo
}

func (l Level) String() string {
	return string(l)
}

func NewLogger(w io.Writer, level Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.ToSlog()}
	if format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func NewLoggerFromEnv(w io.Writer) *slog.Logger {
	return NewLogger(w, FromEnv(), FormatFromEnv())
}
