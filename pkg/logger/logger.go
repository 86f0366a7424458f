package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Format selects a slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown log format `%s`", s)
}

// New builds a logger writing to `w`. Debug records are only emitted when
// `verbose` is set.
func New(w io.Writer, format Format, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &opts))
	}
	return slog.New(slog.NewTextHandler(w, &opts))
}

func Set(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func Get(ctx context.Context) (l *slog.Logger) {
	if v := ctx.Value(loggerKey); v != nil {
		if l = v.(*slog.Logger); l != nil {
			return
		}
	}
	l = slog.Default()
	return
}

type loggerKeyType string

const loggerKey loggerKeyType = "loggerKey"
