package xcrud

import (
	"context"
	"log/slog"
)

// QueryLogger receives the exact SQL text of every statement before it is
// sent to the driver. A non-nil error aborts the call and is returned to the
// caller unchanged; the statement is not executed.
type QueryLogger func(ctx context.Context, query string) error

// Config carries the settings shared by a Table and the package-level
// helpers. The zero value is ready to use and logs nothing.
type Config struct {
	// Logger, if set, is called with each statement before execution.
	Logger QueryLogger
}

func (c *Config) logQuery(ctx context.Context, query string) error {
	if c == nil || c.Logger == nil {
		return nil
	}
	return c.Logger(ctx, query)
}

// SlogLogger returns a QueryLogger writing each statement to l at level.
//
//	cfg := &xcrud.Config{Logger: xcrud.SlogLogger(slog.Default(), slog.LevelDebug)}
func SlogLogger(l *slog.Logger, level slog.Level) QueryLogger {
	return func(ctx context.Context, query string) error {
		l.Log(ctx, level, "xcrud query", slog.String("sql", query))
		return nil
	}
}
