package executor

import (
	"context"
	"fmt"
	"log/slog"
)

// Config tunes an executor. The zero value is usable: unbounded concurrency
// and the process default logger.
type Config struct {
	// MaxWorkers caps concurrently running tasks for GoroutineExecutor.
	// Zero means unbounded.
	MaxWorkers int
	Logger     *slog.Logger
}

// NewConfig validates its arguments and fills defaults.
func NewConfig(maxWorkers int, logger *slog.Logger) (Config, error) {
	if maxWorkers < 0 {
		return Config{}, fmt.Errorf("executor: MaxWorkers must be >= 0, got %d", maxWorkers)
	}
	return Config{MaxWorkers: maxWorkers, Logger: logger}.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.MaxWorkers < 0 {
		c.MaxWorkers = 0
	}
	return c
}

type loggerKey struct{}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom returns the logger the executor attached to a task's context,
// or slog.Default when there is none.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
