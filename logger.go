package pagemap

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// logger records the one class of failure the API has no channel for: an
// unmap error on the teardown path of a failed protection transition.
// Logging is off by default.
var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(noopLogger())
}

// SetLogger installs a structured logger for failures that cannot be
// reported through a return value. Passing nil disables logging again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = noopLogger()
	}
	logger.Store(l)
}

func noopLogger() *slog.Logger {
	// Unreachable level, so the handler never fires.
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}
