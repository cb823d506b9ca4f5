package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

var Logger *zap.Logger

var stderr io.Writer = os.Stderr

func init() {
	Logger = zap.NewNop()
}

// EnsureLogger replaces the no-op logger installed at init. A production
// environment gets JSON output, anything else the development console logger.
func EnsureLogger(env string) {
	build := zap.NewDevelopment
	if env == "production" {
		build = zap.NewProduction
	}

	Logger = orNop(build())
}

// orNop keeps the process running without logs when zap cannot be built,
// and says so on stderr.
func orNop(l *zap.Logger, err error) *zap.Logger {
	if err != nil {
		fmt.Fprintf(stderr, "failed building logger, logging disabled: %v\n", err)
		return zap.NewNop()
	}

	return l
}

func Sync() {
	_ = Logger.Sync()
}
