// Package logging configures the structured logger threaded through
// every pipeline stage. Logging is purely observational: nothing in
// internal/subgraph, internal/layout, or internal/route reads back
// from the logger, so logging never affects the deterministic
// geometry the engine produces (spec §5).
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger at the given level, formatted as
// human-readable text on a TTY and as JSON otherwise (CI logs,
// redirected output) - this mirrors the teacher's JSONFormat switch
// without carrying its file-rotation machinery, which this
// single-invocation CLI has no use for (each run exits after writing
// one sink; there is no long-lived process to rotate logs under).
func New(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	if isTerminal(os.Stdout) {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// Discard returns a logger that drops every entry, used as the
// library-mode default when a caller supplies no logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// OrDiscard returns logger unchanged if non-nil, else Discard().
func OrDiscard(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}
