// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"log"
	"log/slog"
)

// NewStdLoggerAt wraps a slog.Logger in a standard-library log.Logger that
// records every message at level. Some dependencies only accept the stdlib
// shape; this keeps their output inside the structured stream.
func NewStdLoggerAt(logger *slog.Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(logger.Handler(), level)
}

// RedirectStdLog reroutes the global stdlib log package through l at Info
// level, stripping the stdlib's own prefix and flags so lines are not
// double-stamped. cmd/hostctld calls this once at startup so stray
// log.Printf output from any dependency still lands in the structured
// stream.
func RedirectStdLog(l *slog.Logger) {
	log.SetFlags(0)
	log.SetPrefix("")
	log.SetOutput(NewStdLoggerAt(l, slog.LevelInfo).Writer())
}
