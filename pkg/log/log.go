// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"log/slog"

	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogzerolog "github.com/samber/slog-zerolog/v2"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
)

// newFanoutHandler builds the handler both constructors share: zerolog's
// console writer for a human-readable stream, fanned out with an OTel bridge
// feeding whatever logger provider pkg/telemetry has installed globally.
func newFanoutHandler() slog.Handler {
	zeroLogger := zerolog.
		New(zerolog.NewConsoleWriter()).
		With().
		Timestamp().
		Logger()

	otelHandler := otelslog.NewHandler("onboardfw",
		otelslog.WithLoggerProvider(global.GetLoggerProvider()))

	return slogmulti.Fanout(
		slogzerolog.Option{Level: slog.LevelDebug, Logger: &zeroLogger}.NewZerologHandler(),
		otelHandler,
	)
}

// NewDefaultLogger creates the structured logger a binary hands to its
// services: console output through zerolog plus structured records to the
// global OpenTelemetry logger provider. This is the logger cmd/hostctld
// passes down into service/hostctl and from there into rt.Container's
// WithLogger option.
func NewDefaultLogger() *slog.Logger {
	return slog.New(newFanoutHandler())
}

// GetGlobalLogger returns a logger with the same dual-output configuration
// as NewDefaultLogger, for code paths that need a logger but were not handed
// one.
func GetGlobalLogger() *slog.Logger {
	return slog.New(newFanoutHandler())
}
