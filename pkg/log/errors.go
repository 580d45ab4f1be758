// SPDX-License-Identifier: BSD-3-Clause

package log

import "errors"

var (
	// ErrLoggerInitialization indicates the fanout handler could not be
	// assembled.
	ErrLoggerInitialization = errors.New("failed to initialize logger")
	// ErrTelemetryProvider indicates the OTel bridge could not reach a logger
	// provider.
	ErrTelemetryProvider = errors.New("OpenTelemetry provider error")
	// ErrOversightLogger indicates the oversight logger adapter failed.
	ErrOversightLogger = errors.New("oversight logger adapter error")
)
