// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import "errors"

var (
	// ErrInvalidExporterType indicates the configured exporter type is not one
	// of the supported variants.
	ErrInvalidExporterType = errors.New("invalid exporter type")

	// ErrMissingEndpoint indicates an OTLP exporter was selected without the
	// endpoint it needs.
	ErrMissingEndpoint = errors.New("missing endpoint")

	// ErrInvalidConfiguration indicates the assembled telemetry configuration
	// failed validation before any provider was built.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrExporterSetupFailed indicates a trace, metric or log exporter could
	// not be initialised.
	ErrExporterSetupFailed = errors.New("exporter setup failed")

	// ErrShutdownFailed indicates one or more providers did not shut down
	// cleanly.
	ErrShutdownFailed = errors.New("shutdown failed")
)
