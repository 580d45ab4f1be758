// SPDX-License-Identifier: BSD-3-Clause

// Package log provides structured logging functionality with multi-target output
// support for console and OpenTelemetry observability. The package integrates
// multiple logging libraries to provide a unified interface that outputs
// human-readable logs to the console while simultaneously sending structured
// telemetry data to OpenTelemetry for distributed tracing and monitoring.
//
// The package is built around Go's standard library slog package and
// provides an adapter for the oversight process supervisor's plain
// func(args ...any) logger shape, so a supervision tree logs through the
// same pipeline as the rest of the application.
//
// Neither pkg/sm, pkg/pr nor pkg/rt call into this package from their
// execute/fire hot path — the engines stay a pure function of state, user
// data and callback outputs. Logging belongs to the layer above them
// (service/hostctl, cmd/hostctld), the same way the oversight tree logs
// supervision decisions rather than the supervised code's internal state.
//
// # Core Features
//
//   - Dual output: human-readable console logs and structured OpenTelemetry data
//   - Standard library slog integration for structured logging
//   - Oversight process supervisor logger integration
//   - Automatic timestamp and debug level configuration
//
// # Basic Usage
//
// Creating and using the default logger:
//
//	logger := log.NewDefaultLogger()
//	logger.Info("hostctld starting", "version", "1.0.0", "config", "/etc/onboardfw/hostctl.yaml")
//	logger.Debug("boot sequence advancing", "node", "memory_train")
//	logger.Error("sensor poll failed", "error", err, "sensor", "inlet_temp")
//
// # Structured Logging Around the Engines
//
// service/hostctl logs around SM transitions and RT activation passes, not
// inside them: the descriptor's action/guard callbacks are plain functions
// of the descriptor and its user data, and the service wrapping the
// descriptor is what has a logger to hand.
//
//	func (s *HostPowerService) onTransition(trigger sm.Trigger) {
//		logger := log.GetGlobalLogger()
//		logger.Info("host power transition",
//			"trigger", trigger,
//			"state", s.descriptor.CurrentState(),
//			"exec_count", s.descriptor.ExecCount(),
//		)
//	}
//
// # Oversight Supervision Logging
//
// Wiring the adapter into an oversight.Tree so supervision decisions land
// in the same structured stream as everything else:
//
//	func setupSupervisionTree(logger *slog.Logger, children ...oversight.ChildProcess) *oversight.Tree {
//		return oversight.New(
//			oversight.WithLogger(log.NewOversightLogger(logger)),
//			oversight.WithChildren(children...),
//		)
//	}
//
// # Error Logging with Context
//
// Enhanced error logging with contextual information:
//
//	func (s *SensorPoller) pollFailed(sensorID string, err error) {
//		logger := log.GetGlobalLogger()
//		logger.Error("sensor poll failed",
//			"sensor_id", sensorID,
//			"error", err,
//			"retry_count", s.retries,
//		)
//	}
//
// # Integration with OpenTelemetry
//
// The package automatically integrates with OpenTelemetry for distributed tracing:
//
//	func processWithTracing(ctx context.Context, operation string) {
//		logger := log.GetGlobalLogger()
//		span := trace.SpanFromContext(ctx)
//
//		logger.Info("operation started",
//			"operation", operation,
//			"trace_id", span.SpanContext().TraceID().String(),
//			"span_id", span.SpanContext().SpanID().String(),
//		)
//		// The logger automatically includes trace context in its
//		// OpenTelemetry output for correlation with this span.
//	}
//
// # Configuration and Best Practices
//
// Recommended initialization pattern for a binary like cmd/hostctld:
//
//	func main() {
//		shutdown, _ := telemetry.Setup(context.Background(), telemetry.WithServiceName("hostctld"))
//		defer shutdown(context.Background())
//
//		log.RedirectStdLog(log.GetGlobalLogger())
//		logger := log.GetGlobalLogger()
//		logger.Info("application starting", "name", "onboardfw")
//
//		// Continue with application setup...
//	}
//
// # Thread Safety
//
// All logger instances are safe for concurrent use from multiple goroutines.
// The underlying slog and zerolog implementations handle concurrent access
// appropriately — the same guarantee rt.Container depends on when its
// worker goroutine and external callers both log through the container's
// configured logger.
//
// # Performance Considerations
//
// The dual-output design has minimal performance impact:
//
//   - Console output uses zerolog's efficient encoding
//   - OpenTelemetry output is asynchronous and batched
//   - Debug level logs are only processed when debug logging is enabled
//   - Structured logging with key-value pairs is more efficient than string formatting
package log
