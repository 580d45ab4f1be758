// SPDX-License-Identifier: BSD-3-Clause

// Package telemetry provides OpenTelemetry integration and distributed
// tracing utilities for the onboardfw behavioural-model framework. This
// package simplifies the setup and configuration of OpenTelemetry
// components including logging, tracing, and metrics collection.
//
// pkg/sm and pkg/pr stay free of telemetry calls on their hot execution
// path, the same way they stay free of logging calls — execute/fire must
// remain a pure function of state, user data and callback outputs. pkg/rt
// records telemetry only when given a tracer or meter (rt.WithTracer,
// rt.WithMeter): a span around each activation pass and counters of
// notifications and activation passes. The layer above the engines
// (service/hostctl, cmd/hostctld) attaches the rest, such as the span
// around an SM's Execute call.
//
// # Core Features
//
//   - Default OpenTelemetry setup with no-op providers for development
//   - OTLP gRPC/HTTP exporters for traces, metrics and logs
//   - Stdout exporters for local inspection without a collector
//   - Standardized telemetry configuration for consistent observability
//
// # Basic Setup
//
// Initialize OpenTelemetry with default configuration:
//
//	func main() {
//		telemetry.DefaultSetup()
//
//		logger := log.GetGlobalLogger()
//		logger.Info("hostctld starting with telemetry enabled")
//	}
//
// # Tracing an SM Transition
//
// service/hostctl wraps each Execute call of its host power state machine
// in a span, the same way rt.Container wraps each activation pass:
//
//	func (s *HostPowerService) fire(ctx context.Context, trigger sm.Trigger) error {
//		return telemetry.WithSpan(ctx, "hostctl", "sm_execute", func(spanCtx context.Context) error {
//			telemetry.SetSpanAttributes(spanCtx,
//				telemetry.StringAttr("state", fmt.Sprint(s.descriptor.CurrentState())),
//			)
//			err := s.descriptor.Execute(trigger)
//			if err != nil {
//				telemetry.RecordError(spanCtx, err, "sm execute failed")
//			}
//			return err
//		})
//	}
//
// # Manual Context Propagation
//
// For scenarios where manual span creation is needed:
//
//	func processBootStep(ctx context.Context, step string) error {
//		tracer := telemetry.GetTracer("hostctl")
//		ctx, span := tracer.Start(ctx, "boot_step")
//		defer span.End()
//
//		span.SetAttributes(attribute.String("step", step))
//
//		if err := runBootStep(ctx, step); err != nil {
//			span.RecordError(err)
//			span.SetStatus(codes.Error, err.Error())
//			return err
//		}
//		return nil
//	}
//
// # Sensor Polling Metrics
//
// Recording counters and histograms from an RT container's activation loop:
//
//	func (s *SensorPoller) poll(ctx context.Context) error {
//		counter, _ := telemetry.Counter("sensors", "sensor_polls_total",
//			"Total number of sensor poll cycles executed", "1")
//
//		return telemetry.WithSpan(ctx, "sensors", "poll_cycle", func(spanCtx context.Context) error {
//			counter.Add(spanCtx, 1)
//			return s.readAll(spanCtx)
//		})
//	}
//
// # Configuration for Different Environments
//
// Setting up telemetry for different deployment environments:
//
//	func setupTelemetryForEnvironment(env string) error {
//		switch env {
//		case "development":
//			telemetry.DefaultSetup()
//		case "production":
//			_, err := telemetry.Setup(context.Background(),
//				telemetry.WithServiceName("hostctld"),
//				telemetry.WithOTLPgRPC("collector:4317"),
//			)
//			return err
//		default:
//			telemetry.DefaultSetup()
//		}
//		return nil
//	}
//
// # Best Practices
//
// When using this package:
//
//   - Initialize telemetry early in the application lifecycle
//   - Use meaningful span names that describe the operation (sm_execute,
//     activation_pass, boot_step) rather than internal function names
//   - Add relevant attributes to spans for filtering and grouping
//   - Record errors with appropriate status codes
//   - Configure appropriate sampling rates for production workloads
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The underlying
// OpenTelemetry SDK handles concurrent access to tracers, spans, and
// propagators appropriately — a requirement rt.Container depends on since
// its worker goroutine and external callers may record telemetry
// concurrently.
//
// # Resource Usage
//
// The telemetry system has minimal overhead when using no-op providers:
// no-op tracers have negligible performance impact, and span creation and
// attribute setting are optimized for the no-op case. For production
// deployments, configure appropriate batch sizes and sampling ratios.
package telemetry
