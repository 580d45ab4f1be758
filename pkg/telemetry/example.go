// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ExampleHostControlUsage demonstrates the telemetry usage pattern expected
// of components built on pkg/sm, pkg/pr and pkg/rt: set up a provider, get a
// logger and a couple of metrics, and trace every significant operation.
func ExampleHostControlUsage() error {
	ctx := context.Background()

	shutdown, err := Setup(ctx,
		WithServiceName("hostctl"),
		WithServiceVersion("1.0.0"),
		WithMetrics(true),
		WithTraces(true),
		WithLogs(true),
	)
	if err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}
	defer shutdown(ctx)

	logger := GetLogger("hostctl")

	transitionCounter, err := Counter("hostctl", "sm_transitions_total",
		"Total number of state machine transitions executed", "1")
	if err != nil {
		return fmt.Errorf("failed to create counter: %w", err)
	}

	bootDuration, err := Histogram("hostctl", "boot_sequence_duration_seconds",
		"Duration of the host boot procedure", "s")
	if err != nil {
		return fmt.Errorf("failed to create histogram: %w", err)
	}

	return exampleBootSequence(ctx, logger, transitionCounter, bootDuration)
}

func exampleBootSequence(ctx context.Context, logger *slog.Logger, counter metric.Int64Counter, histogram metric.Float64Histogram) error {
	return WithSpan(ctx, "hostctl", "boot_sequence", func(spanCtx context.Context) error {
		start := time.Now()

		SetSpanAttributes(spanCtx,
			StringAttr("operation", "boot_sequence"),
			StringAttr("component", "host_power_sm"),
		)

		logger.InfoContext(spanCtx, "running boot sequence")

		counter.Add(spanCtx, 1, metric.WithAttributes(
			StringAttr("trigger", "power_on"),
		))

		if err := performBootSteps(spanCtx, logger); err != nil {
			RecordError(spanCtx, err, "boot sequence failed")
			logger.ErrorContext(spanCtx, "boot sequence failed", "error", err)
			return err
		}

		AddSpanEvent(spanCtx, "boot_completed")

		duration := time.Since(start).Seconds()
		RecordDuration(spanCtx, histogram, duration,
			StringAttr("result", "success"),
		)

		logger.InfoContext(spanCtx, "boot sequence completed",
			"duration", time.Since(start),
		)

		return nil
	})
}

func performBootSteps(ctx context.Context, logger *slog.Logger) error {
	return WithSpan(ctx, "hostctl", "post_steps", func(stepCtx context.Context) error {
		steps := []string{"power_good", "memory_train", "firmware_load"}
		for i, name := range steps {
			AddSpanEvent(stepCtx, "post_step_started",
				StringAttr("step", name),
				IntAttr("step_number", i+1),
			)

			time.Sleep(5 * time.Millisecond)

			AddSpanEvent(stepCtx, "post_step_completed",
				StringAttr("step", name),
				BoolAttr("success", true),
			)

			logger.DebugContext(stepCtx, "post step completed", "step", name)
		}
		return nil
	})
}

// ExampleSensorPollerTelemetry demonstrates the telemetry pattern an RT
// container's activation loop uses while polling sensors.
func ExampleSensorPollerTelemetry() error {
	ctx := context.Background()

	shutdown, err := Setup(ctx, WithServiceName("sensor-poller"))
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	defer shutdown(ctx)

	logger := GetLogger("sensor-poller")
	logger.InfoContext(ctx, "sensor poller activation loop ready")

	return nil
}
