// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var (
	defaultSetupOnce sync.Once
	globalProvider   *Provider
	setupMutex       sync.Mutex
	isSetup          bool
)

// Setup initialises OpenTelemetry for a binary: a resource identifying the
// service, trace/metric/log providers wired to the configured exporters, and
// the global propagator. It returns the shutdown function the caller must
// run on exit so batched exports are flushed.
//
// Setup may be called once per process; a second call returns an error and a
// no-op shutdown, leaving the first configuration in place.
func Setup(ctx context.Context, opts ...Option) (func(context.Context) error, error) {
	setupMutex.Lock()
	defer setupMutex.Unlock()

	if isSetup {
		return func(context.Context) error { return nil },
			fmt.Errorf("%w: telemetry already initialised", ErrInvalidConfiguration)
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.serviceName == "" {
		return nil, fmt.Errorf("%w: service name is mandatory", ErrInvalidConfiguration)
	}
	if !config.enableMetrics && !config.enableTraces && !config.enableLogs {
		return nil, fmt.Errorf("%w: every signal disabled", ErrInvalidConfiguration)
	}

	provider, err := NewProvider(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}

	globalProvider = provider
	isSetup = true

	shutdown := func(shutdownCtx context.Context) error {
		setupMutex.Lock()
		defer setupMutex.Unlock()

		if globalProvider == nil {
			return nil
		}
		err := globalProvider.Shutdown(shutdownCtx)
		globalProvider = nil
		isSetup = false
		return err
	}
	return shutdown, nil
}

// DefaultSetup initialises telemetry with a plain default configuration, for
// code paths (GetTracer, GetMeter) reached before the binary ever called
// Setup. When even that fails it falls back to a no-op log provider plus the
// standard propagator, so instrumented code keeps working unexported.
func DefaultSetup() {
	defaultSetupOnce.Do(func() {
		_, err := Setup(context.Background(),
			WithServiceName("onboardfw-default"),
		)
		if err != nil {
			global.SetLoggerProvider(noop.NewLoggerProvider())
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			))
		}
	})
}

// ensureProvider runs the default setup if no provider is in place yet. It
// must not be called with setupMutex held: DefaultSetup goes through Setup,
// which takes the lock itself.
func ensureProvider() {
	setupMutex.Lock()
	initialised := globalProvider != nil
	setupMutex.Unlock()
	if !initialised {
		DefaultSetup()
	}
}

// GetTracer returns a tracer with the given name from the global provider,
// initialising a default provider first if the binary never called Setup.
func GetTracer(name string) trace.Tracer {
	ensureProvider()

	setupMutex.Lock()
	defer setupMutex.Unlock()
	if globalProvider != nil {
		return globalProvider.Tracer(name)
	}
	return otel.GetTracerProvider().Tracer(name)
}

// GetMeter returns a meter with the given name from the global provider,
// initialising a default provider first if the binary never called Setup.
func GetMeter(name string) metric.Meter {
	ensureProvider()

	setupMutex.Lock()
	defer setupMutex.Unlock()
	if globalProvider != nil {
		return globalProvider.Meter(name)
	}
	return otel.GetMeterProvider().Meter(name)
}

// GetLogger returns a component-tagged slog logger. Log/trace correlation
// happens in pkg/log's handler, not here.
func GetLogger(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

// IsInitialized reports whether a global telemetry provider is in place.
func IsInitialized() bool {
	setupMutex.Lock()
	defer setupMutex.Unlock()
	return globalProvider != nil && isSetup
}
