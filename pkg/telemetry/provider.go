// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Provider bundles the trace, metric and log providers built from one
// Config, so a binary tears all three down with a single Shutdown.
type Provider struct {
	config        *Config
	traceProvider *trace.TracerProvider
	meterProvider *sdkmetric.MeterProvider
	logProvider   *log.LoggerProvider
	resource      *resource.Resource
}

// NewProvider builds providers for every enabled signal, registers them as
// the OpenTelemetry globals and installs the composite propagator. Most
// callers want Setup instead, which guards against double initialisation.
func NewProvider(opts ...Option) (*Provider, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	res, err := buildResource(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{config: config, resource: res}
	if err := p.buildProviders(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExporterSetupFailed, err)
	}

	p.registerGlobals()
	return p, nil
}

// Tracer returns a tracer from this provider, or a no-op tracer when traces
// are disabled.
func (p *Provider) Tracer(name string) oteltrace.Tracer {
	if p.traceProvider == nil {
		return tracenoop.NewTracerProvider().Tracer(name)
	}
	return p.traceProvider.Tracer(name)
}

// Meter returns a meter from this provider, or a no-op meter when metrics
// are disabled.
func (p *Provider) Meter(name string) metric.Meter {
	if p.meterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return p.meterProvider.Meter(name)
}

// Logger returns the process logger; log/trace correlation is handled by
// pkg/log's handler rather than per-provider loggers.
func (p *Provider) Logger(name string) *slog.Logger {
	return slog.Default()
}

// Shutdown flushes and stops every provider, collecting their errors so a
// failing trace flush doesn't abort the metric and log flushes.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error

	if p.traceProvider != nil {
		if err := p.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if p.logProvider != nil {
		if err := p.logProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("log provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrShutdownFailed, errs)
	}
	return nil
}

func validateConfig(config *Config) error {
	switch config.exporterType {
	case NoOp, Stdout:
		// Neither needs an endpoint.
	case OTLPHTTP:
		if config.httpEndpoint == "" {
			return ErrMissingEndpoint
		}
	case OTLPgRPC:
		if config.grpcEndpoint == "" {
			return ErrMissingEndpoint
		}
	case Dual:
		if config.httpEndpoint == "" || config.grpcEndpoint == "" {
			return ErrMissingEndpoint
		}
	default:
		return ErrInvalidExporterType
	}

	if config.samplingRatio < 0.0 || config.samplingRatio > 1.0 {
		return fmt.Errorf("sampling ratio must be between 0.0 and 1.0, got %f", config.samplingRatio)
	}
	return nil
}

func buildResource(config *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.serviceName),
		semconv.ServiceVersion(config.serviceVersion),
	}
	for key, value := range config.resourceAttrs {
		attrs = append(attrs, attribute.String(key, value))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

func (p *Provider) buildProviders() error {
	if p.config.enableTraces {
		if err := p.buildTraceProvider(); err != nil {
			return fmt.Errorf("failed to setup trace provider: %w", err)
		}
	}
	if p.config.enableMetrics {
		if err := p.buildMeterProvider(); err != nil {
			return fmt.Errorf("failed to setup meter provider: %w", err)
		}
	}
	if p.config.enableLogs {
		if err := p.buildLogProvider(); err != nil {
			return fmt.Errorf("failed to setup log provider: %w", err)
		}
	}
	return nil
}

func (p *Provider) buildTraceProvider() error {
	exporters, err := p.traceExporters()
	if err != nil {
		return err
	}

	opts := []trace.TracerProviderOption{
		trace.WithResource(p.resource),
		trace.WithSampler(trace.TraceIDRatioBased(p.config.samplingRatio)),
	}
	for _, exporter := range exporters {
		opts = append(opts, trace.WithBatcher(exporter,
			trace.WithBatchTimeout(p.config.batchTimeout),
			trace.WithMaxExportBatchSize(p.config.maxExportBatch),
			trace.WithMaxQueueSize(p.config.maxQueueSize),
		))
	}

	p.traceProvider = trace.NewTracerProvider(opts...)
	return nil
}

func (p *Provider) buildMeterProvider() error {
	readers, err := p.metricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(p.resource)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	p.meterProvider = sdkmetric.NewMeterProvider(opts...)
	return nil
}

func (p *Provider) buildLogProvider() error {
	processors, err := p.logProcessors()
	if err != nil {
		return err
	}

	opts := []log.LoggerProviderOption{log.WithResource(p.resource)}
	for _, processor := range processors {
		opts = append(opts, log.WithProcessor(processor))
	}

	p.logProvider = log.NewLoggerProvider(opts...)
	return nil
}

// traceExporters builds the span exporters the configured variant calls for:
// none for NoOp, stdout for Stdout, and one OTLP exporter per selected
// transport otherwise (two under Dual).
func (p *Provider) traceExporters() ([]trace.SpanExporter, error) {
	var exporters []trace.SpanExporter

	switch p.config.exporterType {
	case NoOp:
	case Stdout:
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		exporters = append(exporters, exporter)
	case OTLPHTTP, OTLPgRPC, Dual:
		if p.config.exporterType != OTLPgRPC {
			opts := []otlptracehttp.Option{
				otlptracehttp.WithEndpoint(p.config.httpEndpoint),
				otlptracehttp.WithHeaders(p.config.headers),
				otlptracehttp.WithTimeout(p.config.timeout),
			}
			if p.config.insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
			exporter, err := otlptracehttp.New(context.Background(), opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create HTTP trace exporter: %w", err)
			}
			exporters = append(exporters, exporter)
		}
		if p.config.exporterType != OTLPHTTP {
			opts := []otlptracegrpc.Option{
				otlptracegrpc.WithEndpoint(p.config.grpcEndpoint),
				otlptracegrpc.WithHeaders(p.config.headers),
				otlptracegrpc.WithTimeout(p.config.timeout),
			}
			if p.config.insecure {
				opts = append(opts, otlptracegrpc.WithInsecure())
			}
			exporter, err := otlptracegrpc.New(context.Background(), opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create gRPC trace exporter: %w", err)
			}
			exporters = append(exporters, exporter)
		}
	}

	return exporters, nil
}

// metricReaders builds periodic readers mirroring traceExporters' variant
// handling.
func (p *Provider) metricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	switch p.config.exporterType {
	case NoOp:
	case Stdout:
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(p.config.batchTimeout),
		))
	case OTLPHTTP, OTLPgRPC, Dual:
		if p.config.exporterType != OTLPgRPC {
			opts := []otlpmetrichttp.Option{
				otlpmetrichttp.WithEndpoint(p.config.httpEndpoint),
				otlpmetrichttp.WithHeaders(p.config.headers),
				otlpmetrichttp.WithTimeout(p.config.timeout),
			}
			if p.config.insecure {
				opts = append(opts, otlpmetrichttp.WithInsecure())
			}
			exporter, err := otlpmetrichttp.New(context.Background(), opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create HTTP metric exporter: %w", err)
			}
			readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(p.config.batchTimeout),
			))
		}
		if p.config.exporterType != OTLPHTTP {
			opts := []otlpmetricgrpc.Option{
				otlpmetricgrpc.WithEndpoint(p.config.grpcEndpoint),
				otlpmetricgrpc.WithHeaders(p.config.headers),
				otlpmetricgrpc.WithTimeout(p.config.timeout),
			}
			if p.config.insecure {
				opts = append(opts, otlpmetricgrpc.WithInsecure())
			}
			exporter, err := otlpmetricgrpc.New(context.Background(), opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create gRPC metric exporter: %w", err)
			}
			readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(p.config.batchTimeout),
			))
		}
	}

	return readers, nil
}

// logProcessors builds batch processors for the OTLP variants. Stdout has no
// log exporter: console logging is already pkg/log's zerolog writer, so a
// second stdout stream would duplicate every line.
func (p *Provider) logProcessors() ([]log.Processor, error) {
	var processors []log.Processor

	switch p.config.exporterType {
	case NoOp, Stdout:
	case OTLPHTTP, OTLPgRPC, Dual:
		if p.config.exporterType != OTLPgRPC {
			opts := []otlploghttp.Option{
				otlploghttp.WithEndpoint(p.config.httpEndpoint),
				otlploghttp.WithHeaders(p.config.headers),
				otlploghttp.WithTimeout(p.config.timeout),
			}
			if p.config.insecure {
				opts = append(opts, otlploghttp.WithInsecure())
			}
			exporter, err := otlploghttp.New(context.Background(), opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create HTTP log exporter: %w", err)
			}
			processors = append(processors, log.NewBatchProcessor(exporter))
		}
		if p.config.exporterType != OTLPHTTP {
			opts := []otlploggrpc.Option{
				otlploggrpc.WithEndpoint(p.config.grpcEndpoint),
				otlploggrpc.WithHeaders(p.config.headers),
				otlploggrpc.WithTimeout(p.config.timeout),
			}
			if p.config.insecure {
				opts = append(opts, otlploggrpc.WithInsecure())
			}
			exporter, err := otlploggrpc.New(context.Background(), opts...)
			if err != nil {
				return nil, fmt.Errorf("failed to create gRPC log exporter: %w", err)
			}
			processors = append(processors, log.NewBatchProcessor(exporter))
		}
	}

	return processors, nil
}

// registerGlobals installs this provider's signal providers as the process
// globals and sets the composite trace-context/baggage propagator.
func (p *Provider) registerGlobals() {
	if p.traceProvider != nil {
		otel.SetTracerProvider(p.traceProvider)
	}
	if p.meterProvider != nil {
		otel.SetMeterProvider(p.meterProvider)
	}
	if p.logProvider != nil {
		global.SetLoggerProvider(p.logProvider)
	} else {
		global.SetLoggerProvider(noop.NewLoggerProvider())
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}
