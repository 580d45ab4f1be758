// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"time"
)

// ExporterType selects where telemetry signals are sent.
type ExporterType int

const (
	// NoOp discards all telemetry with minimal overhead, the default for
	// embedded targets with no collector reachable.
	NoOp ExporterType = iota
	// OTLPHTTP exports via OTLP over HTTP.
	OTLPHTTP
	// OTLPgRPC exports via OTLP over gRPC.
	OTLPgRPC
	// Dual exports via both HTTP and gRPC.
	Dual
	// Stdout writes traces and metrics to the process's stdout, for local
	// demonstration binaries that have no collector to export to.
	Stdout
)

// Config is the assembled provider configuration; callers build it through
// the Option functions rather than touching fields directly.
type Config struct {
	exporterType   ExporterType
	httpEndpoint   string
	grpcEndpoint   string
	headers        map[string]string
	timeout        time.Duration
	batchTimeout   time.Duration
	maxExportBatch int
	maxQueueSize   int
	serviceName    string
	serviceVersion string
	enableMetrics  bool
	enableTraces   bool
	enableLogs     bool
	insecure       bool
	samplingRatio  float64
	resourceAttrs  map[string]string
}

// DefaultConfig returns the baseline configuration: every signal enabled,
// full sampling, NoOp export until a binary opts into a real exporter.
func DefaultConfig() *Config {
	return &Config{
		exporterType:   NoOp,
		timeout:        30 * time.Second,
		batchTimeout:   5 * time.Second,
		maxExportBatch: 512,
		maxQueueSize:   2048,
		serviceName:    "onboardfw",
		serviceVersion: "1.0.0",
		enableMetrics:  true,
		enableTraces:   true,
		enableLogs:     true,
		insecure:       false,
		samplingRatio:  1.0,
		headers:        make(map[string]string),
		resourceAttrs:  make(map[string]string),
	}
}

// Option mutates the configuration during Setup/NewProvider.
type Option func(*Config)

// WithExporterType selects the exporter variant.
func WithExporterType(exporterType ExporterType) Option {
	return func(c *Config) { c.exporterType = exporterType }
}

// WithHTTPEndpoint sets the endpoint for OTLP-over-HTTP export.
func WithHTTPEndpoint(endpoint string) Option {
	return func(c *Config) { c.httpEndpoint = endpoint }
}

// WithgRPCEndpoint sets the endpoint for OTLP-over-gRPC export.
func WithgRPCEndpoint(endpoint string) Option {
	return func(c *Config) { c.grpcEndpoint = endpoint }
}

// WithHeaders sets additional headers sent by the OTLP exporters.
func WithHeaders(headers map[string]string) Option {
	return func(c *Config) { c.headers = headers }
}

// WithTimeout bounds individual export calls.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.timeout = timeout }
}

// WithBatchTimeout sets how long spans and records may sit in a batch
// before being flushed.
func WithBatchTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.batchTimeout = timeout }
}

// WithMaxExportBatch caps the number of items per export batch.
func WithMaxExportBatch(size int) Option {
	return func(c *Config) { c.maxExportBatch = size }
}

// WithMaxQueueSize caps the queue of items pending export.
func WithMaxQueueSize(size int) Option {
	return func(c *Config) { c.maxQueueSize = size }
}

// WithServiceName names the service in every exported resource.
func WithServiceName(name string) Option {
	return func(c *Config) { c.serviceName = name }
}

// WithServiceVersion records the service version in the resource.
func WithServiceVersion(version string) Option {
	return func(c *Config) { c.serviceVersion = version }
}

// WithMetrics enables or disables the metrics signal.
func WithMetrics(enabled bool) Option {
	return func(c *Config) { c.enableMetrics = enabled }
}

// WithTraces enables or disables the traces signal.
func WithTraces(enabled bool) Option {
	return func(c *Config) { c.enableTraces = enabled }
}

// WithLogs enables or disables the logs signal.
func WithLogs(enabled bool) Option {
	return func(c *Config) { c.enableLogs = enabled }
}

// WithInsecure allows plaintext connections to OTLP endpoints.
func WithInsecure(insecure bool) Option {
	return func(c *Config) { c.insecure = insecure }
}

// WithSamplingRatio sets the trace sampling ratio, clamped to [0, 1].
func WithSamplingRatio(ratio float64) Option {
	return func(c *Config) {
		if ratio < 0.0 {
			ratio = 0.0
		}
		if ratio > 1.0 {
			ratio = 1.0
		}
		c.samplingRatio = ratio
	}
}

// WithResourceAttributes attaches extra resource attributes to every signal.
func WithResourceAttributes(attrs map[string]string) Option {
	return func(c *Config) { c.resourceAttrs = attrs }
}

// WithOTLPHTTP selects OTLP-over-HTTP export to endpoint in one call.
func WithOTLPHTTP(endpoint string) Option {
	return func(c *Config) {
		c.exporterType = OTLPHTTP
		c.httpEndpoint = endpoint
	}
}

// WithOTLPgRPC selects OTLP-over-gRPC export to endpoint in one call.
func WithOTLPgRPC(endpoint string) Option {
	return func(c *Config) {
		c.exporterType = OTLPgRPC
		c.grpcEndpoint = endpoint
	}
}

// WithDualOTLP selects simultaneous HTTP and gRPC export in one call.
func WithDualOTLP(httpEndpoint, grpcEndpoint string) Option {
	return func(c *Config) {
		c.exporterType = Dual
		c.httpEndpoint = httpEndpoint
		c.grpcEndpoint = grpcEndpoint
	}
}
