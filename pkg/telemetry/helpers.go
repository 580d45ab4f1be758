// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan opens a span on the named tracer. The engines themselves never
// call this; it belongs to the service layer wrapping a descriptor, where a
// single Execute or activation pass is the natural span boundary.
func StartSpan(ctx context.Context, tracerName, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return GetTracer(tracerName).Start(ctx, spanName, opts...)
}

// WithSpan runs fn inside a span on the named tracer, ending the span when
// fn returns and recording fn's error on it, if any.
func WithSpan(ctx context.Context, tracerName, spanName string, fn func(context.Context) error, opts ...trace.SpanStartOption) error {
	spanCtx, span := StartSpan(ctx, tracerName, spanName, opts...)
	defer span.End()

	if err := fn(spanCtx); err != nil {
		RecordError(spanCtx, err, "operation failed")
		return err
	}
	return nil
}

// RecordError records err on the span in ctx and marks the span's status as
// error. A no-op when ctx carries no recording span, so callers don't need
// to know whether tracing is enabled.
func RecordError(ctx context.Context, err error, description string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err, trace.WithAttributes(
			attribute.String("error.description", description),
		))
		span.SetStatus(codes.Error, description)
	}
}

// SetSpanAttributes sets attributes on the span in ctx; a no-op when none is
// recording.
func SetSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// AddSpanEvent attaches a point-in-time event to the span in ctx, the right
// shape for things like "trigger fired" or "choice resolved" that are not
// spans of their own.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

// Counter returns an int64 counter on the named meter.
func Counter(meterName, name, description, unit string) (metric.Int64Counter, error) {
	return GetMeter(meterName).Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
}

// Histogram returns a float64 histogram on the named meter, typically used
// for pass and transition durations.
func Histogram(meterName, name, description, unit string) (metric.Float64Histogram, error) {
	return GetMeter(meterName).Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
}

// RecordDuration records duration into histogram with the given attributes.
func RecordDuration(ctx context.Context, histogram metric.Float64Histogram, duration float64, attrs ...attribute.KeyValue) {
	histogram.Record(ctx, duration, metric.WithAttributes(attrs...))
}

// StringAttr builds a string span/metric attribute.
func StringAttr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// IntAttr builds an int span/metric attribute.
func IntAttr(key string, value int) attribute.KeyValue {
	return attribute.Int(key, value)
}

// Int64Attr builds an int64 span/metric attribute.
func Int64Attr(key string, value int64) attribute.KeyValue {
	return attribute.Int64(key, value)
}

// Float64Attr builds a float64 span/metric attribute, the shape sensor
// readings are reported in.
func Float64Attr(key string, value float64) attribute.KeyValue {
	return attribute.Float64(key, value)
}

// BoolAttr builds a bool span/metric attribute.
func BoolAttr(key string, value bool) attribute.KeyValue {
	return attribute.Bool(key, value)
}
