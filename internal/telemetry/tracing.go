// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name for snapmerge spans.
const TracerName = "snapmerge"

const spanSubmit = "session.submit"

// Tracer returns the tracer from the global provider. Without a configured
// provider it is a no-op.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartSubmit opens the span covering one submission.
func StartSubmit(ctx context.Context, tracer trace.Tracer, cycle uint64, files int) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	return tracer.Start(ctx, spanSubmit,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int64("snapmerge.cycle", int64(cycle)),
			attribute.Int("snapmerge.files", files),
		))
}

// EndSubmit records the outcome on span and ends it.
func EndSubmit(span trace.Span, outcome string, size int, err error) {
	span.SetAttributes(attribute.String("snapmerge.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("snapmerge.artifact_bytes", size))
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
