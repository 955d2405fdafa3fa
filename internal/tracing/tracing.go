// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package tracing contains helpers for creating OpenTelemetry spans.
//
// No exporter is configured by this package. Spans are recorded only when the host installs a
// TracerProvider with otel.SetTracerProvider.
package tracing

import (
	"context"

	"github.com/stackscan/stackscan/internal/tracing/fields"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Start creates a span and a context containing the newly-created span.
func Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(fields.ServiceNameStackScan).Start(ctx, spanName, opts...)
}
