// Package tracer keeps the LOC service independent of the OpenTelemetry SDK.
// Services take a Tracer; tests use Noop and the server wires OTel.
package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span is ended exactly once with the operation's outcome.
type Span interface {
	End(err error)
	SetAttributes(attrs ...attribute.KeyValue)
}

type Tracer interface {
	Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span)
}

// Span attribute keys.
const (
	AttrLocID    = attribute.Key("loc.id")
	AttrLockKeys = attribute.Key("tx.lock_keys")
	AttrReason   = attribute.Key("loc.rule")
)

type noopTracer struct{}

type noopSpan struct{}

// Noop returns a Tracer that records nothing.
func Noop() Tracer { return noopTracer{} }

func (noopTracer) Start(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, Span) {
	return ctx, noopSpan{}
}

func (noopSpan) End(error)                           {}
func (noopSpan) SetAttributes(...attribute.KeyValue) {}

// OTel adapts an OpenTelemetry tracer.
type OTel struct {
	tracer trace.Tracer
}

// NewOTel names a tracer on the global provider.
func NewOTel(name string) *OTel {
	return WrapOTel(otel.Tracer(name))
}

func WrapOTel(t trace.Tracer) *OTel {
	return &OTel{tracer: t}
}

func (o *OTel) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	ctx, span := o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, otelSpan{span}
}

type otelSpan struct {
	trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.RecordError(err)
		s.SetStatus(codes.Error, err.Error())
	} else {
		s.SetStatus(codes.Ok, "")
	}
	s.Span.End()
}

func (s otelSpan) SetAttributes(attrs ...attribute.KeyValue) {
	s.Span.SetAttributes(attrs...)
}
