package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/hgresolve/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports finished spans to a Logger.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	msg := fmt.Sprintf("%s %s", s.Name(), elapsed)
	if s.Status().Code == codes.Error {
		msg += " failed: " + s.Status().Description
	}
	b.logger.Event("trace", msg)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// SetupProvider registers a global TracerProvider. When logger is non-nil
// every finished span is reported through it.
func SetupProvider(logger ports.Logger) *sdktrace.TracerProvider {
	var opts []sdktrace.TracerProviderOption
	if logger != nil {
		opts = append(opts, sdktrace.WithSpanProcessor(NewBridge(logger)))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp
}
