package telemetry

import (
	"context"
	"testing"

	"league-ladder/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx/fxtest"
)

func TestNewTracerProviderWithoutExporter(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, &config.Config{TraceExporter: config.TraceExporterNone})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(ctx, "pipeline.daily")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderOTLP(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, &config.Config{
		TraceExporter: config.TraceExporterOTLP,
		TraceEndpoint: "http://192.0.2.1:4318",
	})
	require.NoError(t, err)
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderRejectsUnknownExporter(t *testing.T) {
	_, err := NewTracerProvider(context.Background(), &config.Config{TraceExporter: "zipkin"})
	assert.ErrorContains(t, err, "zipkin")
}

func TestNewInstallsGlobalProvider(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
	lc := fxtest.NewLifecycle(t)

	tracer, err := New(lc, &config.Config{TraceExporter: config.TraceExporterNone}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, tracer)
	assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())

	lc.RequireStart().RequireStop()
}
