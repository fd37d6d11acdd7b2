package telemetry

import (
	"context"
	"fmt"

	"league-ladder/internal/config"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const ServiceName = "league-ladder"

// NewTracerProvider builds the SDK tracer provider for cfg.TraceExporter.
// With no exporter the provider still creates real spans but ships them
// nowhere.
func NewTracerProvider(ctx context.Context, cfg *config.Config) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	switch cfg.TraceExporter {
	case "", config.TraceExporterNone:
	case config.TraceExporterOTLP:
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.TraceEndpoint))
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.TraceExporter)
	}

	return sdktrace.NewTracerProvider(opts...), nil
}

// New installs the tracer provider globally and flushes it on stop.
func New(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (trace.Tracer, error) {
	tp, err := NewTracerProvider(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := tp.Shutdown(ctx); err != nil {
				return fmt.Errorf("failed to shut down tracer provider: %w", err)
			}
			return nil
		},
	})

	logger.Info().Str("exporter", cfg.TraceExporter).Msg("tracing configured")
	return tp.Tracer(ServiceName), nil
}

var Module = fx.Provide(New)
