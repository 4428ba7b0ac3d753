package system

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TelemetryConfig selects the default trace-hook backend. It mirrors
// Terraform/Terragrunt-style telemetry exporter options
// (TraceExporter / TraceExporterHTTPEndpoint), scaled down to the
// exporters this module wires in.
type TelemetryConfig struct {
	// TraceExporter is one of "console", "http"/"otlpHttp" or
	// "grpc"/"otlpGrpc". Empty defaults to "console".
	TraceExporter string
	// TraceExporterHTTPEndpoint is required when TraceExporter is
	// "http" (a bare custom endpoint, as opposed to "otlpHttp"'s
	// environment-derived default).
	TraceExporterHTTPEndpoint string
}

// NewTraceExporter builds the underlying OTel span exporter for cfg,
// writing console output to w.
func NewTraceExporter(ctx context.Context, w io.Writer, cfg TelemetryConfig) (sdktrace.SpanExporter, error) {
	switch cfg.TraceExporter {
	case "", "console":
		return stdouttrace.New(stdouttrace.WithWriter(w))
	case "otlpHttp":
		return otlptracehttp.New(ctx)
	case "http":
		if cfg.TraceExporterHTTPEndpoint == "" {
			return nil, errors.New("trace exporter \"http\" requires TraceExporterHTTPEndpoint")
		}
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.TraceExporterHTTPEndpoint))
	case "otlpGrpc", "grpc":
		return otlptracegrpc.New(ctx)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.TraceExporter)
	}
}

// NewOtelRuntime wires a Runtime whose Trace hook emits one OTel span
// per trace message and whose ExceptionHandler
// records the error on a new span in addition to logging it. One
// correlation ID is generated per Runtime and attached to every span
// and log line it emits. The
// returned shutdown func flushes the exporter and should be deferred
// by the caller.
func NewOtelRuntime(ctx context.Context, cfg TelemetryConfig, w io.Writer, logger *logrus.Entry) (*Runtime, func(context.Context) error, error) {
	exporter, err := NewTraceExporter(ctx, w, cfg)
	if err != nil {
		return nil, nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	tracer := provider.Tracer("github.com/crimeminister/commix/system")

	rt := NewRuntime(logger)
	callID := uuid.NewString()

	rt.Trace = func(msg string) {
		_, span := tracer.Start(ctx, "commix.trace")
		span.SetAttributes(
			attribute.String("commix.call_id", callID),
			attribute.String("commix.message", msg),
		)
		span.End()
		rt.logger().WithField("call_id", callID).Debug(msg)
	}

	rt.ExceptionHandler = func(sys *System, err error) *System {
		_, span := tracer.Start(ctx, "commix.exception")
		span.RecordError(err)
		span.SetAttributes(attribute.String("commix.call_id", callID))
		span.End()
		rt.logger().WithField("call_id", callID).WithError(err).Error("action exception")
		return sys
	}

	return rt, provider.Shutdown, nil
}
