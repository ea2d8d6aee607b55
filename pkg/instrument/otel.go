package instrument

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Default tracer name for relayed applications.
const defaultTracerName = "relayed"

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// TracerName is the name of the tracer (default: "relayed").
	// Ignored when Tracer is set.
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// Metrics receives one observation per finished action. Optional.
	Metrics *Metrics

	// Logger receives action failures. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*RecorderConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) RecorderOption {
	return func(c *RecorderConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) RecorderOption {
	return func(c *RecorderConfig) {
		c.Tracer = tracer
	}
}

// WithMetrics records action outcomes on m.
func WithMetrics(m *Metrics) RecorderOption {
	return func(c *RecorderConfig) {
		c.Metrics = m
	}
}

// WithLogger sets the logger used for action failures.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(c *RecorderConfig) {
		c.Logger = logger
	}
}

// Recorder traces, measures, and logs domain actions. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	tracer  trace.Tracer
	metrics *Metrics
	logger  *slog.Logger
}

// NewRecorder creates a Recorder. Without WithTracer the tracer comes from
// the global OpenTelemetry provider, so configure it in main() before use:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func NewRecorder(opts ...RecorderOption) *Recorder {
	config := RecorderConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		tracer:  tracer,
		metrics: config.Metrics,
		logger:  logger,
	}
}

// Logger returns the recorder's logger, or slog.Default() for a nil
// Recorder.
func (r *Recorder) Logger() *slog.Logger {
	if r == nil {
		return slog.Default()
	}
	return r.logger
}

// Action is one in-flight domain action started by Recorder.Start.
type Action struct {
	name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
	logger  *slog.Logger
}

// Start opens a span named action and returns a context carrying it.
func (r *Recorder) Start(ctx context.Context, action string, attrs ...attribute.KeyValue) (context.Context, *Action) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r == nil {
		return ctx, &Action{name: action, start: time.Now(), span: noop.Span{}, logger: slog.Default()}
	}

	attrs = append(attrs, attribute.String("relayed.action", action))
	spanCtx, span := r.tracer.Start(ctx, action,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return spanCtx, &Action{
		name:    action,
		start:   time.Now(),
		span:    span,
		metrics: r.metrics,
		logger:  r.logger,
	}
}

// SetAttributes adds attributes to the action's span.
func (a *Action) SetAttributes(attrs ...attribute.KeyValue) {
	a.span.SetAttributes(attrs...)
}

// End closes the span, recording err when non-nil, and observes the
// action's duration. Failures are logged at error level.
func (a *Action) End(err error) {
	duration := time.Since(a.start)

	if err != nil {
		a.span.RecordError(err)
		a.span.SetStatus(codes.Error, err.Error())
		a.logger.Error("action failed",
			"action", a.name,
			"error", err,
			"duration", duration,
		)
	} else {
		a.span.SetStatus(codes.Ok, "")
	}
	a.span.End()

	a.metrics.ObserveAction(a.name, duration, err)
}
