// OpenTelemetry tracing support for dispatch observability.
package telemetry

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps OpenTelemetry tracing with dispatch-specific helpers.
type Tracer struct {
	tracer trace.Tracer
	debug  bool // When true, include content in span attributes
}

var (
	globalTracer *Tracer
	tracerMu     sync.RWMutex
)

// SetGlobalTracer sets the global tracer instance.
func SetGlobalTracer(t *Tracer) {
	tracerMu.Lock()
	defer tracerMu.Unlock()
	globalTracer = t
}

// GetTracer returns the global tracer, or a no-op tracer if not set.
func GetTracer() *Tracer {
	tracerMu.RLock()
	defer tracerMu.RUnlock()
	if globalTracer == nil {
		return &Tracer{tracer: trace.NewNoopTracerProvider().Tracer("")}
	}
	return globalTracer
}

// NewTracer creates a new tracer with the given name.
func NewTracer(name string, debug bool) *Tracer {
	return &Tracer{
		tracer: otel.Tracer(name),
		debug:  debug,
	}
}

// SetDebug enables or disables debug mode (content in spans).
func (t *Tracer) SetDebug(debug bool) {
	t.debug = debug
}

// Debug returns whether debug mode is enabled.
func (t *Tracer) Debug() bool {
	return t.debug
}

// StartSpan starts a new span with the given name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// --- Run Spans ---

// RunSpanOptions contains options for the root dispatch span.
type RunSpanOptions struct {
	Owner    string
	TaskName string
	TaskID   string
	Created  bool
	Prompt   string // Only included if debug=true
}

// StartRunSpan starts the root span for a dispatch run.
func (t *Tracer) StartRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "dispatch.run", trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(attribute.String("run.id", runID))
	return ctx, span
}

// EndRunSpan ends the root dispatch span with attributes.
func (t *Tracer) EndRunSpan(span trace.Span, opts RunSpanOptions, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("task.owner", opts.Owner),
		attribute.String("task.name", opts.TaskName),
		attribute.Bool("task.created", opts.Created),
	}
	if opts.TaskID != "" {
		attrs = append(attrs, attribute.String("task.id", opts.TaskID))
	}

	// Prompt only in debug mode (user data)
	if t.debug && opts.Prompt != "" {
		attrs = append(attrs, attribute.String("dispatch.prompt", truncate(opts.Prompt, 4000)))
	}

	span.SetAttributes(attrs...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// --- Request Spans ---

// RequestSpanOptions contains options for platform request spans.
type RequestSpanOptions struct {
	Method string
	Path   string
	Status int
	Body   string // Only included if debug=true
}

// StartRequestSpan starts a span for a platform API operation.
func (t *Tracer) StartRequestSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "platform."+operation, trace.WithSpanKind(trace.SpanKindClient))
}

// EndRequestSpan ends a platform request span with attributes.
func (t *Tracer) EndRequestSpan(span trace.Span, opts RequestSpanOptions, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", opts.Method),
		attribute.String("http.path", opts.Path),
	}
	if opts.Status != 0 {
		attrs = append(attrs, attribute.Int("http.status", opts.Status))
	}

	// Response bodies may carry user data
	if t.debug && opts.Body != "" {
		attrs = append(attrs, attribute.String("http.response_body", truncate(opts.Body, 4000)))
	}

	span.SetAttributes(attrs...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// --- Wait Spans ---

// WaitSpanOptions contains options for readiness wait spans.
type WaitSpanOptions struct {
	Ticks      int
	LastStatus string
	LastState  string
	Elapsed    time.Duration
}

// StartWaitSpan starts a span for a task readiness wait.
func (t *Tracer) StartWaitSpan(ctx context.Context, taskID string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "task.wait_ready", trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(attribute.String("task.id", taskID))
	return ctx, span
}

// EndWaitSpan ends a readiness wait span with attributes.
func (t *Tracer) EndWaitSpan(span trace.Span, opts WaitSpanOptions, err error) {
	span.SetAttributes(
		attribute.Int("wait.ticks", opts.Ticks),
		attribute.String("wait.last_status", opts.LastStatus),
		attribute.String("wait.last_state", opts.LastState),
		attribute.String("wait.elapsed", opts.Elapsed.Round(time.Millisecond).String()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// --- Context Propagation ---

// InjectHTTP injects trace context into outgoing request headers.
func InjectHTTP(ctx context.Context, header http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
}

// --- Helpers ---

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
