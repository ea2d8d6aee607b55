// Package instrumenttest provides an in-memory tracer for asserting on the
// spans instrument.Recorder produces.
package instrumenttest

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span is a finished or in-flight span captured by Tracer.
type Span struct {
	noop.Span

	mu         sync.Mutex
	name       string
	attrs      []attribute.KeyValue
	errs       []error
	status     codes.Code
	statusDesc string
	ended      bool
}

// Name returns the span name.
func (s *Span) Name() string {
	return s.name
}

// Attributes returns the start attributes plus any set later.
func (s *Span) Attributes() []attribute.KeyValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]attribute.KeyValue(nil), s.attrs...)
}

// Attribute returns the value of key, if present.
func (s *Span) Attribute(key attribute.Key) (attribute.Value, bool) {
	for _, kv := range s.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// Errors returns the errors recorded on the span.
func (s *Span) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

// Status returns the last status code set.
func (s *Span) Status() codes.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Ended reports whether End was called.
func (s *Span) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// IsRecording reports true so callers do not skip attribute work.
func (s *Span) IsRecording() bool {
	return true
}

// SetAttributes records attributes.
func (s *Span) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, kv...)
}

// RecordError records err.
func (s *Span) RecordError(err error, _ ...trace.EventOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

// SetStatus records the status.
func (s *Span) SetStatus(code codes.Code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
	s.statusDesc = description
}

// End marks the span ended.
func (s *Span) End(...trace.SpanEndOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

// Tracer captures every span it starts.
type Tracer struct {
	noop.Tracer

	mu    sync.Mutex
	spans []*Span
}

// NewTracer creates an empty Tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// Start begins a captured span.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &Span{name: name, attrs: cfg.Attributes()}

	t.mu.Lock()
	t.spans = append(t.spans, span)
	t.mu.Unlock()

	return trace.ContextWithSpan(ctx, span), span
}

// Spans returns the captured spans in start order.
func (t *Tracer) Spans() []*Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Span(nil), t.spans...)
}

// Named returns the captured spans with the given name.
func (t *Tracer) Named(name string) []*Span {
	var out []*Span
	for _, s := range t.Spans() {
		if s.name == name {
			out = append(out, s)
		}
	}
	return out
}
