package otel

import (
	"errors"
	"fmt"

	"albumsync/shared/failure"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	failureKindAttribute   = "failure.kind"
	failureReasonAttribute = "failure.reason"
	partialDoneAttribute   = "partial.done"
	partialTotalAttribute  = "partial.total"

	partialSuccessEvent = "partial_success"
)

// Scope is one traced operation. TraceIfError must be deferred through a closure so it
// sees the final value of a named error result.
type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string, attributes ...map[string]any)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func (s *scopeImpl) End() {
	s.span.End()
}

// TraceError marks the span failed with the failure kind and reason. A partial success
// is recorded as an event and leaves the span status untouched.
func (s *scopeImpl) TraceError(err error) {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		if fail.Kind == failure.KindPartialSuccess {
			s.AddEvent(partialSuccessEvent, map[string]any{
				partialDoneAttribute:  fail.Done,
				partialTotalAttribute: fail.Total,
			})

			return
		}

		s.SetAttributes(map[string]any{
			failureKindAttribute:   string(fail.Kind),
			failureReasonAttribute: string(fail.Reason),
		})
	}

	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scopeImpl) AddEvent(name string, attributes ...map[string]any) {
	var kvs []attribute.KeyValue
	for _, attrs := range attributes {
		for key, value := range attrs {
			kvs = append(kvs, toAttribute(key, value))
		}
	}

	s.span.AddEvent(name, oteltrace.WithAttributes(kvs...))
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch val := value.(type) {
	case bool:
		return attribute.Bool(key, val)
	case string:
		return attribute.String(key, val)
	case int:
		return attribute.Int(key, val)
	case uint64:
		return attribute.Int64(key, int64(val))
	case []string:
		return attribute.StringSlice(key, val)
	default:
		return attribute.String(key, fmt.Sprintf("%v", val))
	}
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{
		span: span,
	}
}
