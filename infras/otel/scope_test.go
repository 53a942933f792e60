package otel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"albumsync/infras/otel"
	"albumsync/shared/failure"
)

func traced(t *testing.T, run func(scope otel.Scope) error) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	op := func() (err error) {
		_, span := provider.Tracer("test").Start(context.Background(), "op")
		scope := otel.NewScope(span)
		defer scope.End()
		defer func() { scope.TraceIfError(err) }()

		return run(scope)
	}

	_ = op()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func attributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}

	return out
}

func TestScope_TraceIfError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantKind   string
		wantEvents []string
	}{
		{
			name:       "success",
			wantStatus: codes.Unset,
		},
		{
			name:       "gateway failure",
			err:        failure.Gateway(failure.ReasonIOFailure, "list albums", errors.New("disk busy")),
			wantStatus: codes.Error,
			wantKind:   string(failure.KindGateway),
			wantEvents: []string{"exception"},
		},
		{
			name:       "foreign error",
			err:        errors.New("boom"),
			wantStatus: codes.Error,
			wantEvents: []string{"exception"},
		},
		{
			name:       "partial success",
			err:        failure.Partial("device photos imported", 7, 10),
			wantStatus: codes.Unset,
			wantEvents: []string{"partial_success"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := traced(t, func(otel.Scope) error { return tt.err })

			assert.Equal(t, tt.wantStatus, span.Status().Code)

			var events []string
			for _, event := range span.Events() {
				events = append(events, event.Name)
			}

			assert.Equal(t, tt.wantEvents, events)

			kind, ok := attributes(span)["failure.kind"]
			if tt.wantKind == "" {
				assert.False(t, ok)

				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.wantKind, kind.AsString())
		})
	}
}

func TestScope_Attributes(t *testing.T) {
	span := traced(t, func(scope otel.Scope) error {
		scope.SetAttribute("album.id", "a1")
		scope.SetAttributes(map[string]any{"count": 3, "generation": uint64(9), "ok": true})
		scope.AddEvent("albums.refresh.retried", map[string]any{"attempt": 1})

		return nil
	})

	attrs := attributes(span)
	assert.Equal(t, "a1", attrs["album.id"].AsString())
	assert.Equal(t, int64(3), attrs["count"].AsInt64())
	assert.Equal(t, int64(9), attrs["generation"].AsInt64())
	assert.True(t, attrs["ok"].AsBool())

	require.Len(t, span.Events(), 1)
	assert.Equal(t, "albums.refresh.retried", span.Events()[0].Name)
}
