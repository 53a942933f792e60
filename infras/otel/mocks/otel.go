package mocks

import (
	"context"
	"sync"

	"albumsync/infras/otel"
)

type otelImpl struct {
}

// NewScope implements otel.Otel.
func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

// Shutdown implements otel.Otel.
func (o *otelImpl) Shutdown(_ context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return &otelImpl{}
}

// Recorder is an otel.Otel that keeps the errors and events traced per span name.
type Recorder struct {
	mu     sync.Mutex
	errors map[string][]error
	events map[string][]string
}

func NewRecorder() *Recorder {
	return &Recorder{
		errors: make(map[string][]error),
		events: make(map[string][]string),
	}
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	return ctx, &scopeImpl{name: spanName, recorder: r}
}

// Shutdown implements otel.Otel.
func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

// Errors returns the errors traced on spans named spanName.
func (r *Recorder) Errors(spanName string) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors[spanName]...)
}

// Events returns the events added to spans named spanName.
func (r *Recorder) Events(spanName string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.events[spanName]...)
}

func (r *Recorder) addError(spanName string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors[spanName] = append(r.errors[spanName], err)
}

func (r *Recorder) addEvent(spanName, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[spanName] = append(r.events[spanName], event)
}
