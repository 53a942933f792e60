package mocks

import "albumsync/infras/otel"

// scopeImpl discards everything, or hands it to a Recorder when one is attached.
type scopeImpl struct {
	name     string
	recorder *Recorder
}

// AddEvent implements otel.Scope.
func (s *scopeImpl) AddEvent(name string, _ ...map[string]any) {
	if s.recorder != nil {
		s.recorder.addEvent(s.name, name)
	}
}

// End implements otel.Scope.
func (s *scopeImpl) End() {

}

// SetAttribute implements otel.Scope.
func (s *scopeImpl) SetAttribute(_ string, _ any) {

}

// SetAttributes implements otel.Scope.
func (s *scopeImpl) SetAttributes(_ map[string]any) {

}

// TraceError implements otel.Scope.
func (s *scopeImpl) TraceError(err error) {
	if s.recorder != nil {
		s.recorder.addError(s.name, err)
	}
}

// TraceIfError implements otel.Scope.
func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func NewScope() otel.Scope {
	return &scopeImpl{}
}
