package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"albumsync/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Kind:    failure.KindValidation,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected *failure.Failure
	}{
		{
			name:     "with error",
			input:    errors.New("title is required"),
			expected: &failure.Failure{Code: http.StatusBadRequest, Kind: failure.KindValidation, Message: "title is required"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}

				return
			}

			f, ok := result.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", result)
			}

			if f.Code != tt.expected.Code || f.Kind != tt.expected.Kind || f.Message != tt.expected.Message {
				t.Errorf("expected %+v, got %+v", tt.expected, f)
			}
		})
	}
}

func TestPermissionDenied(t *testing.T) {
	result := failure.PermissionDenied("media library access revoked")

	if failure.GetCode(result) != http.StatusForbidden {
		t.Errorf("expected code to be %d, got %d", http.StatusForbidden, failure.GetCode(result))
	}

	if failure.KindOf(result) != failure.KindPermissionDenied {
		t.Errorf("expected kind to be %s, got %s", failure.KindPermissionDenied, failure.KindOf(result))
	}
}

func TestGateway(t *testing.T) {
	cause := errors.New("disk unplugged")

	tests := []struct {
		name       string
		reason     failure.Reason
		err        error
		wantCode   int
		wantReason failure.Reason
		wantCause  bool
	}{
		{
			name:       "io failure",
			reason:     failure.ReasonIOFailure,
			err:        cause,
			wantCode:   http.StatusBadGateway,
			wantReason: failure.ReasonIOFailure,
			wantCause:  true,
		},
		{
			name:       "not found",
			reason:     failure.ReasonNotFound,
			err:        nil,
			wantCode:   http.StatusNotFound,
			wantReason: failure.ReasonNotFound,
		},
		{
			name:       "existing failure passes through",
			reason:     failure.ReasonIOFailure,
			err:        failure.NotFound("album gone"),
			wantCode:   http.StatusNotFound,
			wantReason: failure.ReasonNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.Gateway(tt.reason, "list albums", tt.err)

			if failure.GetCode(result) != tt.wantCode {
				t.Errorf("expected code to be %d, got %d", tt.wantCode, failure.GetCode(result))
			}

			if failure.ReasonOf(result) != tt.wantReason {
				t.Errorf("expected reason to be %s, got %s", tt.wantReason, failure.ReasonOf(result))
			}

			if tt.wantCause && !errors.Is(result, cause) {
				t.Errorf("expected %v to wrap the cause", result)
			}
		})
	}
}

func TestPersistence(t *testing.T) {
	if failure.Persistence("save mirror", nil) != nil {
		t.Error("expected nil for nil cause")
	}

	cause := errors.New("read-only file system")
	result := failure.Persistence("save mirror", cause)

	if !failure.IsKind(result, failure.KindPersistence) {
		t.Errorf("expected persistence kind, got %s", failure.KindOf(result))
	}

	if !errors.Is(result, cause) {
		t.Error("expected persistence failure to unwrap to its cause")
	}
}

func TestPartial(t *testing.T) {
	result := failure.Partial("album created", 3, 5)

	f, ok := result.(*failure.Failure)
	if !ok {
		t.Fatalf("expected result to be *failure.Failure, got %T", result)
	}

	if f.Done != 3 || f.Total != 5 {
		t.Errorf("expected 3 of 5, got %d of %d", f.Done, f.Total)
	}

	if f.Message != "album created (3 of 5)" {
		t.Errorf("unexpected message %q", f.Message)
	}

	if !failure.IsPartial(fmt.Errorf("wrapped: %w", result)) {
		t.Error("expected wrapped partial failure to be detected")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "conflict",
			input:    failure.Conflict("flow in progress"),
			expected: http.StatusConflict,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestKindHelpers(t *testing.T) {
	if failure.IsKind(nil, failure.KindInternal) {
		t.Error("nil error must not match any kind")
	}

	if failure.KindOf(errors.New("plain")) != failure.KindInternal {
		t.Error("foreign errors are internal")
	}

	if !failure.IsNotFound(failure.NotFound("asset")) {
		t.Error("expected not found reason")
	}
}
