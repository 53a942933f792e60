package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a Failure for the presentation layer.
type Kind string

const (
	KindPermissionDenied Kind = "permission_denied"
	KindValidation       Kind = "validation"
	KindGateway          Kind = "gateway"
	KindPersistence      Kind = "persistence"
	KindPartialSuccess   Kind = "partial_success"
	KindConflict         Kind = "conflict"
	KindInternal         Kind = "internal"
)

// Reason narrows a gateway failure.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonNotFound         Reason = "not_found"
	ReasonIOFailure        Reason = "io_failure"
	ReasonPartialResult    Reason = "partial_result"
)

// Failure is a typed error carrying a status-style code, the failure kind and,
// for partial successes, how much of the operation was achieved.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message"`
	Done    int    `json:"done,omitempty"`
	Total   int    `json:"total,omitempty"`
	Err     error  `json:"-"`
}

var ErrNoPermission = &Failure{Code: http.StatusForbidden, Kind: KindPermissionDenied, Reason: ReasonPermissionDenied, Message: "permission to access the media library is required"}

// Error returns the failure message.
func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Failure) Unwrap() error {
	return e.Err
}

// BadRequest returns a new validation Failure with message derived from an error interface.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new validation Failure with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// PermissionDenied returns a new Failure for a missing media library capability.
func PermissionDenied(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindPermissionDenied,
		Reason:  ReasonPermissionDenied,
		Message: msg,
	}
}

// NotFound returns a new gateway Failure for a missing album or asset.
func NotFound(msg string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindGateway,
		Reason:  ReasonNotFound,
		Message: msg,
	}
}

// Gateway wraps a device store error. Errors that already are a Failure pass through.
func Gateway(reason Reason, msg string, err error) error {
	var fail *Failure
	if errors.As(err, &fail) {
		return err
	}

	code := http.StatusBadGateway
	if reason == ReasonNotFound {
		code = http.StatusNotFound
	}

	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}

	return &Failure{
		Code:    code,
		Kind:    KindGateway,
		Reason:  reason,
		Message: msg,
		Err:     err,
	}
}

// Persistence wraps a mirror store read or write error.
func Persistence(msg string, err error) error {
	if err == nil {
		return nil
	}

	return &Failure{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: fmt.Sprintf("%s: %v", msg, err),
		Err:     err,
	}
}

// Partial returns a Failure describing an operation that achieved done of total.
func Partial(msg string, done, total int) error {
	return &Failure{
		Code:    http.StatusMultiStatus,
		Kind:    KindPartialSuccess,
		Reason:  ReasonPartialResult,
		Message: fmt.Sprintf("%s (%d of %d)", msg, done, total),
		Done:    done,
		Total:   total,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// KindOf returns the kind of an error interface, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

// ReasonOf returns the gateway reason of an error interface.
func ReasonOf(err error) Reason {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Reason
	}

	return ReasonNone
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func IsPartial(err error) bool {
	return IsKind(err, KindPartialSuccess)
}

func IsNotFound(err error) bool {
	return err != nil && ReasonOf(err) == ReasonNotFound
}
