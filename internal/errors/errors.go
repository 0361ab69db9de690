package errors

import (
	"errors"
	"fmt"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
)

// Kind classifies an error into the closed taxonomy used by the scoring
// core. Callers branch on Kind, never on message text.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindData          Kind = "data"
	KindInvalidState  Kind = "invalid_state"
)

// Error wraps an errbuilder error with the taxonomy kind.
type Error struct {
	*errbuilder.ErrBuilder
	Kind Kind `json:"kind"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

func newError(kind Kind, code errbuilder.ErrCode, msg string, cause error) *Error {
	builder := errbuilder.New().
		WithCode(code).
		WithMsg(msg)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return &Error{
		ErrBuilder: builder,
		Kind:       kind,
	}
}

// NewValidationError reports a malformed or structurally invalid shipment
// record (missing required fields, empty package list, out-of-range values).
func NewValidationError(msg string) *Error {
	return newError(KindValidation, errbuilder.CodeInvalidArgument, msg, nil)
}

// NewValidationErrorWithFields reports multiple field-level validation
// failures in a single error.
func NewValidationErrorWithFields(msg string, fields map[string]string) *Error {
	errMap := errbuilder.ErrorMap{}
	for field, detail := range fields {
		errMap.Set(field, errors.New(detail))
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg).
		WithDetails(errbuilder.NewErrDetails(errMap))

	return &Error{
		ErrBuilder: builder,
		Kind:       KindValidation,
	}
}

// NewConfigurationError reports invalid configuration, such as aggregator
// weights that do not sum to 1.0.
func NewConfigurationError(msg string, cause error) *Error {
	return newError(KindConfiguration, errbuilder.CodeFailedPrecondition, msg, cause)
}

// NewDataError reports an unusable training set (empty, or shipments and
// scores of mismatched length).
func NewDataError(msg string, cause error) *Error {
	return newError(KindData, errbuilder.CodeInvalidArgument, msg, cause)
}

// NewInvalidStateError reports an operation attempted in the wrong lifecycle
// state, such as predicting with an untrained model.
func NewInvalidStateError(msg string) *Error {
	return newError(KindInvalidState, errbuilder.CodeFailedPrecondition, msg, nil)
}

func isKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return isKind(err, KindConfiguration) }

// IsData reports whether err is a training-data error.
func IsData(err error) bool { return isKind(err, KindData) }

// IsInvalidState reports whether err is a lifecycle-state error.
func IsInvalidState(err error) bool { return isKind(err, KindInvalidState) }
