package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind tags every error crossing a pipeline boundary. Callers dispatch on the
// kind, never on message text.
type Kind string

const (
	// NotFound: a node, component, or block reference did not resolve.
	NotFound Kind = "not_found"

	// InvalidArgument: the request itself is malformed (bad raw id, bad
	// stage count, unparsable netlist).
	InvalidArgument Kind = "invalid_argument"

	// BehaviorChanged: the optimization verifier rejected a rewrite.
	BehaviorChanged Kind = "behavior_changed"

	// Unsupported: the operation is recognized but not implemented for the
	// given input.
	Unsupported Kind = "unsupported"

	// InternalError: an unexpected fault; message carries the original
	// diagnostic text.
	InternalError Kind = "internal_error"
)

// Error is the structured error type every public pipeline operation
// returns. It carries a kind for dispatch and a stable code for tooling.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NotFoundf builds a NotFound error.
func NotFoundf(code, format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf builds an InvalidArgument error.
func InvalidArgumentf(code, format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidArgument, Code: code, Message: fmt.Sprintf(format, args...)}
}

// BehaviorChangedf builds a BehaviorChanged error.
func BehaviorChangedf(code, format string, args ...interface{}) *Error {
	return &Error{Kind: BehaviorChanged, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Unsupportedf builds an Unsupported error.
func Unsupportedf(code, format string, args ...interface{}) *Error {
	return &Error{Kind: Unsupported, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internalf builds an InternalError carrying the original diagnostic text.
func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: InternalError, Code: CodeInternalFault, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain. Plain errors report
// InternalError: the unknown-fault conversion happens once, at the pipeline
// entry point, and anything else reaching a caller untagged is a bug.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return InternalError
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func asError(err error, target **Error) bool {
	return stderrors.As(err, target)
}
