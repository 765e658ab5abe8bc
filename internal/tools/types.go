// Package tools defines the structured result type every tutorial tool
// returns. Operations report domain failures (denied path, missing record,
// upstream error) inside a Result rather than as Go errors, so a failed tool
// call never terminates the server; Go errors are reserved for faults in the
// serving machinery itself.
package tools

import "fmt"

// Status indicates whether a tool operation succeeded.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrorCode classifies tool failures for clients.
type ErrorCode string

const (
	// ErrCodeSecurity marks rejected input such as a path outside the
	// workspace or a non-read-only query. Never a not-found.
	ErrCodeSecurity ErrorCode = "SECURITY"

	// ErrCodeNotFound marks a missing file, record, or remote entity.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeValidation marks malformed or unacceptable input.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeIO marks a local filesystem failure.
	ErrCodeIO ErrorCode = "IO"

	// ErrCodeNetwork marks a transport-level failure reaching a remote
	// service.
	ErrCodeNetwork ErrorCode = "NETWORK"

	// ErrCodeUpstream marks a remote service that answered with an error.
	ErrCodeUpstream ErrorCode = "UPSTREAM"

	// ErrCodeDatabase marks a database failure.
	ErrCodeDatabase ErrorCode = "DATABASE"
)

// Error carries a classified tool failure.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code == "" {
		return e.Message
	}
	return string(e.Code) + ": " + e.Message
}

// Result is the outcome of a single tool operation.
//
// Message holds the human-readable rendering shown to the invoking agent;
// Data holds the structured payload for programmatic callers and tests.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Ok builds a success result.
func Ok(message string, data any) Result {
	return Result{Status: StatusSuccess, Message: message, Data: data}
}

// Errorf builds an error result with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) Result {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Result{
		Status:  StatusError,
		Message: msg,
		Error:   &Error{Code: code, Message: msg},
	}
}
