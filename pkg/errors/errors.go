package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeRemote  ErrorType = "remote"
	ErrorTypeIO      ErrorType = "io"
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeParsing ErrorType = "parsing"
)

// Error represents a LinkedIn client error with type information.
//
// Code and Body are set for remote errors, Variable for config errors and
// Path for IO errors.
type Error struct {
	Type     ErrorType
	Message  string
	Code     int
	Body     string
	Variable string
	Path     string
	Err      error
}

func (e *Error) Error() string {
	switch e.Type {
	case ErrorTypeRemote:
		return fmt.Sprintf("%s error (code %d): %s: %s", e.Type, e.Code, e.Message, e.Body)
	case ErrorTypeIO:
		return fmt.Sprintf("%s error (%s): %s", e.Type, e.Path, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Type, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigError reports a missing or invalid configuration variable together
// with a hint on how to fix it.
func NewConfigError(variable, remediation string) *Error {
	return &Error{
		Type:     ErrorTypeConfig,
		Message:  fmt.Sprintf("`%s` not found in your environment variables. %s", variable, remediation),
		Variable: variable,
	}
}

// NewRemoteError reports a non-success HTTP status returned by the API.
func NewRemoteError(code int, url string, body []byte) *Error {
	return &Error{
		Type:    ErrorTypeRemote,
		Message: fmt.Sprintf("request to %s failed", url),
		Code:    code,
		Body:    string(body),
	}
}

// NewIOError reports a local file that could not be read.
func NewIOError(path string, err error) *Error {
	return &Error{
		Type:    ErrorTypeIO,
		Message: err.Error(),
		Path:    path,
		Err:     err,
	}
}

// IsType reports whether any error in err's chain is an *Error of type t.
func IsType(err error, t ErrorType) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// StatusCode returns the HTTP status carried by a remote error, or 0.
func StatusCode(err error) int {
	var e *Error
	if stderrors.As(err, &e) && e.Type == ErrorTypeRemote {
		return e.Code
	}
	return 0
}

// IsSuccessStatus checks if an HTTP status code is in the 2xx range
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
