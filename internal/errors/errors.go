// Package errors provides the structured error types used across codexlink.
//
// Base errors (sentinel errors):
//   - ErrIO - file I/O failed
//   - ErrInvalid - validation failed
//   - ErrCanceled - user canceled an interactive step
//   - ErrUnsupportedNode - an emitter was handed a node kind it cannot render
//
// Wrapped error types (add context):
//   - ConfigError{Path, Err} - configuration read/parse errors
//   - WriteError{Path, Err} - target-file write errors
//
// Validation clamps and backup failures are deliberately NOT errors: clamps
// are absorbed by the builder, and a failed backup is carried as a warning
// on the write result so the new config is still delivered.
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrIO indicates a file I/O error.
	ErrIO = baseError("I/O error")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrCanceled indicates the user canceled an operation.
	ErrCanceled = baseError("canceled")

	// ErrUnsupportedNode indicates an emitter received a document node of a
	// kind outside the closed set. This is a programming-contract violation,
	// never a user-recoverable condition.
	ErrUnsupportedNode = baseError("unsupported document node")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// WriteError represents a fatal failure writing one target file. Sibling
// target files are written independently, so a WriteError never aborts the
// other formats.
type WriteError struct {
	// Path is the target file path.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Wrap adds context to an error by wrapping it with an operation name.
func Wrap(err error, op string) error {
	return &wrappedError{op: op, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// IsIO reports whether err is or wraps ErrIO.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// AsWriteError reports whether err can be typed as a *WriteError.
func AsWriteError(err error) (*WriteError, bool) {
	var we *WriteError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
