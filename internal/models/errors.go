package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of packaging errors
type ErrorType int

const (
	ErrPrecondition ErrorType = iota
	ErrCopy
	ErrManifestWrite
	ErrToolNotFound
	ErrPackaging
	ErrInvalidConfig
	ErrBuild
	ErrVerify
	ErrSigning
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrPrecondition:
		return "Precondition"
	case ErrCopy:
		return "Copy"
	case ErrManifestWrite:
		return "ManifestWrite"
	case ErrToolNotFound:
		return "ToolNotFound"
	case ErrPackaging:
		return "Packaging"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrBuild:
		return "Build"
	case ErrVerify:
		return "Verify"
	case ErrSigning:
		return "Signing"
	default:
		return "Unknown"
	}
}

// Fatal reports whether an error of this type must abort the run with a
// non-zero exit status.
func (e ErrorType) Fatal() bool {
	return e != ErrToolNotFound
}

// PackError represents an error raised by a packaging stage
type PackError struct {
	Type  ErrorType
	Stage string
	// Output holds the diagnostic text captured from an external tool, if any.
	Output string
	// Remedy is a human-readable hint printed alongside the error.
	Remedy string
	Err    error
}

// Error implements the error interface
func (e *PackError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Stage, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *PackError) Unwrap() error {
	return e.Err
}

// NewError builds a PackError for the given stage
func NewError(t ErrorType, stage string, err error) *PackError {
	return &PackError{Type: t, Stage: stage, Err: err}
}

// AsPackError extracts the first PackError in err's chain
func AsPackError(err error) (*PackError, bool) {
	var pe *PackError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsType reports whether err carries a PackError of type t
func IsType(err error, t ErrorType) bool {
	pe, ok := AsPackError(err)
	return ok && pe.Type == t
}
