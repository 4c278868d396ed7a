// Package elab defines the failures reported while elaborating an address
// space. Every failure is final: elaboration stops at the first one.
//
// Each error type matches a sentinel through errors.Is, so callers can test
// the class without caring about the details:
//
//	if errors.Is(err, elab.ErrInsufficientWidth) { ... }
//
// and use errors.As when they need the fields.
package elab

import (
	"errors"
	"fmt"
)

// Error classes.
var (
	ErrConfig            = errors.New("configuration error")
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrInsufficientWidth = errors.New("insufficient width")
	ErrDirectionConflict = errors.New("direction conflict")
)

// ConfigError reports an invalid configuration: an empty or overlapping
// region list, a step that is not a power of two, a zero size.
type ConfigError struct {
	Op     string
	Reason string
}

// Configf returns a ConfigError for op with a formatted reason.
func Configf(op, format string, args ...any) error {
	return &ConfigError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return prefix(e.Op) + ErrConfig.Error() + ": " + e.Reason
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// ShapeMismatchError reports that a layout and an interface tree disagree.
// Expected and Got are leaf counts when the cardinality differs and zero
// otherwise.
type ShapeMismatchError struct {
	Op       string
	Path     string
	Reason   string
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	msg := prefix(e.Op) + ErrShapeMismatch.Error()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Expected != e.Got {
		msg += fmt.Sprintf(" (expected %d, got %d)", e.Expected, e.Got)
	}
	return msg
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// UnsupportedTypeError reports a type or interface kind outside the closed
// set the operation handles.
type UnsupportedTypeError struct {
	Op   string
	Path string
	What string
}

func (e *UnsupportedTypeError) Error() string {
	msg := prefix(e.Op) + ErrUnsupportedType.Error()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg + ": " + e.What
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// InsufficientWidthError reports a signal too narrow for the span it must
// carry.
type InsufficientWidthError struct {
	Op        string
	Subject   string
	Required  int
	Available int
}

func (e *InsufficientWidthError) Error() string {
	return fmt.Sprintf("%s%s: %s needs %d bits, has %d",
		prefix(e.Op), ErrInsufficientWidth.Error(), e.Subject, e.Required, e.Available)
}

func (e *InsufficientWidthError) Is(target error) bool { return target == ErrInsufficientWidth }

// DirectionConflictError reports an externally supplied interface driven
// from the wrong side.
type DirectionConflictError struct {
	Op   string
	Path string
	Want string
	Got  string
}

func (e *DirectionConflictError) Error() string {
	return fmt.Sprintf("%s%s at %s: want %s, got %s",
		prefix(e.Op), ErrDirectionConflict.Error(), e.Path, e.Want, e.Got)
}

func (e *DirectionConflictError) Is(target error) bool { return target == ErrDirectionConflict }

func prefix(op string) string {
	if op == "" {
		return ""
	}
	return op + ": "
}

// Class returns the name of the class err belongs to, or "" when err is not
// an elaboration failure.
func Class(err error) string {
	for _, s := range []error{ErrConfig, ErrShapeMismatch, ErrUnsupportedType, ErrInsufficientWidth, ErrDirectionConflict} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return ""
}
