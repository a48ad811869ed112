package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDuplicates signals a comparison that produced no groups.
// It is a normal terminal outcome, not a failure.
var ErrNoDuplicates = errors.New("no duplicates found")

// ErrorKind classifies a recorded action failure
type ErrorKind string

const (
	// ErrorKindIO covers unreadable directories, vanished files and permission errors
	ErrorKindIO ErrorKind = "io"
	// ErrorKindAmbiguousTie means several members share the extreme value
	ErrorKindAmbiguousTie ErrorKind = "ambiguous-tie"
	// ErrorKindValidation covers invalid decisions and inputs
	ErrorKindValidation ErrorKind = "validation"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IOError wraps a filesystem failure with the operation and path involved
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// AmbiguousTieError is returned when a larger/smaller/newer/older choice
// cannot pick a single member because several share the extreme value
type AmbiguousTieError struct {
	Attribute string
	Positions []int
}

func (e *AmbiguousTieError) Error() string {
	parts := make([]string, len(e.Positions))
	for i, p := range e.Positions {
		parts[i] = fmt.Sprintf("(%d)", p)
	}
	return fmt.Sprintf("ambiguous %s: members %s tie", e.Attribute, strings.Join(parts, ", "))
}

// ClassifyError maps an error to the kind recorded in an ActionResult
func ClassifyError(err error) ErrorKind {
	var tie *AmbiguousTieError
	var validation *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &tie):
		return ErrorKindAmbiguousTie
	case errors.As(err, &validation):
		return ErrorKindValidation
	default:
		return ErrorKindIO
	}
}
