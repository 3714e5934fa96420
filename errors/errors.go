// Package errors provides the typed error taxonomy for the units-preference
// engine plus helpers for consistent wrapping and classification. Every error
// the core raises is one of the typed values here, so boundary layers can map
// them with errors.Is/errors.As instead of string matching.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass groups errors by how the boundary layer should respond.
type ErrorClass int

const (
	// ErrorInvalid represents errors due to invalid input (maps to 4xx).
	ErrorInvalid ErrorClass = iota
	// ErrorInternal represents unexpected internal failures (maps to 5xx).
	ErrorInternal
)

// String returns the string representation of ErrorClass.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorInvalid:
		return "invalid"
	case ErrorInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Sentinel errors for the conversion taxonomy. Typed structs below unwrap to
// these so call sites can use errors.Is without knowing the concrete type.
var (
	// ErrInvalidInput marks a non-finite or non-numeric value where a
	// number is required.
	ErrInvalidInput = errors.New("invalid input value")
	// ErrUnsafeFormula marks a formula containing a disallowed token.
	ErrUnsafeFormula = errors.New("unsafe formula")
	// ErrFormulaEvaluation marks a syntactically valid formula whose
	// evaluation failed or produced a non-finite result.
	ErrFormulaEvaluation = errors.New("formula evaluation failed")
	// ErrDateFormat marks an unparseable instant or date pattern.
	ErrDateFormat = errors.New("date format error")
	// ErrUnresolvableMetadata signals that no base unit or category could
	// be derived for a path. Not fatal: callers pass the value through.
	ErrUnresolvableMetadata = errors.New("unresolvable metadata")
	// ErrConversionNotFound marks a preferred target with no matching
	// conversion definition.
	ErrConversionNotFound = errors.New("conversion not found")
)

// InvalidInputError reports a value that cannot be converted because it is
// not a finite number (or not of the required kind).
type InvalidInputError struct {
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input value %v: %s", e.Value, e.Reason)
}

// Unwrap ties the typed error to its sentinel.
func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// UnsafeFormulaError reports a formula rejected by the sandbox before any
// evaluation took place.
type UnsafeFormulaError struct {
	Formula  string
	Token    string
	Position int
}

// Error implements the error interface.
func (e *UnsafeFormulaError) Error() string {
	return fmt.Sprintf("unsafe formula %q: disallowed token %q at position %d",
		e.Formula, e.Token, e.Position)
}

// Unwrap ties the typed error to its sentinel.
func (e *UnsafeFormulaError) Unwrap() error { return ErrUnsafeFormula }

// FormulaEvaluationError reports a formula that parsed but failed to produce
// a finite result.
type FormulaEvaluationError struct {
	Formula string
	Reason  string
}

// Error implements the error interface.
func (e *FormulaEvaluationError) Error() string {
	return fmt.Sprintf("formula %q: %s", e.Formula, e.Reason)
}

// Unwrap ties the typed error to its sentinel.
func (e *FormulaEvaluationError) Unwrap() error { return ErrFormulaEvaluation }

// DateFormatError reports an instant that could not be parsed or a date
// pattern that could not be applied.
type DateFormatError struct {
	Input   any
	Pattern string
	Reason  string
}

// Error implements the error interface.
func (e *DateFormatError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("date format %q: %v: %s", e.Pattern, e.Input, e.Reason)
	}
	return fmt.Sprintf("date value %v: %s", e.Input, e.Reason)
}

// Unwrap ties the typed error to its sentinel.
func (e *DateFormatError) Unwrap() error { return ErrDateFormat }

// UnresolvableMetadataError reports that no metadata stage produced a result
// for a path. Callers treat this as "pass through unchanged", not a failure.
type UnresolvableMetadataError struct {
	Path string
}

// Error implements the error interface.
func (e *UnresolvableMetadataError) Error() string {
	return fmt.Sprintf("no unit metadata derivable for path %q", e.Path)
}

// Unwrap ties the typed error to its sentinel.
func (e *UnresolvableMetadataError) Unwrap() error { return ErrUnresolvableMetadata }

// ConversionNotFoundError reports a requested target unit with no matching
// definition in the metadata, custom tables, or defaults.
type ConversionNotFoundError struct {
	BaseUnit   string
	TargetUnit string
}

// Error implements the error interface.
func (e *ConversionNotFoundError) Error() string {
	return fmt.Sprintf("no conversion from %q to %q", e.BaseUnit, e.TargetUnit)
}

// Unwrap ties the typed error to its sentinel.
func (e *ConversionNotFoundError) Unwrap() error { return ErrConversionNotFound }

// Classify returns the error class for an error. Everything in the conversion
// taxonomy is caller error except unresolvable metadata, which is a normal
// terminal state and should not reach classification at all.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ErrorInternal
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnsafeFormula),
		errors.Is(err, ErrFormulaEvaluation),
		errors.Is(err, ErrDateFormat),
		errors.Is(err, ErrConversionNotFound):
		return ErrorInvalid
	default:
		return ErrorInternal
	}
}

// Wrap creates a standardized error with context following the pattern
// "component.method: action failed: %w".
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// Wrapf creates a standardized error with a formatted action description.
func Wrapf(err error, component, method, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, component, method, fmt.Sprintf(format, args...))
}
