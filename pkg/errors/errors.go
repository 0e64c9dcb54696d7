// Package errors provides custom error types for the lofodex system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Common sentinel errors for the lofodex system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCorruptCatalog indicates that a persisted catalog file could not be
	// parsed under the expected schema. This is fatal for the directory.
	ErrCorruptCatalog = errors.New("corrupt catalog")

	// ErrNotApplicable indicates that a collector has no implementation for a
	// file's format. Callers swallow this and record a null cell; it is
	// distinct from a collector running and failing.
	ErrNotApplicable = errors.New("not applicable for format")

	// ErrNoFormat indicates that a file matched no registered format and
	// therefore cannot be opened for metadata collection.
	ErrNoFormat = errors.New("no registered format")
)

// CorruptCatalogError reports a persisted catalog that failed to parse in the
// expected schema.
type CorruptCatalogError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *CorruptCatalogError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("corrupt catalog %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("corrupt catalog %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CorruptCatalogError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CorruptCatalogError) Is(target error) bool {
	return target == ErrCorruptCatalog
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IOError represents a filesystem operation failure
type IOError struct {
	Operation string // "read", "write", "open", "list", etc.
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a failure to parse data in an expected format
type ParseError struct {
	Format  string // "ecsv", "yaml", "header", etc.
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("failed to parse %s from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("failed to parse %s from %s: %v", e.Format, e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// CollectError represents a collector that ran for an applicable format but
// failed to produce a value.
type CollectError struct {
	Column   string
	Filename string
	Err      error
}

// Error implements the error interface
func (e *CollectError) Error() string {
	return fmt.Sprintf("failed to collect %s for %s: %v", e.Column, e.Filename, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CollectError) Unwrap() error {
	return e.Err
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Source: source, Err: err}
}

// WrapCorrupt wraps an error as a CorruptCatalogError
func WrapCorrupt(path string, err error) error {
	if err == nil {
		return nil
	}
	return &CorruptCatalogError{Path: path, Err: err}
}
