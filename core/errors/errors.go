// Package errors provides the typed failures returned by the data-reconciler core.
//
// Every failure raised by the format loader or the reconciler is one of the kinds
// below. Each struct type reports a human-readable message suitable for direct
// display and matches its sentinel through errors.Is, so callers can branch on the
// kind without inspecting message text.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
)

// New, Is and As are aliases for the standard library helpers for convenience.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

// Sentinel errors, one per failure kind.
var (
	// ErrFileNotFound indicates that the input path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat indicates an unknown or unhandled file extension.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrUnsupportedJSONStructure indicates a JSON document with no row-extraction strategy.
	ErrUnsupportedJSONStructure = errors.New("unsupported JSON structure")

	// ErrLoad indicates any other parse or read failure.
	ErrLoad = errors.New("load failed")

	// ErrInvalidKeySpec indicates mismatched or malformed key specifications.
	ErrInvalidKeySpec = errors.New("invalid key specification")

	// ErrMissingColumn indicates named columns absent on one or both sides.
	ErrMissingColumn = errors.New("missing column")

	// ErrCardinalityViolation indicates that a join violates a declared cardinality.
	ErrCardinalityViolation = errors.New("cardinality violation")
)

// FileNotFoundError is returned when the input file does not exist.
type FileNotFoundError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file could not be found: %s", e.Path)
}

// Is implements errors.Is support
func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// Unwrap implements errors.Unwrap
func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned when no strategy is registered for an extension.
type UnsupportedFormatError struct {
	Path      string
	Extension string
}

// Error implements the error interface
func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file type: %s has no extension", e.Path)
	}
	return fmt.Sprintf("unsupported file type: %s", e.Extension)
}

// Is implements errors.Is support
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// UnsupportedJSONStructureError is returned when a JSON document's top-level shape
// cannot be turned into rows.
type UnsupportedJSONStructureError struct {
	Path  string
	Shape string
}

// Error implements the error interface
func (e *UnsupportedJSONStructureError) Error() string {
	return fmt.Sprintf("unsupported JSON structure type: %s", e.Shape)
}

// Is implements errors.Is support
func (e *UnsupportedJSONStructureError) Is(target error) bool {
	return target == ErrUnsupportedJSONStructure
}

// LoadError wraps any other failure raised while reading or parsing a file.
// Trace holds the goroutine stack captured when the failure was classified.
type LoadError struct {
	Path   string
	Format string
	Err    error
	Trace  string
}

// NewLoadError wraps err and captures a diagnostic trace.
func NewLoadError(path, format string, err error) *LoadError {
	return &LoadError{
		Path:   path,
		Format: format,
		Err:    err,
		Trace:  string(debug.Stack()),
	}
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("an error occurred loading %s (%s): %v", e.Path, e.Format, e.Err)
	}
	return fmt.Sprintf("an error occurred loading %s: %v", e.Path, e.Err)
}

// Is implements errors.Is support
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// Unwrap implements errors.Unwrap
func (e *LoadError) Unwrap() error {
	return e.Err
}

// InvalidKeySpecError is returned when key specifications cannot describe a join.
type InvalidKeySpecError struct {
	LeftKeys  []string
	RightKeys []string
	Message   string
}

// Error implements the error interface
func (e *InvalidKeySpecError) Error() string {
	return "invalid key specification: " + e.Message
}

// Is implements errors.Is support
func (e *InvalidKeySpecError) Is(target error) bool {
	return target == ErrInvalidKeySpec
}

// MissingColumnError reports every requested column absent from either side.
// Both lists are filled before the error is raised.
type MissingColumnError struct {
	MissingA []string
	MissingB []string
	// Role names what the columns were requested for ("key" or "keep").
	Role string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	role := e.Role
	if role == "" {
		role = "key"
	}
	return fmt.Sprintf("missing %s columns. A-side: [%s] || B-side: [%s]",
		role, strings.Join(e.MissingA, ", "), strings.Join(e.MissingB, ", "))
}

// Is implements errors.Is support
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// MissingOn reports whether name was expected on side "A" or "B" and is missing there.
func (e *MissingColumnError) MissingOn(side, name string) bool {
	var list []string
	switch side {
	case "A", "a":
		list = e.MissingA
	case "B", "b":
		list = e.MissingB
	}
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// CardinalityViolationError is returned when a side declared unique holds duplicate keys.
type CardinalityViolationError struct {
	Expected string
	Side     string
	Key      string
}

// Error implements the error interface
func (e *CardinalityViolationError) Error() string {
	return fmt.Sprintf("merge keys are not unique in %s dataset (key %s); not a %s merge",
		e.Side, e.Key, e.Expected)
}

// Is implements errors.Is support
func (e *CardinalityViolationError) Is(target error) bool {
	return target == ErrCardinalityViolation
}

// Kind values returned by Kind.
const (
	KindFileNotFound             = "file_not_found"
	KindUnsupportedFormat        = "unsupported_format"
	KindUnsupportedJSONStructure = "unsupported_json_structure"
	KindLoad                     = "load_error"
	KindInvalidKeySpec           = "invalid_key_spec"
	KindMissingColumn            = "missing_column"
	KindCardinalityViolation     = "cardinality_violation"
)

// Kind maps err to a stable identifier, or "" when err is not one of the core kinds.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFileNotFound):
		return KindFileNotFound
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, ErrUnsupportedJSONStructure):
		return KindUnsupportedJSONStructure
	case errors.Is(err, ErrInvalidKeySpec):
		return KindInvalidKeySpec
	case errors.Is(err, ErrMissingColumn):
		return KindMissingColumn
	case errors.Is(err, ErrCardinalityViolation):
		return KindCardinalityViolation
	case errors.Is(err, ErrLoad):
		return KindLoad
	default:
		return ""
	}
}

// IsCore reports whether err is one of the typed core failures.
func IsCore(err error) bool {
	return Kind(err) != ""
}

// Status maps err to the HTTP status used when it is reported to API clients.
// Errors outside the core kinds map to 500.
func Status(err error) int {
	switch Kind(err) {
	case KindFileNotFound:
		return http.StatusNotFound
	case KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case KindUnsupportedJSONStructure, KindLoad:
		return http.StatusUnprocessableEntity
	case KindInvalidKeySpec, KindMissingColumn, KindCardinalityViolation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
