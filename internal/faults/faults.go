/*
PURPOSE:
  Structured error taxonomy for powertrace.
  Distinguishes precondition, transport and format failures so that the
  CLI and the browser API can report them differently.

REQUIREMENTS:
  User-specified:
  - Precondition failures (missing credential, empty description, empty
    result set) must be reported without attempting the operation.
  - Transport failures and AI-output format failures must surface as
    distinct, non-fatal notifications.

  Implementation-discovered:
  - errors.As/Is interop needs Unwrap and Is on the concrete type.

ARCHITECTURE INTEGRATION:
  - Used by: internal/ai, internal/scenario, internal/analyze, internal/api
  - Depends on: stdlib errors/fmt only.

ERROR HANDLING:
  - This package IS the error handling. Nothing here fails.

IMPLEMENTATION RULES:
  - One category per failure class; match on category, not message text.
  - Always wrap the underlying cause so %w chains survive.

USAGE:
  return faults.Transport("ai request failed", err)
  if faults.CategoryOf(err) == faults.CategoryPrecondition { ... }

RELATED FILES:
  - internal/ai/client.go
  - internal/api/handlers.go

MAINTENANCE:
  - Add categories sparingly; the API error mapping switches over them.
*/

package faults

import (
	"errors"
	"fmt"
)

// Category classifies a fault for consistent handling and display.
type Category string

const (
	// CategoryPrecondition marks failures detected before any work is
	// attempted (missing credential, empty input, nothing to analyze).
	CategoryPrecondition Category = "precondition"

	// CategoryTransport marks network/HTTP failures from the AI service.
	CategoryTransport Category = "transport"

	// CategoryFormat marks AI responses that could not be parsed as the
	// expected structure.
	CategoryFormat Category = "format"

	// CategoryInternal marks unexpected failures.
	CategoryInternal Category = "internal"
)

// Fault is a categorized error. It implements the error interface and
// supports wrapping.
type Fault struct {
	Category Category
	Message  string
	Cause    error
}

func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Category, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Category, f.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
func (f *Fault) Unwrap() error {
	return f.Cause
}

// Is reports whether target matches this fault. Two faults match when
// their categories match; this lets callers write
// errors.Is(err, &Fault{Category: CategoryTransport}).
func (f *Fault) Is(target error) bool {
	if t, ok := target.(*Fault); ok {
		return f.Category == t.Category
	}
	return false
}

// Precondition creates a precondition fault.
func Precondition(message string) *Fault {
	return &Fault{Category: CategoryPrecondition, Message: message}
}

// Transport creates a transport fault wrapping cause (which may be nil,
// e.g. for a bad HTTP status).
func Transport(message string, cause error) *Fault {
	return &Fault{Category: CategoryTransport, Message: message, Cause: cause}
}

// Format creates a format fault wrapping cause.
func Format(message string, cause error) *Fault {
	return &Fault{Category: CategoryFormat, Message: message, Cause: cause}
}

// Internal creates an internal fault wrapping cause.
func Internal(message string, cause error) *Fault {
	return &Fault{Category: CategoryInternal, Message: message, Cause: cause}
}

// CategoryOf extracts the category from an error chain. Errors that do
// not carry a Fault report CategoryInternal.
func CategoryOf(err error) Category {
	var f *Fault
	if errors.As(err, &f) {
		return f.Category
	}
	return CategoryInternal
}
