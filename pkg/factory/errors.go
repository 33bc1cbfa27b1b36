package factory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openplan/openplan/pkg/engine"
)

// ErrorClass classifies a factory failure. All failures are local to a
// single registration or resolution call and never corrupt registry state.
type ErrorClass string

const (
	// ErrorClassRegistration indicates an explicit registration with an
	// unloadable engine reference.
	ErrorClassRegistration ErrorClass = "registration"

	// ErrorClassNotFound indicates an explicitly requested engine name
	// that is absent from the registry.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassNoSuitableEngine indicates a capability search that
	// matched no registered engine.
	ErrorClassNoSuitableEngine ErrorClass = "no_suitable_engine"

	// ErrorClassContract indicates a caller contract violation, such as a
	// guarantee of the wrong dimension for the requested operation mode.
	ErrorClassContract ErrorClass = "contract"
)

// Error is a classified factory error with context.
type Error struct {
	// Class is the error classification.
	Class ErrorClass

	// Message is the human-readable error message.
	Message string

	// Engine is the engine name involved, if any.
	Engine string

	// Mode is the operation mode involved, if any.
	Mode engine.OperationMode

	// Table is the per-feature support diagnostic, present only on
	// no-suitable-engine failures that had candidates.
	Table *SupportTable

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Class, e.Message)
	if e.Engine != "" {
		fmt.Fprintf(&b, " (engine=%s)", e.Engine)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Table != nil {
		b.WriteString("\n")
		b.WriteString(e.Table.Format())
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error equality for errors.Is: two factory errors match when
// their classes match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// NewRegistrationError creates a registration failure.
func NewRegistrationError(message string, err error) *Error {
	return &Error{Class: ErrorClassRegistration, Message: message, Err: err}
}

// NewNotFoundError creates a not-found failure for an explicit engine name.
func NewNotFoundError(name string) *Error {
	return &Error{
		Class:   ErrorClassNotFound,
		Message: "engine not registered",
		Engine:  name,
	}
}

// NewNoSuitableEngineError creates a failed-capability-search error.
func NewNoSuitableEngineError(message string, mode engine.OperationMode, table *SupportTable) *Error {
	return &Error{
		Class:   ErrorClassNoSuitableEngine,
		Message: message,
		Mode:    mode,
		Table:   table,
	}
}

// NewContractError creates a caller contract violation.
func NewContractError(message string) *Error {
	return &Error{Class: ErrorClassContract, Message: message}
}

// IsRegistrationFailure reports whether err is a registration failure.
func IsRegistrationFailure(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Class == ErrorClassRegistration
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Class == ErrorClassNotFound
}

// IsNoSuitableEngine reports whether err is a failed capability search.
func IsNoSuitableEngine(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Class == ErrorClassNoSuitableEngine
}

// IsContractViolation reports whether err is a caller contract violation.
func IsContractViolation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Class == ErrorClassContract
}

// SupportTable is the diagnostic produced by a failed capability search:
// one row per engine that implements the requested mode, one column per
// requested feature, each cell telling whether the engine supports that
// feature in isolation.
type SupportTable struct {
	// Features are the requested features, in sorted order.
	Features []engine.Feature

	// Rows holds one entry per candidate engine, in preference order.
	Rows []SupportRow
}

// SupportRow is one engine's per-feature support in a SupportTable.
type SupportRow struct {
	// Engine is the candidate engine's registered name.
	Engine string

	// Support is aligned with SupportTable.Features.
	Support []bool
}

// Format renders the table as ASCII art for diagnostics.
func (t *SupportTable) Format() string {
	header := make([]string, 0, len(t.Features)+1)
	header = append(header, "Engine")
	for _, f := range t.Features {
		header = append(header, string(f))
	}
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, 0, len(r.Support)+1)
		row = append(row, r.Engine)
		for _, ok := range r.Support {
			row = append(row, fmt.Sprintf("%t", ok))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString("|")
		for i, cell := range cells {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		return b.String()
	}

	headerStr := line(header)
	sep := strings.Repeat("-", len(headerStr))
	out := []string{sep, headerStr, strings.Repeat("=", len(headerStr))}
	for _, row := range rows {
		out = append(out, line(row), sep)
	}
	return strings.Join(out, "\n")
}
