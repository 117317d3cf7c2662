// Package perr defines the three error kinds the pipeline distinguishes:
// malformed input, capacity/semantic limits hit during a pass, and internal
// invariant violations that should never fire.
package perr

import "fmt"

// Kind classifies an error so callers (notably the CLI) can pick an exit
// code and a presentation without inspecting error text.
type Kind int

const (
	// Input covers malformed PDDL/HTN text, unknown flags, missing files,
	// and conflicting flag combinations.
	Input Kind = iota
	// Capacity covers a pass exhausting a configured limit (candidate
	// count, time budget) or a required backend (LP solver) being absent.
	Capacity
	// Internal covers invariant violations that indicate a bug in this
	// pipeline rather than a problem with the input.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Capacity:
		return "capacity"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error wraps a pass/operation pair with its underlying cause, mirroring the
// {Algorithm, Operation, Err} shape used throughout the pipeline's
// algorithm packages so every pass reports failures the same way.
type Error struct {
	Kind      Kind
	Pass      string
	Operation string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s.%s: %v", e.Kind, e.Pass, e.Operation, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind.
func New(kind Kind, pass, operation string, err error) *Error {
	return &Error{Kind: kind, Pass: pass, Operation: operation, Err: err}
}

// InputErr constructs an Input-kind error.
func InputErr(pass, operation string, err error) *Error {
	return New(Input, pass, operation, err)
}

// CapacityErr constructs a Capacity-kind error.
func CapacityErr(pass, operation string, err error) *Error {
	return New(Capacity, pass, operation, err)
}

// InternalErr constructs an Internal-kind error.
func InternalErr(pass, operation string, err error) *Error {
	return New(Internal, pass, operation, err)
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
