package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBootstrap Phase = "bootstrap" // platform/runtime setup
	PhaseCompile   Phase = "compile"   // script compilation
	PhaseRun       Phase = "run"       // script execution
	PhaseResolve   Phase = "resolve"   // reference resolution
	PhaseScope     Phase = "scope"     // value scope push/pop
	PhaseValue     Phase = "value"     // host value conversion
	PhaseCallback  Phase = "callback"  // engine-to-host re-entry
	PhaseJSON      Phase = "json"      // JSON parse/stringify
)

// Kind categorizes the error
type Kind string

const (
	KindScriptException   Kind = "script_exception"
	KindTerminated        Kind = "terminated"
	KindObsoleteReference Kind = "obsolete_reference"
	KindScopeMismatch     Kind = "scope_mismatch"
	KindTypeMismatch      Kind = "type_mismatch"
	KindInvalidInput      Kind = "invalid_input"
	KindNotFound          Kind = "not_found"
	KindNotFunction       Kind = "not_function"
	KindDestroyed         Kind = "destroyed"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Origin string // script origin (filename) when known
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Origin != "" {
		b.WriteString(" in ")
		b.WriteString(e.Origin)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// ScriptException wraps an exception thrown by script code
func ScriptException(phase Phase, origin string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindScriptException,
		Origin: origin,
		Cause:  cause,
	}
}

// Terminated reports execution cut short by an interrupt
func Terminated(origin string, reason any) *Error {
	return &Error{
		Phase:  PhaseRun,
		Kind:   KindTerminated,
		Origin: origin,
		Detail: fmt.Sprintf("execution terminated: %v", reason),
	}
}

// ObsoleteReference reports resolution of a reference whose scope is gone
func ObsoleteReference(scope, index uint32) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindObsoleteReference,
		Detail: fmt.Sprintf("reference {scope %d, index %d} no longer maps to a live slot", scope, index),
	}
}

// ScopeMismatch reports a pop of anything but the innermost open scope
func ScopeMismatch(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseScope,
		Kind:   KindScopeMismatch,
		Detail: fmt.Sprintf("pop of scope %d while scope %d is innermost", got, want),
	}
}

// TypeMismatch reports a host value the engine cannot represent
func TypeMismatch(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("unsupported value type %s", goType),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotFunction reports a call target that is not callable
func NotFunction(detail string) *Error {
	return &Error{
		Phase:  PhaseRun,
		Kind:   KindNotFunction,
		Detail: detail,
	}
}

// Destroyed reports an operation on a destroyed context
func Destroyed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDestroyed,
		Detail: fmt.Sprintf("%s used after destroy", what),
	}
}

// Wrap wraps an existing error with phase and kind
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
