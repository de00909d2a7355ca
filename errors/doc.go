// Package errors provides structured error types for the js-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the script origin and cause chain where
// known.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.ScriptException(errors.PhaseRun, "main.js", cause)
//	err := errors.ObsoleteReference(ref.Scope, ref.Index)
//	err := errors.ScopeMismatch(got, want)
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Table and scope failures are deliberately NOT delivered on the engine's
// exception channel: script exceptions belong to script code, while obsolete
// references and scope misuse are host-side conditions reported as sentinel
// values, booleans, or these error values.
package errors
