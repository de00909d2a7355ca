// Package engine adapts the goja JavaScript engine for the js-runtime library.
//
// The engine owns object memory and garbage collection; everything above this
// package treats engine values as opaque handles. Two types make up the
// surface:
//
//	Platform     process-wide shared state: logger, precompiled programs
//	Environment  one isolated global scope in which scripts run
//
// # Platform
//
// A Platform is constructed explicitly and passed to whatever bootstraps the
// first environment; there is no implicit global. A process that does not
// care uses Default(), which lazily builds one shared instance:
//
//	p := engine.NewPlatform(engine.WithLogger(log))
//	env := p.NewEnvironment()
//
// Compiled programs are environment-independent and may be shared: compile
// once on the platform, run in any environment.
//
// # Environments
//
// An Environment wraps one goja runtime. Only one goroutine may execute
// inside a given environment at a time; the caller serializes. The single
// exception is Interrupt, which may be called from any goroutine and
// terminates in-flight execution at the engine's next poll point. Interrupts
// are cooperative: a script that never reaches a poll point is not preempted.
package engine
