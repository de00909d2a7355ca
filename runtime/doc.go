// Package runtime provides the host-facing API for embedding JavaScript
// execution: contexts, scoped value references, and callback dispatch.
//
// # Contexts and references
//
// A Context owns one engine execution environment and one reference table.
// Every value that crosses the boundary, in either direction, is retained in
// the table and represented to the host as a refs.Ref — a small (scope,
// index) pair with no pointer semantics. The host never sees an engine
// value type unless it asks for one.
//
//	rt := runtime.New()
//	defer rt.Close()
//
//	ctx := rt.NewContext(myHostID)
//	id := ctx.PushScope()
//	result, err := ctx.RunScript("main.js", "6 * 7")
//	// ... use result ...
//	ctx.PopScope(id)                // result is now obsolete
//
// Resolving an obsolete reference is safe: the context returns the engine's
// undefined value, logs a warning, and enqueues a Diagnostic for the host to
// inspect. It never reaches a reclaimed slot.
//
// # Callback re-entry
//
// When script code calls back into the host, the engine can only identify
// the execution environment, not the Context. The Runtime keeps a registry
// from environment to Context and from integer callback id to Go function;
// Bind wires a registered callback into a context's global scope:
//
//	id := rt.RegisterCallback(func(info *runtime.CallbackInfo) refs.Ref {
//	    // info.Context routes back to the right host-side state
//	    return info.Args[0]
//	})
//	ctx.Bind("notify", id)
//
// # Concurrency
//
// One goroutine at a time per Context: the host must hold an exclusive lock
// (or provide an equivalent affinity guarantee) around every Context
// operation. Runtime-level registries are internally synchronized so that
// contexts on different environments may run in parallel.
// Context.Interrupt is the one call safe from any goroutine.
package runtime
