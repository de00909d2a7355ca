// Package refs implements the scoped value-reference table that lets a host
// hold engine-managed values without touching engine pointers.
//
// The engine side of the boundary is garbage collected; the host side is not.
// Instead of handing the host a pointer into the engine heap, the table retains
// the value in a slot and hands out a small copyable Ref. The host passes Refs
// by value and trades them back for the live value on demand.
//
// # References
//
// A Ref is a (scope, index) pair:
//
//	ref := table.Add(value)      // Ref{Scope: 1, Index: 0}
//	v, ok := table.Lookup(ref)   // ok while scope 1 is open
//
// A Ref is meaningless without its owning table. It carries no pointer
// semantics and must never be resolved against a different table.
//
// # Scopes
//
// Scopes bound the lifetime of a burst of references. A single engine call
// round trip can create dozens of values (arguments, receiver, intermediate
// results) that are all garbage the instant the call returns; scopes turn
// "free each of them" into one O(1) truncate:
//
//	id := table.PushScope()
//	// ... Add many values ...
//	table.PopScope(id)           // all of them invalid, slots reclaimed
//
// Scopes nest in strict LIFO order. Popping anything but the innermost open
// scope fails and changes nothing. Scope ids increase monotonically for the
// lifetime of the table and never repeat, so a stale Ref can never alias a
// future scope.
//
// # Obsolete references
//
// Lookup of a Ref whose scope has been popped reports (zero, false). The
// table never dereferences a slot past its lifetime; policy for surfacing
// the condition (safe default value, diagnostics) belongs to the caller.
//
// The table is not safe for concurrent use. The owning context serializes
// access; see the runtime package.
package refs
