package runtime

import (
	"go.uber.org/zap"

	"github.com/wippyai/js-runtime/engine"
	"github.com/wippyai/js-runtime/refs"
)

// Context is the unit of isolation exposed to the host. It owns exactly one
// execution environment and one reference table, and it is the sole bridge
// between the two: every engine value the host touches passes through
// AddValue on the way out and Resolve on the way back.
//
// All operations except Interrupt must be serialized by the host. Operating
// on a destroyed Context is a contract violation; the Context does not
// defend against it.
type Context struct {
	id        int
	hostID    int
	rt        *Runtime
	env       *engine.Environment
	table     *refs.Table[engine.Value]
	undefined refs.Ref
	destroyed bool
}

// ID returns the context's stable runtime identifier.
func (c *Context) ID() int {
	return c.id
}

// HostID returns the host-side identifier recorded at creation.
func (c *Context) HostID() int {
	return c.hostID
}

// Env exposes the owned execution environment to call-shim code.
func (c *Context) Env() *engine.Environment {
	return c.env
}

// Undefined returns the context's permanent reference to the undefined
// value. It lives in the root scope and stays valid for the context's
// lifetime.
func (c *Context) Undefined() refs.Ref {
	return c.undefined
}

// AddValue retains an engine value in the current scope and returns its
// reference.
func (c *Context) AddValue(v engine.Value) refs.Ref {
	return c.table.Add(v)
}

// Resolve trades a reference back for its engine value. An obsolete
// reference — out of bounds, or from a scope that has been popped — resolves
// to the undefined value; the condition is logged and a Diagnostic is
// enqueued. The underlying slot is never touched.
func (c *Context) Resolve(ref refs.Ref) engine.Value {
	if v, ok := c.table.Lookup(ref); ok {
		return v
	}
	c.reportObsolete(ref)
	return c.env.Undefined()
}

// IsLive reports whether ref currently resolves, without logging a
// diagnostic when it does not.
func (c *Context) IsLive(ref refs.Ref) bool {
	_, ok := c.table.Lookup(ref)
	return ok
}

// PushScope opens a value scope and returns its id. Shim convention: push
// before a host-visible operation that will create references, pop when the
// host signals it is done with them.
func (c *Context) PushScope() uint32 {
	return c.table.PushScope()
}

// PopScope closes the innermost open scope, invalidating every reference
// created inside it in one truncate. Popping any other scope id reports
// false and leaves the table unchanged.
func (c *Context) PopScope(id uint32) bool {
	if !c.table.PopScope(id) {
		c.rt.log.Debug("value scope pop rejected",
			zap.Int("context", c.id),
			zap.Uint32("requested", id),
			zap.Uint32("innermost", c.table.Scope()))
		return false
	}
	return true
}

// ValueCount returns the number of live slots in the reference table.
func (c *Context) ValueCount() int {
	return c.table.Len()
}

// Interrupt signals in-flight script execution in this context to
// terminate. Safe from any goroutine; termination is cooperative and does
// not invalidate any scope.
func (c *Context) Interrupt(reason any) {
	c.env.Interrupt(reason)
}

// ClearInterrupt re-arms the context after an interrupt.
func (c *Context) ClearInterrupt() {
	c.env.ClearInterrupt()
}

// Destroy releases every retained value and detaches the context from the
// runtime. Destroying twice is a no-op.
func (c *Context) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.table.Reset()
	c.rt.unregister(c)
	c.rt.log.Debug("context destroyed", zap.Int("context", c.id))
}

func (c *Context) reportObsolete(ref refs.Ref) {
	c.rt.log.Warn("obsolete reference resolved to undefined",
		zap.Int("context", c.id),
		zap.Uint32("scope", ref.Scope),
		zap.Uint32("index", ref.Index))
	c.rt.diags.push(Diagnostic{ContextID: c.id, Ref: ref})
}
