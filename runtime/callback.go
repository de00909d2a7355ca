package runtime

import (
	"go.uber.org/zap"

	"github.com/wippyai/js-runtime/engine"
	"github.com/wippyai/js-runtime/errors"
	"github.com/wippyai/js-runtime/refs"
)

// CallbackInfo carries one engine-to-host call: the Context it arrived in
// and references to the receiver and arguments, all created in the
// context's current scope.
type CallbackInfo struct {
	Context *Context
	This    refs.Ref
	Args    []refs.Ref
}

// Callback is a host function callable from script code. The returned
// reference becomes the call's result; return info.Context.Undefined() for
// no result.
type Callback func(info *CallbackInfo) refs.Ref

// RegisterCallback stores cb and returns its dispatch id. Engine-side
// function bindings cannot carry Go closures across the boundary as
// themselves; they carry this integer and the runtime dispatches by id.
func (r *Runtime) RegisterCallback(cb Callback) int {
	r.cbMu.Lock()
	r.cbSeq++
	id := r.cbSeq
	r.cbs[id] = cb
	r.cbMu.Unlock()
	return id
}

// callback looks a registered callback up by id.
func (r *Runtime) callback(id int) Callback {
	r.cbMu.RLock()
	defer r.cbMu.RUnlock()
	return r.cbs[id]
}

// Bind installs the callback registered under id as a global function named
// name in this context. When script calls it, the adapter recovers the
// Context from the execution environment — the only identity the engine
// can supply — wraps the receiver and arguments as references, and
// dispatches by id.
func (c *Context) Bind(name string, id int) error {
	if c.rt.callback(id) == nil {
		return errors.NotFound(errors.PhaseCallback, "registered callback for", name)
	}
	return c.env.BindFunc(name, func(this engine.Value, args []engine.Value) engine.Value {
		ctx, ok := c.rt.contextFor(c.env)
		if !ok {
			// Context destroyed while its environment still runs; nothing
			// to route to.
			return c.env.Undefined()
		}
		cb := ctx.rt.callback(id)
		if cb == nil {
			ctx.rt.log.Warn("callback id no longer registered",
				zap.Int("context", ctx.id),
				zap.Int("callback", id))
			return ctx.env.Undefined()
		}

		info := &CallbackInfo{
			Context: ctx,
			This:    ctx.AddValue(this),
			Args:    make([]refs.Ref, len(args)),
		}
		for i, a := range args {
			info.Args[i] = ctx.AddValue(a)
		}

		return ctx.Resolve(cb(info))
	})
}
