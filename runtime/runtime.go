package runtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/js-runtime/engine"
	"github.com/wippyai/js-runtime/refs"
)

// Runtime owns a set of contexts sharing one engine platform. It is the
// lookup point for callback re-entry: engine-invoked callbacks carry only
// an environment, and the Runtime maps that back to a Context.
type Runtime struct {
	platform *engine.Platform
	log      *zap.Logger
	diags    *DiagnosticQueue

	mu       sync.RWMutex
	seq      int
	contexts map[int]*Context
	byEnv    map[*engine.Environment]*Context
	closed   bool

	cbMu  sync.RWMutex
	cbSeq int
	cbs   map[int]Callback

	internal *Context
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithPlatform runs the Runtime's contexts on an existing platform.
func WithPlatform(p *engine.Platform) Option {
	return func(r *Runtime) {
		r.platform = p
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) {
		r.log = l
	}
}

// WithDiagnosticCapacity bounds the obsolete-reference diagnostic queue.
func WithDiagnosticCapacity(n int) Option {
	return func(r *Runtime) {
		r.diags = newDiagnosticQueue(n)
	}
}

// New creates a Runtime with its internal context established. The internal
// context is not host-visible; it serves operations not tied to any host
// context, such as host-value creation and shared-script precompilation.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		contexts: make(map[int]*Context),
		byEnv:    make(map[*engine.Environment]*Context),
		cbs:      make(map[int]Callback),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.platform == nil {
		r.platform = engine.Default()
	}
	if r.log == nil {
		r.log = r.platform.Log()
	}
	if r.diags == nil {
		r.diags = newDiagnosticQueue(defaultDiagnosticCapacity)
	}

	r.internal = r.newContext(0)
	return r
}

// Platform returns the engine platform shared by this runtime's contexts.
func (r *Runtime) Platform() *engine.Platform {
	return r.platform
}

// Internal returns the runtime's internal context.
func (r *Runtime) Internal() *Context {
	return r.internal
}

// NewContext establishes a fresh execution environment bound to a new
// Context. hostID is recorded so engine-invoked callbacks can be routed to
// the correct host-side counterpart; it is the host's identifier, not the
// runtime's.
func (r *Runtime) NewContext(hostID int) *Context {
	return r.newContext(hostID)
}

func (r *Runtime) newContext(hostID int) *Context {
	env := r.platform.NewEnvironment()

	r.mu.Lock()
	r.seq++
	c := &Context{
		id:     r.seq,
		hostID: hostID,
		rt:     r,
		env:    env,
		table:  refs.New[engine.Value](),
	}
	r.contexts[c.id] = c
	r.byEnv[env] = c
	r.mu.Unlock()

	// Slot 0 of every context is undefined, so the safe-default value has a
	// reference of its own.
	c.undefined = c.table.Add(env.Undefined())

	r.log.Debug("context created",
		zap.Int("context", c.id),
		zap.Int("host", hostID))
	return c
}

// ContextByID looks a Context up by its stable identifier.
func (r *Runtime) ContextByID(id int) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contexts[id]
	return c, ok
}

// contextFor maps an execution environment back to its Context. This is the
// re-entry path: engine callbacks receive the environment, nothing more.
func (r *Runtime) contextFor(env *engine.Environment) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byEnv[env]
	return c, ok
}

func (r *Runtime) unregister(c *Context) {
	r.mu.Lock()
	delete(r.contexts, c.id)
	delete(r.byEnv, c.env)
	r.mu.Unlock()
}

// ContextCount returns the number of live contexts, the internal one
// included.
func (r *Runtime) ContextCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contexts)
}

// NewValue creates a host-constant value in the internal context; see
// Context.NewValue. Use for values not tied to any host-visible context.
func (r *Runtime) NewValue(v any) (refs.Ref, error) {
	return r.internal.NewValue(v)
}

// CompileShared precompiles a script on the platform for use by any
// context; see Context.RunShared.
func (r *Runtime) CompileShared(origin, source string) error {
	_, err := r.platform.CompileShared(origin, source)
	return err
}

// Diagnostics returns the runtime's diagnostic queue.
func (r *Runtime) Diagnostics() *DiagnosticQueue {
	return r.diags
}

// Close destroys every live context. Safe to call more than once.
func (r *Runtime) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	live := make([]*Context, 0, len(r.contexts))
	for _, c := range r.contexts {
		live = append(live, c)
	}
	r.mu.Unlock()

	for _, c := range live {
		c.Destroy()
	}
}
