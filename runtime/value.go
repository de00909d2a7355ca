package runtime

import (
	"fmt"

	"github.com/wippyai/js-runtime/engine"
	"github.com/wippyai/js-runtime/errors"
	"github.com/wippyai/js-runtime/refs"
)

// Call shims: each one calls the engine and translates handles to
// references on the way out. References created here land in the context's
// current scope.

// RunScript compiles and runs source in this context, returning a reference
// to the completion value.
func (c *Context) RunScript(origin, source string) (refs.Ref, error) {
	v, err := c.env.RunScript(origin, source)
	if err != nil {
		return c.undefined, err
	}
	return c.table.Add(v), nil
}

// RunProgram runs a precompiled program in this context.
func (c *Context) RunProgram(p *engine.Program) (refs.Ref, error) {
	v, err := c.env.RunProgram(p)
	if err != nil {
		return c.undefined, err
	}
	return c.table.Add(v), nil
}

// RunShared runs the platform's shared program registered under origin.
func (c *Context) RunShared(origin string) (refs.Ref, error) {
	p, ok := c.rt.platform.SharedProgram(origin)
	if !ok {
		return c.undefined, errors.NotFound(errors.PhaseRun, "shared program", origin)
	}
	return c.RunProgram(p)
}

// Global returns a reference to the environment's global object.
func (c *Context) Global() refs.Ref {
	return c.table.Add(c.env.Global())
}

// NewValue creates an engine value from a Go primitive and returns its
// reference. Go types recognized are: bool, string, all int and uint sizes,
// float32, float64, and refs.Ref (returned as-is).
func (c *Context) NewValue(v any) (refs.Ref, error) {
	switch val := v.(type) {
	case refs.Ref:
		return val, nil
	case nil:
		return c.table.Add(c.env.Null()), nil
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return c.table.Add(c.env.ToValue(val)), nil
	default:
		return c.undefined, errors.TypeMismatch(errors.PhaseValue, fmt.Sprintf("%T", v))
	}
}

// NewObject creates an empty object and returns its reference.
func (c *Context) NewObject() refs.Ref {
	return c.table.Add(c.env.NewObject())
}

// GetProperty reads a named property of the referenced object. Missing
// properties read as undefined.
func (c *Context) GetProperty(obj refs.Ref, key string) (refs.Ref, error) {
	v, err := c.env.GetProperty(c.Resolve(obj), key)
	if err != nil {
		return c.undefined, err
	}
	return c.table.Add(v), nil
}

// SetProperty writes a named property of the referenced object.
func (c *Context) SetProperty(obj refs.Ref, key string, val refs.Ref) error {
	return c.env.SetProperty(c.Resolve(obj), key, c.Resolve(val))
}

// GetIndex reads an indexed element of the referenced object.
func (c *Context) GetIndex(obj refs.Ref, i int) (refs.Ref, error) {
	v, err := c.env.GetIndex(c.Resolve(obj), i)
	if err != nil {
		return c.undefined, err
	}
	return c.table.Add(v), nil
}

// SetIndex writes an indexed element of the referenced object.
func (c *Context) SetIndex(obj refs.Ref, i int, val refs.Ref) error {
	return c.env.SetIndex(c.Resolve(obj), i, c.Resolve(val))
}

// HasProperty reports whether the referenced object has the named property.
func (c *Context) HasProperty(obj refs.Ref, key string) (bool, error) {
	return c.env.HasProperty(c.Resolve(obj), key)
}

// Call invokes the referenced function with the given receiver and
// arguments, returning a reference to the result.
func (c *Context) Call(fn, this refs.Ref, args ...refs.Ref) (refs.Ref, error) {
	engArgs := make([]engine.Value, len(args))
	for i, a := range args {
		engArgs[i] = c.Resolve(a)
	}
	v, err := c.env.Call(c.Resolve(fn), c.Resolve(this), engArgs...)
	if err != nil {
		return c.undefined, err
	}
	return c.table.Add(v), nil
}

// JSONParse parses data with the engine's JSON parser and returns a
// reference to the resulting value graph.
func (c *Context) JSONParse(data string) (refs.Ref, error) {
	v, err := c.env.JSONParse(data)
	if err != nil {
		return c.undefined, err
	}
	return c.table.Add(v), nil
}

// JSONStringify serializes the referenced value.
func (c *Context) JSONStringify(ref refs.Ref) (string, error) {
	return c.env.JSONStringify(c.Resolve(ref))
}

// String returns the engine's string conversion of the referenced value.
func (c *Context) String(ref refs.Ref) string {
	return c.Resolve(ref).String()
}

// Int64 returns the engine's integer conversion of the referenced value.
func (c *Context) Int64(ref refs.Ref) int64 {
	return c.Resolve(ref).ToInteger()
}

// Float64 returns the engine's number conversion of the referenced value.
func (c *Context) Float64(ref refs.Ref) float64 {
	return c.Resolve(ref).ToFloat()
}

// Bool returns the engine's boolean conversion of the referenced value.
func (c *Context) Bool(ref refs.Ref) bool {
	return c.Resolve(ref).ToBoolean()
}

// IsUndefined reports whether the referenced value is undefined. Obsolete
// references resolve to undefined, so this also reads true for them.
func (c *Context) IsUndefined(ref refs.Ref) bool {
	return engine.IsUndefined(c.Resolve(ref))
}

// SameValue reports whether two references resolve to the same engine
// value.
func (c *Context) SameValue(a, b refs.Ref) bool {
	return engine.SameValue(c.Resolve(a), c.Resolve(b))
}
