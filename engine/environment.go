package engine

import (
	stderrors "errors"
	"strconv"

	"github.com/dop251/goja"

	"github.com/wippyai/js-runtime/errors"
)

// Value is an opaque engine value. Values are owned by the engine's
// collector and stay alive only while something the engine can see retains
// them; the reference table above this package is that something.
type Value = goja.Value

// Environment is one isolated global scope. All operations except Interrupt
// must be serialized by the caller.
type Environment struct {
	vm       *goja.Runtime
	platform *Platform

	jsonParse     goja.Callable
	jsonStringify goja.Callable
}

// NewEnvironment creates a fresh environment on this platform.
func (p *Platform) NewEnvironment() *Environment {
	return &Environment{
		vm:       goja.New(),
		platform: p,
	}
}

// Platform returns the platform this environment was created on.
func (e *Environment) Platform() *Platform {
	return e.platform
}

// Undefined returns the engine's undefined value. It is the safe default
// handed out when a reference cannot be resolved.
func (e *Environment) Undefined() Value {
	return goja.Undefined()
}

// Null returns the engine's null value.
func (e *Environment) Null() Value {
	return goja.Null()
}

// IsUndefined reports whether v is the undefined value.
func IsUndefined(v Value) bool {
	return v == nil || goja.IsUndefined(v)
}

// SameValue reports whether two values are the same engine value
// (strict equality; identity for objects).
func SameValue(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StrictEquals(b)
}

// Global returns the environment's global object.
func (e *Environment) Global() Value {
	return e.vm.GlobalObject()
}

// ToValue converts a Go value to an engine value.
func (e *Environment) ToValue(v any) Value {
	return e.vm.ToValue(v)
}

// SetGlobal defines a property on the global object.
func (e *Environment) SetGlobal(name string, v any) error {
	if err := e.vm.Set(name, v); err != nil {
		return errors.Wrap(errors.PhaseRun, errors.KindInvalidInput, err, "set global "+name)
	}
	return nil
}

// RunProgram executes a compiled program and returns its completion value.
func (e *Environment) RunProgram(p *Program) (Value, error) {
	v, err := e.vm.RunProgram(p.prog)
	if err != nil {
		return nil, e.wrapErr(errors.PhaseRun, p.origin, err)
	}
	return v, nil
}

// RunScript compiles and executes source in one step. The origin names the
// script for stack traces.
func (e *Environment) RunScript(origin, source string) (Value, error) {
	prog, err := goja.Compile(origin, source, false)
	if err != nil {
		return nil, errors.ScriptException(errors.PhaseCompile, origin, err)
	}
	v, err := e.vm.RunProgram(prog)
	if err != nil {
		return nil, e.wrapErr(errors.PhaseRun, origin, err)
	}
	return v, nil
}

// Interrupt signals in-flight execution in this environment to terminate.
// Safe to call from any goroutine; the engine checks the signal at poll
// points, so termination is cooperative, not preemptive.
func (e *Environment) Interrupt(reason any) {
	e.vm.Interrupt(reason)
}

// ClearInterrupt clears a pending interrupt so the environment can run
// scripts again.
func (e *Environment) ClearInterrupt() {
	e.vm.ClearInterrupt()
}

// GetProperty reads a named property. Missing properties read as undefined,
// matching engine semantics.
func (e *Environment) GetProperty(v Value, key string) (Value, error) {
	obj, err := e.object(v)
	if err != nil {
		return nil, err
	}
	var out Value
	if err := e.catch(errors.PhaseRun, "", func() { out = obj.Get(key) }); err != nil {
		return nil, err
	}
	if out == nil {
		out = goja.Undefined()
	}
	return out, nil
}

// SetProperty writes a named property.
func (e *Environment) SetProperty(v Value, key string, val Value) error {
	obj, err := e.object(v)
	if err != nil {
		return err
	}
	return e.catch(errors.PhaseRun, "", func() {
		if err := obj.Set(key, val); err != nil {
			panic(err)
		}
	})
}

// GetIndex reads an indexed element.
func (e *Environment) GetIndex(v Value, i int) (Value, error) {
	return e.GetProperty(v, strconv.Itoa(i))
}

// SetIndex writes an indexed element.
func (e *Environment) SetIndex(v Value, i int, val Value) error {
	return e.SetProperty(v, strconv.Itoa(i), val)
}

// HasProperty reports whether the object has a (possibly inherited)
// property with the given key.
func (e *Environment) HasProperty(v Value, key string) (bool, error) {
	obj, err := e.object(v)
	if err != nil {
		return false, err
	}
	var out Value
	if err := e.catch(errors.PhaseRun, "", func() { out = obj.Get(key) }); err != nil {
		return false, err
	}
	return out != nil && !goja.IsUndefined(out), nil
}

// Call invokes fn with the given receiver and arguments.
func (e *Environment) Call(fn Value, this Value, args ...Value) (Value, error) {
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, errors.NotFunction("call target is not a function")
	}
	if this == nil {
		this = goja.Undefined()
	}
	v, err := callable(this, args...)
	if err != nil {
		return nil, e.wrapErr(errors.PhaseRun, "", err)
	}
	return v, nil
}

// BindFunc installs a host function as a global. The engine hands the
// adapter raw values; translation to references happens above this package.
func (e *Environment) BindFunc(name string, fn func(this Value, args []Value) Value) error {
	return e.SetGlobal(name, func(call goja.FunctionCall) goja.Value {
		return fn(call.This, call.Arguments)
	})
}

// NewObject creates an empty object in this environment.
func (e *Environment) NewObject() Value {
	return e.vm.NewObject()
}

// JSONParse parses a JSON document using the engine's own parser, so the
// result is an engine value graph, not a Go one.
func (e *Environment) JSONParse(data string) (Value, error) {
	if err := e.initJSON(); err != nil {
		return nil, err
	}
	v, err := e.jsonParse(goja.Undefined(), e.vm.ToValue(data))
	if err != nil {
		return nil, e.wrapErr(errors.PhaseJSON, "", err)
	}
	return v, nil
}

// JSONStringify serializes an engine value with the engine's JSON.stringify.
// Values JSON cannot represent (undefined, functions) yield an empty string.
func (e *Environment) JSONStringify(v Value) (string, error) {
	if err := e.initJSON(); err != nil {
		return "", err
	}
	out, err := e.jsonStringify(goja.Undefined(), v)
	if err != nil {
		return "", e.wrapErr(errors.PhaseJSON, "", err)
	}
	if goja.IsUndefined(out) {
		return "", nil
	}
	return out.String(), nil
}

func (e *Environment) initJSON() error {
	if e.jsonParse != nil {
		return nil
	}
	jsonVal := e.vm.Get("JSON")
	if jsonVal == nil {
		return errors.NotFound(errors.PhaseJSON, "global", "JSON")
	}
	obj := jsonVal.ToObject(e.vm)
	parse, ok := goja.AssertFunction(obj.Get("parse"))
	if !ok {
		return errors.NotFound(errors.PhaseJSON, "function", "JSON.parse")
	}
	stringify, ok := goja.AssertFunction(obj.Get("stringify"))
	if !ok {
		return errors.NotFound(errors.PhaseJSON, "function", "JSON.stringify")
	}
	e.jsonParse = parse
	e.jsonStringify = stringify
	return nil
}

// object coerces v to an object, rejecting null and undefined up front
// (the engine would throw a TypeError).
func (e *Environment) object(v Value) (*goja.Object, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, errors.InvalidInput(errors.PhaseRun, "cannot use null or undefined as an object")
	}
	var obj *goja.Object
	if err := e.catch(errors.PhaseRun, "", func() { obj = v.ToObject(e.vm) }); err != nil {
		return nil, err
	}
	return obj, nil
}

// catch runs fn, converting engine panics (thrown exceptions, interrupts)
// into errors. Other panics propagate.
func (e *Environment) catch(phase errors.Phase, origin string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if cause, ok := r.(error); ok {
				err = e.wrapErr(phase, origin, cause)
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

// wrapErr translates engine error types into the runtime's error taxonomy.
func (e *Environment) wrapErr(phase errors.Phase, origin string, err error) error {
	var intr *goja.InterruptedError
	if stderrors.As(err, &intr) {
		return errors.Terminated(origin, intr.Value())
	}
	var exc *goja.Exception
	if stderrors.As(err, &exc) {
		return errors.ScriptException(phase, origin, exc)
	}
	return errors.Wrap(phase, errors.KindScriptException, err, "")
}
