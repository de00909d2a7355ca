package engine

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/wippyai/js-runtime/errors"
)

func TestEnvironment_RunScript(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	v, err := env.RunScript("add.js", "1 + 2")
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if v.ToInteger() != 3 {
		t.Fatalf("Expected 3, got %v", v)
	}
}

func TestEnvironment_CompileError(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	_, err := env.RunScript("bad.js", "function {")
	if err == nil {
		t.Fatal("Expected compile error")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindScriptException}) {
		t.Fatalf("Expected compile script_exception, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad.js") {
		t.Fatalf("Error lost the origin: %v", err)
	}
}

func TestEnvironment_ThrownException(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	_, err := env.RunScript("throw.js", `throw new Error("boom")`)
	if err == nil {
		t.Fatal("Expected exception")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRun, Kind: errors.KindScriptException}) {
		t.Fatalf("Expected run script_exception, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Exception message lost: %v", err)
	}
}

func TestEnvironment_Interrupt(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	go func() {
		time.Sleep(20 * time.Millisecond)
		env.Interrupt("deadline")
	}()

	_, err := env.RunScript("loop.js", "for(;;){}")
	if err == nil {
		t.Fatal("Expected interrupt to terminate execution")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRun, Kind: errors.KindTerminated}) {
		t.Fatalf("Expected terminated, got %v", err)
	}

	// The environment is usable again once the interrupt is cleared.
	env.ClearInterrupt()
	v, err := env.RunScript("after.js", "40 + 2")
	if err != nil {
		t.Fatalf("RunScript after ClearInterrupt failed: %v", err)
	}
	if v.ToInteger() != 42 {
		t.Fatalf("Expected 42, got %v", v)
	}
}

func TestEnvironment_Properties(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	obj, err := env.RunScript("obj.js", `({name: "slot", count: 7})`)
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}

	name, err := env.GetProperty(obj, "name")
	if err != nil {
		t.Fatalf("GetProperty failed: %v", err)
	}
	if name.String() != "slot" {
		t.Fatalf("Expected 'slot', got %v", name)
	}

	missing, err := env.GetProperty(obj, "nope")
	if err != nil {
		t.Fatalf("GetProperty of missing key failed: %v", err)
	}
	if !IsUndefined(missing) {
		t.Fatalf("Expected undefined for missing property, got %v", missing)
	}

	if err := env.SetProperty(obj, "count", env.ToValue(8)); err != nil {
		t.Fatalf("SetProperty failed: %v", err)
	}
	count, _ := env.GetProperty(obj, "count")
	if count.ToInteger() != 8 {
		t.Fatalf("Expected 8, got %v", count)
	}

	has, err := env.HasProperty(obj, "name")
	if err != nil || !has {
		t.Fatalf("HasProperty(name) = %v, %v", has, err)
	}
	has, err = env.HasProperty(obj, "nope")
	if err != nil || has {
		t.Fatalf("HasProperty(nope) = %v, %v", has, err)
	}
}

func TestEnvironment_PropertyOnUndefined(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	if _, err := env.GetProperty(env.Undefined(), "x"); err == nil {
		t.Fatal("Expected error reading property of undefined")
	}
	if _, err := env.GetProperty(env.Null(), "x"); err == nil {
		t.Fatal("Expected error reading property of null")
	}
}

func TestEnvironment_Index(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	arr, err := env.RunScript("arr.js", `[10, 20, 30]`)
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}

	v, err := env.GetIndex(arr, 1)
	if err != nil {
		t.Fatalf("GetIndex failed: %v", err)
	}
	if v.ToInteger() != 20 {
		t.Fatalf("Expected 20, got %v", v)
	}

	if err := env.SetIndex(arr, 1, env.ToValue(21)); err != nil {
		t.Fatalf("SetIndex failed: %v", err)
	}
	v, _ = env.GetIndex(arr, 1)
	if v.ToInteger() != 21 {
		t.Fatalf("Expected 21, got %v", v)
	}
}

func TestEnvironment_Call(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	fn, err := env.RunScript("fn.js", `(function(a, b){ return a + b })`)
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}

	v, err := env.Call(fn, nil, env.ToValue(2), env.ToValue(40))
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if v.ToInteger() != 42 {
		t.Fatalf("Expected 42, got %v", v)
	}

	_, err = env.Call(env.ToValue(1), nil)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRun, Kind: errors.KindNotFunction}) {
		t.Fatalf("Expected not_function, got %v", err)
	}
}

func TestEnvironment_BindFunc(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	var got string
	err := env.BindFunc("report", func(this Value, args []Value) Value {
		if len(args) > 0 {
			got = args[0].String()
		}
		return env.ToValue(len(args))
	})
	if err != nil {
		t.Fatalf("BindFunc failed: %v", err)
	}

	v, err := env.RunScript("call.js", `report("hi", 2)`)
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if got != "hi" {
		t.Fatalf("Host function saw %q", got)
	}
	if v.ToInteger() != 2 {
		t.Fatalf("Expected 2, got %v", v)
	}
}

func TestEnvironment_JSON(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	v, err := env.JSONParse(`{"a": [1, 2], "b": "x"}`)
	if err != nil {
		t.Fatalf("JSONParse failed: %v", err)
	}
	a, err := env.GetProperty(v, "a")
	if err != nil {
		t.Fatalf("GetProperty failed: %v", err)
	}
	first, _ := env.GetIndex(a, 0)
	if first.ToInteger() != 1 {
		t.Fatalf("Expected 1, got %v", first)
	}

	out, err := env.JSONStringify(v)
	if err != nil {
		t.Fatalf("JSONStringify failed: %v", err)
	}
	if !strings.Contains(out, `"a":[1,2]`) {
		t.Fatalf("Unexpected stringify output: %q", out)
	}

	if _, err := env.JSONParse("{nope"); err == nil {
		t.Fatal("Expected parse error")
	}

	// undefined has no JSON representation
	out, err = env.JSONStringify(env.Undefined())
	if err != nil || out != "" {
		t.Fatalf("Stringify(undefined) = %q, %v", out, err)
	}
}

func TestEnvironment_SameValue(t *testing.T) {
	env := NewPlatform().NewEnvironment()

	obj, _ := env.RunScript("o.js", `({})`)
	other, _ := env.RunScript("o2.js", `({})`)

	if !SameValue(obj, obj) {
		t.Fatal("Object not identical to itself")
	}
	if SameValue(obj, other) {
		t.Fatal("Distinct objects compared identical")
	}
	if !SameValue(env.Undefined(), env.Undefined()) {
		t.Fatal("undefined not identical to undefined")
	}
}
