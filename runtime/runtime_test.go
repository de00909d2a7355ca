package runtime

import (
	"testing"

	"github.com/wippyai/js-runtime/engine"
)

func TestRuntime_InternalContext(t *testing.T) {
	rt := newTestRuntime(t)

	internal := rt.Internal()
	if internal == nil {
		t.Fatal("No internal context at bootstrap")
	}
	if internal.HostID() != 0 {
		t.Fatalf("Internal context host id = %d", internal.HostID())
	}
	if rt.ContextCount() != 1 {
		t.Fatalf("Expected 1 context at bootstrap, got %d", rt.ContextCount())
	}

	// Host-constant values live in the internal context.
	ref, err := rt.NewValue("constant")
	if err != nil {
		t.Fatalf("NewValue failed: %v", err)
	}
	if internal.String(ref) != "constant" {
		t.Fatal("Internal value not resolvable via internal context")
	}
}

func TestRuntime_ContextRegistry(t *testing.T) {
	rt := newTestRuntime(t)

	a := rt.NewContext(100)
	b := rt.NewContext(200)

	if a.ID() == b.ID() {
		t.Fatal("Context ids must be unique")
	}

	got, ok := rt.ContextByID(a.ID())
	if !ok || got != a {
		t.Fatal("ContextByID failed for a")
	}
	got, ok = rt.ContextByID(b.ID())
	if !ok || got != b {
		t.Fatal("ContextByID failed for b")
	}
	if _, ok := rt.ContextByID(99999); ok {
		t.Fatal("ContextByID returned a context for an unknown id")
	}

	// Environment-to-context lookup is the callback re-entry path.
	got, ok = rt.contextFor(a.Env())
	if !ok || got != a {
		t.Fatal("contextFor failed")
	}

	a.Destroy()
	if _, ok := rt.contextFor(a.Env()); ok {
		t.Fatal("Destroyed context still reachable via its environment")
	}
	if _, ok := rt.ContextByID(a.ID()); ok {
		t.Fatal("Destroyed context still reachable via its id")
	}
}

// Contexts are isolated: same platform, disjoint globals and disjoint
// reference tables.
func TestRuntime_ContextIsolation(t *testing.T) {
	rt := newTestRuntime(t)

	a := rt.NewContext(1)
	b := rt.NewContext(2)

	if _, err := a.RunScript("a.js", "globalThis.secret = 'from-a'"); err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	leak, err := b.RunScript("b.js", "typeof globalThis.secret")
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if b.String(leak) != "undefined" {
		t.Fatal("Global leaked across contexts")
	}
}

func TestRuntime_SharedPrograms(t *testing.T) {
	rt := newTestRuntime(t)

	if err := rt.CompileShared("boot.js", "globalThis.booted = (globalThis.booted || 0) + 1"); err != nil {
		t.Fatalf("CompileShared failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		ctx := rt.NewContext(i + 1)
		if _, err := ctx.RunShared("boot.js"); err != nil {
			t.Fatalf("RunShared failed: %v", err)
		}
		booted, err := ctx.RunScript("check.js", "globalThis.booted")
		if err != nil {
			t.Fatalf("RunScript failed: %v", err)
		}
		if ctx.Int64(booted) != 1 {
			t.Fatalf("Context %d: booted = %d", i, ctx.Int64(booted))
		}
	}

	if _, err := rt.NewContext(9).RunShared("missing.js"); err == nil {
		t.Fatal("RunShared of unknown origin must fail")
	}
}

func TestRuntime_Close(t *testing.T) {
	rt := New(WithPlatform(engine.NewPlatform()))

	a := rt.NewContext(1)
	ref, _ := a.NewValue("v")

	rt.Close()
	rt.Close() // idempotent

	if rt.ContextCount() != 0 {
		t.Fatalf("Expected 0 contexts after Close, got %d", rt.ContextCount())
	}
	if a.IsLive(ref) {
		t.Fatal("Reference survived runtime Close")
	}
}

func TestDiagnosticQueue_Bounded(t *testing.T) {
	rt := New(WithPlatform(engine.NewPlatform()), WithDiagnosticCapacity(2))
	t.Cleanup(rt.Close)
	ctx := rt.NewContext(1)

	id := ctx.PushScope()
	dead, _ := ctx.NewValue("x")
	ctx.PopScope(id)

	for i := 0; i < 5; i++ {
		ctx.Resolve(dead)
	}

	q := rt.Diagnostics()
	if q.Len() != 2 {
		t.Fatalf("Expected queue capped at 2, got %d", q.Len())
	}
	if q.Dropped() != 3 {
		t.Fatalf("Expected 3 dropped, got %d", q.Dropped())
	}

	if len(q.Drain()) != 2 {
		t.Fatal("Drain did not return queued diagnostics")
	}
	if q.Len() != 0 {
		t.Fatal("Drain did not clear the queue")
	}
}
