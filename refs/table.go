package refs

// Ref is a compact, copyable reference to one value held by a Table.
// The zero Ref never resolves: slot 0 exists only inside the root scope,
// and a table that has not stored anything has no slot 0.
type Ref struct {
	Scope uint32
	Index uint32
}

// checkpoint records the state saved when a scope is pushed: the scope that
// was current, and the table length at that moment. Checkpoints are strictly
// increasing in both fields while scopes are nested.
type checkpoint struct {
	scope  uint32
	length uint32
}

// rootScope is the scope open when a Table is created.
const rootScope = 1

// Releaser is optionally implemented by stored values that need cleanup
// when their scope is popped or the table is reset.
type Releaser interface {
	Release()
}

// Table is an append-only, scope-tagged store of engine-owned values.
// Slots are only ever removed in bulk, by truncating back to a scope
// checkpoint. The scope a slot belongs to is not stored in the slot; it is
// recovered from the slot's index and the checkpoint stack, which keeps Add
// to a single append.
//
// A Table is exclusively owned by one context and is not safe for
// concurrent use.
type Table[T any] struct {
	slots   []T
	saved   []checkpoint
	current uint32 // innermost open scope
	latest  uint32 // highest scope id ever allocated; never reused
}

// New creates an empty table with the root scope open.
func New[T any]() *Table[T] {
	return &Table[T]{
		slots:   make([]T, 0, 16),
		current: rootScope,
		latest:  rootScope,
	}
}

// Add retains v in a new slot and returns its reference. The reference is
// valid until the current scope (or an enclosing one, if Add was called with
// no scope pushed beyond the slot's) is popped.
func (t *Table[T]) Add(v T) Ref {
	ref := Ref{Scope: t.current, Index: uint32(len(t.slots))}
	t.slots = append(t.slots, v)
	return ref
}

// Lookup resolves ref to the value it was created for. It reports false if
// the reference is obsolete: out of bounds, or tagged with a scope that was
// not the one active when its slot was filled. An obsolete reference never
// reaches a slot.
func (t *Table[T]) Lookup(ref Ref) (T, bool) {
	if int(ref.Index) < len(t.slots) && ref.Scope == t.scopeAt(ref.Index) {
		return t.slots[ref.Index], true
	}
	var zero T
	return zero, false
}

// scopeAt recovers the scope that was current when slot index was filled.
// Walking the checkpoint stack inward-out: each checkpoint whose saved length
// is beyond the index was pushed after the slot existed, so the slot belongs
// to the scope that checkpoint saved; the walk stops at the first checkpoint
// at or below the index.
func (t *Table[T]) scopeAt(index uint32) uint32 {
	scope := t.current
	for i := len(t.saved) - 1; i >= 0; i-- {
		if index >= t.saved[i].length {
			break
		}
		scope = t.saved[i].scope
	}
	return scope
}

// PushScope opens a new scope and returns its id. Every slot added before
// the matching PopScope belongs to the new scope.
func (t *Table[T]) PushScope() uint32 {
	t.saved = append(t.saved, checkpoint{scope: t.current, length: uint32(len(t.slots))})
	t.latest++
	t.current = t.latest
	return t.current
}

// PopScope closes the scope identified by id, invalidating every reference
// created inside it and releasing their slots. Only the innermost open scope
// may be popped; any other id reports false and leaves the table untouched.
func (t *Table[T]) PopScope(id uint32) bool {
	if id != t.current || len(t.saved) == 0 {
		return false
	}
	cp := t.saved[len(t.saved)-1]
	t.saved = t.saved[:len(t.saved)-1]
	t.current = cp.scope
	t.truncate(int(cp.length))
	return true
}

// Reset pops every open scope and releases every slot, returning the table
// to its initial state except that scope ids keep increasing. Used by
// context teardown.
func (t *Table[T]) Reset() {
	if len(t.saved) > 0 {
		t.current = t.saved[0].scope
		t.saved = t.saved[:0]
	}
	t.truncate(0)
}

// truncate drops slots from length n upward, running Release hooks and
// clearing the slots so the engine collector can reclaim the values.
func (t *Table[T]) truncate(n int) {
	var zero T
	for i := n; i < len(t.slots); i++ {
		if r, ok := any(t.slots[i]).(Releaser); ok {
			r.Release()
		}
		t.slots[i] = zero
	}
	t.slots = t.slots[:n]
}

// Len returns the number of live slots.
func (t *Table[T]) Len() int {
	return len(t.slots)
}

// Depth returns the number of open scopes beyond the root.
func (t *Table[T]) Depth() int {
	return len(t.saved)
}

// Scope returns the id of the innermost open scope.
func (t *Table[T]) Scope() uint32 {
	return t.current
}

// LatestScope returns the highest scope id allocated so far.
func (t *Table[T]) LatestScope() uint32 {
	return t.latest
}
