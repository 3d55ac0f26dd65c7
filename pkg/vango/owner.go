package vango

import (
	"sync"
	"sync/atomic"
)

// Owner represents a component scope that owns effects, cleanups, context
// values and child owners. Disposing an Owner disposes everything it owns.
//
// Owners form a hierarchy that mirrors the mounted component tree.
type Owner struct {
	id     uint64
	parent *Owner

	mu       sync.Mutex
	children []*Owner
	effects  []*Effect
	cleanups []func()
	pending  []*Effect
	deferred []func()

	valuesMu sync.RWMutex
	values   map[any]any

	disposed atomic.Bool

	// Hook slots give effects and other per-instance state a stable
	// identity across renders. They are indexed by call order.
	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates a new Owner registered as a child of parent.
// A nil parent creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, o)
		parent.mu.Unlock()
	}
	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil for a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) removeChild(child *Owner) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.effects = append(o.effects, e)
}

// OnCleanup registers fn to run when this Owner is disposed.
// On an already disposed Owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// scheduleEffect queues an effect for the next RunPendingEffects.
func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, e)
}

// Defer queues fn to run with this Owner current during the next
// RunPendingEffects, after the render pass that queued it.
func (o *Owner) Defer(fn func()) {
	if o.disposed.Load() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deferred = append(o.deferred, fn)
}

// RunPendingEffects runs the effects and deferred calls queued on this Owner,
// then recurses into children. Parents always flush before their children,
// and each owner flushes in scheduling order.
func (o *Owner) RunPendingEffects() {
	if o.disposed.Load() {
		return
	}

	o.mu.Lock()
	effects := o.pending
	deferred := o.deferred
	o.pending = nil
	o.deferred = nil
	o.mu.Unlock()

	for _, e := range effects {
		if e.pending.Load() {
			e.run()
		}
	}
	if len(deferred) > 0 {
		WithOwner(o, func() {
			for _, fn := range deferred {
				fn()
			}
		})
	}

	for _, child := range o.snapshotChildren() {
		child.RunPendingEffects()
	}
}

// HasPendingEffects reports whether this Owner or any descendant has queued
// work.
func (o *Owner) HasPendingEffects() bool {
	if o.disposed.Load() {
		return false
	}
	o.mu.Lock()
	has := len(o.pending) > 0 || len(o.deferred) > 0
	o.mu.Unlock()
	if has {
		return true
	}
	for _, child := range o.snapshotChildren() {
		if child.HasPendingEffects() {
			return true
		}
	}
	return false
}

func (o *Owner) snapshotChildren() []*Owner {
	o.mu.Lock()
	defer o.mu.Unlock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	return children
}

// Dispose disposes this Owner and all its children, effects and cleanups.
// Children are disposed in reverse creation order; cleanups run last-in
// first-out.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.mu.Lock()
	children := o.children
	effects := o.effects
	cleanups := o.cleanups
	o.children = nil
	o.effects = nil
	o.cleanups = nil
	o.pending = nil
	o.deferred = nil
	o.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for _, e := range effects {
		e.dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// StartRender marks the beginning of a component render: hook slots are
// rewound and IsRendering reports true until EndRender.
func (o *Owner) StartRender() {
	beginRender()
	o.hookSlotIdx = 0
}

// EndRender marks the end of a component render.
func (o *Owner) EndRender() {
	endRender()
}

// UseHookSlot returns the value stored in the next hook slot, or nil on the
// first render. Callers store a fresh value with SetHookSlot.
//
//	slot := owner.UseHookSlot()
//	if slot != nil {
//	    return slot.(*thing)
//	}
//	t := &thing{}
//	owner.SetHookSlot(t)
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++
	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores a value for the slot most recently returned empty by
// UseHookSlot.
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}
