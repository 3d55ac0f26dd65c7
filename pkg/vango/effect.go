package vango

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect. It re-runs whenever a signal read during
// its last run changes. Effects created during a render pass run after the
// pass, never inside it.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	owner *Owner

	pending  atomic.Bool
	disposed atomic.Bool
}

// MarkDirty schedules the effect to re-run. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.pending.CompareAndSwap(false, true) {
		if e.owner != nil {
			e.owner.scheduleEffect(e)
			return
		}
		e.run()
	}
}

// ID returns the unique identifier for this effect. Implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect function with dependency tracking.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}
	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	WithOwner(e.owner, func() {
		WithListener(e, func() {
			e.cleanup = e.fn()
		})
	})
}

// addSource records a signal read during the current run.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// dispose runs the last cleanup and unsubscribes from all sources.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// CreateEffect creates an effect owned by the current owner.
//
// Inside a component render the effect occupies a hook slot: the first
// render creates it and schedules its first run for after the render pass;
// later renders return the same effect with fn swapped in for its next run.
// Outside a render the effect runs immediately.
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("path is", path.Get())
//	    return nil
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	owner := getCurrentOwner()
	rendering := IsRendering() && owner != nil

	if rendering {
		if slot, ok := owner.UseHookSlot().(*Effect); ok {
			slot.fn = fn
			return slot
		}
	}

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}
	if owner != nil {
		owner.registerEffect(e)
	}

	if rendering {
		owner.SetHookSlot(e)
		e.pending.Store(true)
		owner.scheduleEffect(e)
		return e
	}

	e.run()
	return e
}

// OnMount runs fn once, after the render pass in which the calling
// component first mounted. Signals read by fn are not tracked.
func OnMount(fn func()) {
	CreateEffect(func() Cleanup {
		Untracked(fn)
		return nil
	})
}

// unmountSlot keeps the most recent OnUnmount callback of a component.
type unmountSlot struct {
	fn func()
}

// OnUnmount registers fn to run when the calling component is disposed.
// Inside a render it registers once per component instance and always calls
// the fn passed by the most recent render.
func OnUnmount(fn func()) {
	owner := getCurrentOwner()
	if owner == nil {
		return
	}
	if !IsRendering() {
		owner.OnCleanup(fn)
		return
	}
	if slot, ok := owner.UseHookSlot().(*unmountSlot); ok {
		slot.fn = fn
		return
	}
	slot := &unmountSlot{fn: fn}
	owner.SetHookSlot(slot)
	owner.OnCleanup(func() { slot.fn() })
}

// AfterRender queues fn to run after the current render pass, with the
// current owner active. Outside a render it runs fn immediately.
func AfterRender(fn func()) {
	owner := getCurrentOwner()
	if owner == nil || !IsRendering() {
		fn()
		return
	}
	owner.Defer(fn)
}
