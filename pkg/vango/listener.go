package vango

import "sync/atomic"

// Listener is anything that can be notified when a dependency changes.
// Mounted component instances and effects implement it.
type Listener interface {
	// MarkDirty notifies the listener that a signal it read has changed.
	MarkDirty()

	// ID returns a unique identifier used for deduplication.
	ID() uint64
}

// Cleanup is returned by effects and runs before the effect re-runs and
// when its owner is disposed.
type Cleanup func()

// idCounter is the source of unique IDs for owners, signals and effects.
var idCounter atomic.Uint64

// nextID returns the next unique ID. IDs are never reused.
func nextID() uint64 {
	return idCounter.Add(1)
}
