package vango

import (
	"runtime"
	"sync"
)

// TrackingContext holds the reactive state for one goroutine.
// A mounted tree is always driven by a single goroutine, so per-goroutine
// state is enough to know which owner and listener are active.
type TrackingContext struct {
	// currentOwner owns effects, cleanups and context values created now.
	currentOwner *Owner

	// currentListener is subscribed to every signal read while it is set.
	currentListener Listener

	// batchDepth tracks nested Batch() calls.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when a batch completes.
	pendingUpdates []Listener

	// renderDepth is > 0 while a component render function is executing.
	renderDepth int
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID parses the current goroutine ID from the runtime stack header
// ("goroutine <id> [...]").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}
	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// ReleaseGoroutine drops the tracking context of the calling goroutine.
// Long-lived session loops call it before returning.
func ReleaseGoroutine() {
	trackingContexts.Delete(getGoroutineID())
}

func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// CurrentOwner returns the owner active on this goroutine, or nil.
func CurrentOwner() *Owner {
	return getCurrentOwner()
}

// WithOwner runs fn with owner as the current owner.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs fn with l subscribed to every signal read inside it.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// IsRendering reports whether a component render function is executing on
// this goroutine. Effects and event handlers run with IsRendering() == false.
func IsRendering() bool {
	return getTrackingContext().renderDepth > 0
}

func beginRender() {
	getTrackingContext().renderDepth++
}

func endRender() {
	ctx := getTrackingContext()
	if ctx.renderDepth > 0 {
		ctx.renderDepth--
	}
}
