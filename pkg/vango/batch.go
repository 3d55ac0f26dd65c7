package vango

// Batch groups signal updates so every affected listener is notified once,
// after the outermost batch returns.
func Batch(fn func()) {
	ctx := getTrackingContext()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			processPendingUpdates(ctx)
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates(ctx *TrackingContext) {
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, l := range updates {
		if seen[l.ID()] {
			continue
		}
		seen[l.ID()] = true
		l.MarkDirty()
	}
}

// Untracked runs fn without subscribing the current listener to the
// signals it reads.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
