package vango

// UseSlot returns per-instance state for the calling component. The first
// render stores init(); later renders of the same instance get the stored
// value back. Outside a mounted render it simply returns init().
//
//	store := UseSlot(func() *Store { return NewStore() })
func UseSlot[T any](init func() T) T {
	owner := getCurrentOwner()
	if owner == nil || !IsRendering() {
		return init()
	}
	if v, ok := owner.UseHookSlot().(T); ok {
		return v
	}
	v := init()
	owner.SetHookSlot(v)
	return v
}
