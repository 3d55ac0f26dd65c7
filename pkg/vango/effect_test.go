package vango

import (
	"reflect"
	"testing"
)

// renderAs simulates one component render on owner.
func renderAs(owner *Owner, fn func()) {
	WithOwner(owner, func() {
		owner.StartRender()
		defer owner.EndRender()
		fn()
	})
}

func TestEffectOutsideRenderRunsImmediately(t *testing.T) {
	runs := 0
	CreateEffect(func() Cleanup {
		runs++
		return nil
	})
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestEffectDuringRenderIsDeferred(t *testing.T) {
	root := NewOwner(nil)
	var log []string

	renderAs(root, func() {
		CreateEffect(func() Cleanup {
			log = append(log, "effect")
			return nil
		})
		log = append(log, "render")
	})

	if !root.HasPendingEffects() {
		t.Fatal("expected a pending effect after render")
	}
	root.RunPendingEffects()

	want := []string{"render", "effect"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestOnMountRunsOncePerInstance(t *testing.T) {
	root := NewOwner(nil)
	mounts := 0
	for i := 0; i < 3; i++ {
		renderAs(root, func() {
			OnMount(func() { mounts++ })
		})
		root.RunPendingEffects()
	}
	if mounts != 1 {
		t.Errorf("mounts = %d, want 1", mounts)
	}
}

func TestEffectRerunsOnSignalChange(t *testing.T) {
	root := NewOwner(nil)
	count := NewSignal(0)
	var seen []int

	renderAs(root, func() {
		CreateEffect(func() Cleanup {
			seen = append(seen, count.Get())
			return nil
		})
	})
	root.RunPendingEffects()

	count.Set(1)
	count.Set(1)
	root.RunPendingEffects()

	if !reflect.DeepEqual(seen, []int{0, 1}) {
		t.Errorf("seen = %v, want [0 1]", seen)
	}
}

func TestParentEffectsRunBeforeChildren(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	var order []string

	renderAs(child, func() {
		OnMount(func() { order = append(order, "child") })
	})
	renderAs(root, func() {
		AfterRender(func() { order = append(order, "parent") })
	})
	root.RunPendingEffects()

	if !reflect.DeepEqual(order, []string{"parent", "child"}) {
		t.Errorf("order = %v, want [parent child]", order)
	}
}

func TestOnUnmountUsesLatestCallback(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	var got string

	renderAs(child, func() { OnUnmount(func() { got = "first" }) })
	renderAs(child, func() { OnUnmount(func() { got = "second" }) })

	root.Dispose()
	if got != "second" {
		t.Errorf("unmount callback = %q, want second", got)
	}
	if !child.IsDisposed() {
		t.Error("child should be disposed with its parent")
	}
}

func TestDisposeRunsCleanupsInReverse(t *testing.T) {
	o := NewOwner(nil)
	var order []int
	o.OnCleanup(func() { order = append(order, 1) })
	o.OnCleanup(func() { order = append(order, 2) })
	o.Dispose()
	o.Dispose()

	if !reflect.DeepEqual(order, []int{2, 1}) {
		t.Errorf("order = %v, want [2 1]", order)
	}

	ran := false
	o.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup on disposed owner should run immediately")
	}
}

func TestBatchNotifiesOnce(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	runs := 0
	CreateEffect(func() Cleanup {
		a.Get()
		b.Get()
		runs++
		return nil
	})

	Batch(func() {
		a.Set(1)
		b.Set(1)
	})
	if runs != 2 {
		t.Errorf("runs = %d, want 2 (initial + one batched rerun)", runs)
	}
}

func TestUntrackedDoesNotSubscribe(t *testing.T) {
	s := NewSignal("x")
	CreateEffect(func() Cleanup {
		Untracked(func() { s.Get() })
		return nil
	})
	if n := s.base.subscriberCount(); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
}

func TestUseSlotStableAcrossRenders(t *testing.T) {
	root := NewOwner(nil)
	created := 0
	var first, second *int

	renderAs(root, func() {
		first = UseSlot(func() *int { created++; v := 1; return &v })
	})
	renderAs(root, func() {
		second = UseSlot(func() *int { created++; v := 2; return &v })
	})

	if created != 1 || first != second {
		t.Errorf("created = %d, same = %v; want 1, true", created, first == second)
	}
	if v := UseSlot(func() int { return 7 }); v != 7 {
		t.Errorf("UseSlot outside render = %d, want 7", v)
	}
}
