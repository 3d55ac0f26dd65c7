package breadcrumb

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) Replaced(entries, dropped int) {
	o.events = append(o.events, fmt.Sprintf("replaced %d/%d", entries, dropped))
}

func (o *recordingObserver) Merged(key string, applied bool) {
	o.events = append(o.events, fmt.Sprintf("merged %s %t", key, applied))
}

func (o *recordingObserver) Unregistered(key string) {
	o.events = append(o.events, "unregistered "+key)
}

// watch counts how often the store notifies its subscribers.
func watch(s *Store) *int {
	runs := 0
	vango.CreateEffect(func() vango.Cleanup {
		s.Items()
		runs++
		return nil
	})
	return &runs
}

func labels(l List) []string {
	out := make([]string, len(l))
	for i, seg := range l {
		out[i] = seg.DisplayName
	}
	return out
}

func TestStoreReplaceNotifiesOnlyOnChange(t *testing.T) {
	s := NewStore(nil)
	runs := watch(s)

	s.Replace(Split("/menu"))
	s.Replace(Split("/menu"))
	s.Replace(Split("/menu/"))
	if *runs != 2 {
		t.Errorf("effect runs = %d, want 2 (initial + one change)", *runs)
	}

	s.Replace(Split("/other"))
	if *runs != 3 {
		t.Errorf("effect runs = %d, want 3", *runs)
	}
}

func TestStoreItemsReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Replace(Split("/menu"))

	items := s.Items()
	items[1].DisplayName = "changed"

	if got := s.Peek()[1].DisplayName; got != "Menu" {
		t.Errorf("store list changed through a returned copy: %q", got)
	}
}

func TestStoreMerge(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(obs)
	s.Replace(Split("/menu/products"))

	content := vdom.Span("Monitor 24")
	if !s.Merge(Override{Key: "/menu/products", DisplayName: "Monitor", Content: content}) {
		t.Fatal("Merge() = false for a key in the list")
	}
	seg, _ := s.Peek().Find("/menu/products")
	if seg.DisplayName != "Monitor" || seg.Content != content || seg.Href != "/menu/products" {
		t.Errorf("merged segment = %+v", seg)
	}

	if !s.Merge(Override{Key: HomeKey, DisplayName: "Start"}) {
		t.Error("Merge() = false for the home key")
	}
	if got := s.Peek()[0].DisplayName; got != "Start" {
		t.Errorf("home label = %q, want Start", got)
	}

	before := s.Peek()
	if s.Merge(Override{Key: "/nowhere", DisplayName: "x"}) {
		t.Error("Merge() = true for an unknown key")
	}
	if !s.Peek().Equal(before) {
		t.Error("unknown key changed the list")
	}

	want := []string{
		"replaced 3/0",
		"merged /menu/products true",
		"merged  true",
		"merged /nowhere false",
	}
	if !reflect.DeepEqual(obs.events, want) {
		t.Errorf("events = %q, want %q", obs.events, want)
	}
}

func TestStoreOverridesFollowPath(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(obs)
	s.Replace(Split("/menu/products"))
	s.Merge(Override{Key: "/menu", DisplayName: "Cardápio"})
	s.Merge(Override{Key: "/menu/products", DisplayName: "Monitor"})

	s.Replace(Split("/menu/products/reviews"))
	if got, want := labels(s.Peek()), []string{"Home", "Cardápio", "Monitor", "Reviews"}; !reflect.DeepEqual(got, want) {
		t.Errorf("labels after deeper path = %v, want %v", got, want)
	}

	s.Replace(Split("/menu"))
	if got, want := labels(s.Peek()), []string{"Home", "Cardápio"}; !reflect.DeepEqual(got, want) {
		t.Errorf("labels after shallower path = %v, want %v", got, want)
	}
	if n := s.Overrides(); n != 1 {
		t.Errorf("Overrides() = %d, want 1", n)
	}

	s.Replace(Split("/menu/products"))
	if got := s.Peek()[2].DisplayName; got != "Products" {
		t.Errorf("dropped override came back: %q", got)
	}
	if last := obs.events[len(obs.events)-2]; last != "replaced 2/1" {
		t.Errorf("drop event = %q, want replaced 2/1", last)
	}
}

func TestStoreMergeCombinesFields(t *testing.T) {
	s := NewStore(nil)
	s.Replace(Split("/menu"))
	s.Merge(Override{Key: "/menu", DisplayName: "Food"})
	s.Merge(Override{Key: "/menu", Href: "/menu?all=1"})

	s.Replace(Split("/menu"))
	seg := s.Peek()[1]
	if seg.DisplayName != "Food" || seg.Href != "/menu?all=1" {
		t.Errorf("segment after replace = %+v", seg)
	}
}

func TestStoreUnregister(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(obs)
	s.Replace(Split("/menu"))
	s.Merge(Override{Key: "/menu", DisplayName: "Food"})
	runs := watch(s)

	if !s.Unregister("/menu") {
		t.Fatal("Unregister() = false for a registered override")
	}
	if got := s.Peek()[1]; got != (Segment{Key: "/menu", DisplayName: "Menu", Href: "/menu"}) {
		t.Errorf("segment after unregister = %+v", got)
	}
	if *runs != 2 {
		t.Errorf("effect runs = %d, want 2", *runs)
	}

	if s.Unregister("/menu") {
		t.Error("second Unregister() = true")
	}
	if obs.events[len(obs.events)-1] != "unregistered /menu" {
		t.Errorf("events = %q", obs.events)
	}
}

func TestStoreReleaseKeepsOtherOverrides(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(obs)
	s.Replace(Split("/a"))

	name, ok := s.Register(Override{Key: "/a", DisplayName: "X"})
	if !ok || name == 0 {
		t.Fatalf("Register() = %d, %t", name, ok)
	}
	href, _ := s.Register(Override{Key: "/a", Href: "/custom"})

	if !s.Release(name) {
		t.Fatal("Release() = false for a held registration")
	}
	if got, want := s.Peek()[1], (Segment{Key: "/a", DisplayName: "A", Href: "/custom"}); got != want {
		t.Errorf("segment after first release = %+v, want %+v", got, want)
	}
	if s.Release(name) {
		t.Error("second Release() = true")
	}

	s.Replace(Split("/a"))
	if got := s.Peek()[1].Href; got != "/custom" {
		t.Errorf("Href after replace = %q, want /custom", got)
	}

	s.Release(href)
	if got, want := s.Peek()[1], (Segment{Key: "/a", DisplayName: "A", Href: "/a"}); got != want {
		t.Errorf("segment after last release = %+v, want %+v", got, want)
	}
	if n := s.Overrides(); n != 0 {
		t.Errorf("Overrides() = %d, want 0", n)
	}
	if got := obs.events[len(obs.events)-1]; got != "unregistered /a" {
		t.Errorf("last event = %q", got)
	}
}

func TestStoreRegisterUnknownKey(t *testing.T) {
	s := NewStore(nil)
	s.Replace(Split("/a"))

	id, ok := s.Register(Override{Key: "/b", DisplayName: "B"})
	if ok || id != 0 {
		t.Errorf("Register(unknown) = %d, %t, want 0, false", id, ok)
	}
	if s.Release(id) {
		t.Error("Release(0) = true")
	}
}

func TestStoreReplaceForgetsRegistrations(t *testing.T) {
	s := NewStore(nil)
	s.Replace(Split("/a/b"))
	id, _ := s.Register(Override{Key: "/a/b", DisplayName: "Bee"})

	s.Replace(Split("/a"))
	if s.Release(id) {
		t.Error("Release() = true for a registration dropped by Replace")
	}
	s.Replace(Split("/a/b"))
	if got := s.Peek()[2].DisplayName; got != "B" {
		t.Errorf("DisplayName = %q, want B", got)
	}
}
