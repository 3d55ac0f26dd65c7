package breadcrumb

import (
	"sync"

	"github.com/vango-dev/crumbtrail/pkg/vango"
)

// Observer receives store events. Implementations must be safe for
// concurrent use when one Observer is shared by several stores.
type Observer interface {
	// Replaced is called after every Replace with the resulting number of
	// entries and the number of overrides discarded because their key left
	// the path.
	Replaced(entries, dropped int)

	// Merged is called for every Merge. applied is false when no entry
	// had the override's key.
	Merged(key string, applied bool)

	// Unregistered is called when an override is forgotten.
	Unregistered(key string)
}

type nopObserver struct{}

func (nopObserver) Replaced(int, int)    {}
func (nopObserver) Merged(string, bool)  {}
func (nopObserver) Unregistered(string) {}

// Registration identifies one override registered with Store.Register.
// The zero Registration is never issued.
type Registration uint64

type registered struct {
	id       Registration
	override Override
}

// Store owns the current breadcrumb list. It is the only writer of the list;
// readers get copies.
//
// Overrides are remembered per registration, grouped by key. The entry for a
// key is its base segment with every registration for that key applied in
// order. Replace reapplies them to the entries that keep their key and
// forgets the rest, so an override wins over the label derived from the
// path for as long as its key stays in the path.
type Store struct {
	items *vango.Signal[List]

	mu        sync.Mutex
	base      map[string]Segment
	overrides map[string][]registered
	keys      map[Registration]string
	next      Registration

	observer Observer
}

// NewStore creates an empty store. A nil observer is allowed.
func NewStore(observer Observer) *Store {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Store{
		items:     vango.NewSignal[List](nil).WithEquals(List.Equal),
		base:      make(map[string]Segment),
		overrides: make(map[string][]registered),
		keys:      make(map[Registration]string),
		observer:  observer,
	}
}

// Items returns a copy of the current list and subscribes the current
// listener to later changes.
func (s *Store) Items() List {
	return s.items.Get().Clone()
}

// Peek returns a copy of the current list without subscribing.
func (s *Store) Peek() List {
	return s.items.Peek().Clone()
}

// Replace installs base as the new list. Entries whose key has remembered
// overrides get them applied; overrides for keys missing from base are
// dropped. Subscribers are notified only when the resulting list differs
// from the current one.
func (s *Store) Replace(base List) {
	next := make(List, len(base))
	present := make(map[string]Segment, len(base))

	s.mu.Lock()
	for i, seg := range base {
		present[seg.Key] = seg
		next[i] = s.resolveLocked(seg)
	}
	dropped := 0
	for key, regs := range s.overrides {
		if _, ok := present[key]; ok {
			continue
		}
		for _, r := range regs {
			delete(s.keys, r.id)
		}
		delete(s.overrides, key)
		dropped++
	}
	s.base = present
	s.mu.Unlock()

	s.items.Set(next)
	s.observer.Replaced(len(next), dropped)
}

// Merge applies o to the entry with key o.Key and remembers it for later
// replaces. It reports false, and changes nothing, when no entry has that
// key.
func (s *Store) Merge(o Override) bool {
	_, ok := s.Register(o)
	return ok
}

// Register is Merge returning the registration, which Release takes to
// withdraw exactly this override. The Registration is zero when no entry
// has the key.
func (s *Store) Register(o Override) (Registration, bool) {
	applied := false
	s.items.Update(func(cur List) List {
		i := cur.Index(o.Key)
		if i < 0 {
			return cur
		}
		applied = true
		next := cur.Clone()
		next[i] = o.Apply(next[i])
		return next
	})

	var id Registration
	if applied {
		s.mu.Lock()
		s.next++
		id = s.next
		s.overrides[o.Key] = append(s.overrides[o.Key], registered{id: id, override: o})
		s.keys[id] = o.Key
		s.mu.Unlock()
	}
	s.observer.Merged(o.Key, applied)
	return id, applied
}

// Release withdraws one registration. The entry is recomputed from its base
// segment and the registrations left for its key. It reports whether the
// registration was still held.
func (s *Store) Release(id Registration) bool {
	s.mu.Lock()
	key, ok := s.keys[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.keys, id)
	regs := s.overrides[key]
	for i, r := range regs {
		if r.id == id {
			regs = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(regs) == 0 {
		delete(s.overrides, key)
	} else {
		s.overrides[key] = regs
	}
	s.mu.Unlock()

	s.restore(key)
	s.observer.Unregistered(key)
	return true
}

// Unregister forgets every override for key and restores the entry to the
// values derived from the path. It reports whether any override was
// registered.
func (s *Store) Unregister(key string) bool {
	s.mu.Lock()
	regs, had := s.overrides[key]
	for _, r := range regs {
		delete(s.keys, r.id)
	}
	delete(s.overrides, key)
	s.mu.Unlock()

	if !had {
		return false
	}
	s.restore(key)
	s.observer.Unregistered(key)
	return true
}

// restore recomputes the entry for key when it is in the list.
func (s *Store) restore(key string) {
	s.mu.Lock()
	base, inList := s.base[key]
	if inList {
		base = s.resolveLocked(base)
	}
	s.mu.Unlock()
	if !inList {
		return
	}

	s.items.Update(func(cur List) List {
		i := cur.Index(key)
		if i < 0 {
			return cur
		}
		next := cur.Clone()
		next[i] = base
		return next
	})
}

// resolveLocked applies the registrations for seg.Key in order.
func (s *Store) resolveLocked(seg Segment) Segment {
	for _, r := range s.overrides[seg.Key] {
		seg = r.override.Apply(seg)
	}
	return seg
}

// Overrides returns the number of keys with remembered overrides.
func (s *Store) Overrides() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.overrides)
}
