package breadcrumb

import (
	"github.com/vango-dev/crumbtrail/internal/errors"
	"github.com/vango-dev/crumbtrail/pkg/router"
	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// Config configures a Provider. Path, HomeLabel and PersistOverrides are
// read on every render; Observer is read once, when the Provider mounts.
type Config struct {
	// Path pins the trail to a fixed path. Empty means the current path of
	// the nearest router.Location.
	Path string

	// HomeLabel names the home entry. Empty means DefaultHomeLabel.
	HomeLabel string

	// PersistOverrides keeps an override registered after its Item
	// unmounts. It still disappears once its key leaves the path.
	PersistOverrides bool

	// Observer receives store events, typically a metrics collector.
	Observer Observer
}

// Scope is what descendants of a Provider see. It can read the list and
// register overrides but never replace the list.
type Scope struct {
	store    *Store
	splitter Splitter
	persist  bool

	path     string
	replaced bool
}

// Handle refers to an override registered through Scope.Register.
type Handle struct {
	id Registration
}

func newScope(cfg Config) *Scope {
	return &Scope{store: NewStore(cfg.Observer)}
}

// configure takes the per-render fields of cfg and derives the list for
// path. The list is replaced only when the path or home label changed.
func (s *Scope) configure(cfg Config, path string) {
	s.persist = cfg.PersistOverrides
	splitter := Splitter{HomeLabel: cfg.HomeLabel}
	if s.replaced && path == s.path && splitter == s.splitter {
		return
	}
	s.splitter = splitter
	s.path = path
	s.replaced = true
	s.store.Replace(s.splitter.Split(path))
}

// Items returns the current list and subscribes the caller.
func (s *Scope) Items() List {
	return s.store.Items()
}

// Path returns the path the current list was derived from.
func (s *Scope) Path() string {
	return s.path
}

// PersistOverrides reports whether overrides outlive their Item.
func (s *Scope) PersistOverrides() bool {
	return s.persist
}

// Merge registers o. Calls made while a component renders are applied
// after the render pass.
func (s *Scope) Merge(o Override) {
	s.Register(o)
}

// Register registers o like Merge and returns a handle for Release. The
// handle stays empty when no entry has o.Key.
func (s *Scope) Register(o Override) *Handle {
	h := &Handle{}
	s.registerInto(h, o)
	return h
}

func (s *Scope) registerInto(h *Handle, o Override) {
	vango.AfterRender(func() {
		h.id, _ = s.store.Register(o)
	})
}

// Release withdraws the override behind h, leaving other overrides for the
// same key in place.
func (s *Scope) Release(h *Handle) {
	vango.AfterRender(func() {
		if h.id != 0 {
			s.store.Release(h.id)
			h.id = 0
		}
	})
}

// Unregister forgets every override for key. Like Merge it never touches
// the list during a render.
func (s *Scope) Unregister(key string) {
	vango.AfterRender(func() {
		s.store.Unregister(key)
	})
}

var scopeContext = vango.CreateContext[*Scope](nil)

// Provider renders children with a breadcrumb scope in context. On every
// render it derives the list from the current path before the children
// render, so they never see a list for a previous path.
func Provider(cfg Config, children ...any) *vdom.VNode {
	return vdom.Mount(vdom.Named("breadcrumb.Provider", func() *vdom.VNode {
		scope := vango.UseSlot(func() *Scope { return newScope(cfg) })

		path := cfg.Path
		if path == "" {
			path = router.UsePath()
		}
		scope.configure(cfg, path)

		return scopeContext.Provider(scope, children...)
	}), "")
}

// Use returns the nearest scope. It panics with error E101 when called
// outside a Provider.
func Use() *Scope {
	if scope, ok := Lookup(); ok {
		return scope
	}
	panic(errors.New("E101"))
}

// Lookup returns the nearest scope and whether there is one.
func Lookup() (*Scope, bool) {
	scope, ok := scopeContext.Lookup()
	return scope, ok && scope != nil
}
