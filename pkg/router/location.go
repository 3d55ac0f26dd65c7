package router

import (
	"github.com/vango-dev/crumbtrail/pkg/routepath"
	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// Location is the current route of a mounted tree. It is the only input the
// breadcrumb widget takes from the routing layer.
type Location struct {
	path  *vango.Signal[string]
	query *vango.Signal[string]
}

// NewLocation creates a Location at path. Invalid paths fall back to "/".
func NewLocation(path string) *Location {
	l := &Location{
		path:  vango.NewSignal("/"),
		query: vango.NewSignal(""),
	}
	_ = l.Navigate(path)
	return l
}

// Path returns the canonical current path and subscribes the reader.
func (l *Location) Path() string {
	return l.path.Get()
}

// Query returns the raw query string of the current location.
func (l *Location) Query() string {
	return l.query.Get()
}

// Peek returns the current path without subscribing.
func (l *Location) Peek() string {
	return l.path.Peek()
}

// Navigate moves the location to target. Readers are notified only when the
// canonical path or query actually changes.
func (l *Location) Navigate(target string) error {
	res, err := routepath.Canonicalize(target)
	if err != nil {
		return err
	}
	vango.Batch(func() {
		l.path.Set(res.Path)
		l.query.Set(res.Query)
	})
	return nil
}

var locationContext = vango.CreateContext[*Location](nil)

// Provide makes loc visible to all descendants of the calling component.
func Provide(loc *Location, children ...any) *vdom.VNode {
	return locationContext.Provider(loc, children...)
}

// UseLocation returns the nearest provided Location, or nil.
func UseLocation() *Location {
	return locationContext.Use()
}

// UsePath returns the current path of the nearest Location, or "/" when the
// component is rendered without one.
func UsePath() string {
	if loc := UseLocation(); loc != nil {
		return loc.Path()
	}
	return "/"
}
