package breadcrumb

import (
	"github.com/vango-dev/crumbtrail/pkg/routepath"
	"github.com/vango-dev/crumbtrail/pkg/router"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// Default class names used by Render.
const (
	DefaultClass       = "breadcrumb"
	DefaultItemClass   = "breadcrumb-item"
	DefaultActiveClass = "breadcrumb-item-active"
	SeparatorClass     = "breadcrumb-separator"
)

// ViewOption configures View and Render.
type ViewOption func(*viewConfig)

type viewConfig struct {
	class       string
	itemClass   string
	activeClass string
	separator   any
	renderer    func(Segment) *vdom.VNode
}

func newViewConfig(opts []ViewOption) viewConfig {
	cfg := viewConfig{
		class:       DefaultClass,
		itemClass:   DefaultItemClass,
		activeClass: DefaultActiveClass,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithRenderer renders every entry with fn instead of the default link.
// Entries for which fn returns nil are left out.
func WithRenderer(fn func(Segment) *vdom.VNode) ViewOption {
	return func(c *viewConfig) { c.renderer = fn }
}

// WithClass sets the class of the container.
func WithClass(class string) ViewOption {
	return func(c *viewConfig) { c.class = class }
}

// WithItemClass sets the class of every default entry.
func WithItemClass(class string) ViewOption {
	return func(c *viewConfig) { c.itemClass = class }
}

// WithActiveClass sets the extra class of the entry for the current path.
func WithActiveClass(class string) ViewOption {
	return func(c *viewConfig) { c.activeClass = class }
}

// WithSeparator places sep between rendered entries. sep may be a string or
// a node.
func WithSeparator(sep any) ViewOption {
	return func(c *viewConfig) { c.separator = sep }
}

// View renders the trail of the nearest scope. It re-renders whenever the
// list changes.
func View(opts ...ViewOption) *vdom.VNode {
	return vdom.Mount(vdom.Named("breadcrumb.View", func() *vdom.VNode {
		scope := Use()
		return Render(scope.Items(), scope.Path(), opts...)
	}), "")
}

// Render renders list as a breadcrumb trail. current is the path of the
// page; the entry whose href matches it is marked active.
func Render(list List, current string, opts ...ViewOption) *vdom.VNode {
	cfg := newViewConfig(opts)
	if res, err := routepath.Canonicalize(current); err == nil {
		current = res.Path
	}

	children := make([]any, 0, 2*len(list))
	for _, seg := range list {
		var node *vdom.VNode
		if cfg.renderer != nil {
			node = cfg.renderer(seg)
		} else {
			node = cfg.item(seg, current)
		}
		if node == nil {
			continue
		}
		if cfg.separator != nil && len(children) > 0 {
			children = append(children, vdom.Span(
				vdom.Class(SeparatorClass),
				vdom.AriaHidden(true),
				cfg.separator,
			))
		}
		children = append(children, node)
	}

	return vdom.Nav(
		vdom.Class(cfg.class),
		vdom.AriaLabel("breadcrumb"),
		children,
	)
}

func (c viewConfig) item(seg Segment, current string) *vdom.VNode {
	return router.ActiveLink(seg.Href, current, c.itemClass, c.activeClass, true,
		vdom.Key(seg.Href),
		seg.Label(),
	)
}

// Link renders seg as a navigation link. args are attributes and children
// added to the anchor; without children the segment's label is used. Link
// renders nothing for a segment without href.
func Link(seg Segment, args ...any) *vdom.VNode {
	if seg.Href == "" {
		return nil
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case vdom.Attr, []vdom.Attr, nil:
			continue
		case *vdom.VNode:
			if v == nil {
				continue
			}
		}
		return router.Link(seg.Href, args...)
	}
	return router.Link(seg.Href, append(args, seg.Label())...)
}
