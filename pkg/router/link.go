package router

import (
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// LinkAttr marks an anchor for client-side navigation. The live client
// intercepts clicks on marked anchors and sends a navigate message instead
// of loading a new page.
const LinkAttr = "data-crumbs-link"

// Link creates an anchor element with client-side navigation.
func Link(href string, children ...any) *vdom.VNode {
	return vdom.A(
		vdom.Href(href),
		DataLink(),
		children,
	)
}

// ActiveLink creates a link with class. When href matches the current path
// the link also gets activeClass and data-active="true". With exact false,
// any path below href also matches.
func ActiveLink(href, current, class, activeClass string, exact bool, children ...any) *vdom.VNode {
	classes := vdom.Class(class)
	var marker vdom.Attr
	if IsActive(href, current, exact) {
		classes = vdom.Class(class, activeClass)
		marker = vdom.Data("active", "true")
	}
	return vdom.A(
		vdom.Href(href),
		DataLink(),
		classes,
		marker,
		children,
	)
}

// IsActive reports whether href matches current. The root only matches
// exactly, otherwise "/menu" would be active everywhere below it.
func IsActive(href, current string, exact bool) bool {
	if href == current {
		return true
	}
	if exact || href == "/" || len(current) <= len(href) {
		return false
	}
	return current[:len(href)] == href && current[len(href)] == '/'
}

// DataLink returns the attribute that enables client-side navigation.
func DataLink() vdom.Attr {
	return vdom.Attr{Key: LinkAttr, Value: "true"}
}
