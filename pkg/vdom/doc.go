// Package vdom provides the virtual DOM node types used by crumbtrail
// components.
//
// VNode is the building block representing elements, text, fragments,
// components and raw HTML. Elements are created with variadic factory
// functions that accept attributes, children, strings and components in any
// order:
//
//	Div(Class("crumbs"),
//	    A(Href("/"), Text("Home")),
//	    Span(Text("/")),
//	)
//
// Component nodes are expanded by the mounted tree in pkg/server, which keeps
// one instance per (position, name, key) across renders.
package vdom
