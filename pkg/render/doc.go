// Package render turns VNode trees into HTML.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(vdom.Div(vdom.Class("crumbs"), vdom.Text("Home")))
//
// Text and attribute values are escaped; Raw nodes and the contents of
// script and style elements are written verbatim. Attributes are sorted so
// output is deterministic.
package render
