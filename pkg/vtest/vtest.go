package vtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/crumbtrail/pkg/render"
	"github.com/vango-dev/crumbtrail/pkg/server"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// Tree is a mounted component tree bound to a test.
type Tree struct {
	*server.Tree
	t testing.TB
}

// Mount mounts app at path. The tree is disposed when the test ends.
//
// Example:
//
//	tree := vtest.Mount(t, App(), "/menu")
//	vtest.ExpectContains(t, tree.HTML(), "Menu")
func Mount(t testing.TB, app vdom.Component, path string) *Tree {
	t.Helper()
	tree := server.NewTree(app, path, server.TreeConfig{})
	t.Cleanup(tree.Dispose)
	return &Tree{Tree: tree, t: t}
}

// HTML settles the tree and returns its HTML. A render error fails the
// test.
func (tr *Tree) HTML() string {
	tr.t.Helper()
	node, err := tr.Render()
	if err != nil {
		tr.t.Fatalf("Render() error = %v", err)
	}
	return RenderToString(node)
}

// Visit navigates to path and returns the settled HTML.
func (tr *Tree) Visit(path string) string {
	tr.t.Helper()
	if err := tr.Navigate(path); err != nil {
		tr.t.Fatalf("Navigate(%q) error = %v", path, err)
	}
	return tr.HTML()
}

// RenderToString renders a VNode and returns the HTML string, or "" when
// rendering fails.
//
// Example:
//
//	html := vtest.RenderToString(breadcrumb.Render(list, "/"))
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that html contains every expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, html, "Welcome", `href="/menu"`)
func ExpectContains(t testing.TB, html string, expected ...string) {
	t.Helper()
	for _, e := range expected {
		if !strings.Contains(html, e) {
			t.Errorf("expected rendered output to contain %q, got:\n%s", e, truncate(html, 500))
		}
	}
}

// ExpectNotContains asserts that html contains none of the substrings.
func ExpectNotContains(t testing.TB, html string, unexpected ...string) {
	t.Helper()
	for _, u := range unexpected {
		if strings.Contains(html, u) {
			t.Errorf("expected rendered output to NOT contain %q, got:\n%s", u, truncate(html, 500))
		}
	}
}

// ExpectAttribute asserts that html contains an attribute value.
//
// Example:
//
//	vtest.ExpectAttribute(t, html, "class", "breadcrumb")
func ExpectAttribute(t testing.TB, html, attr, value string) {
	t.Helper()
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
