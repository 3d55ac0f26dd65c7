// Package vtest provides testing helpers for components.
//
// Mount a component at a path, settle it and assert on the HTML:
//
//	func TestMenu(t *testing.T) {
//	    tree := vtest.Mount(t, demo.App(demo.Options{}), "/menu")
//	    vtest.ExpectContains(t, tree.HTML(), "Current: Menu")
//
//	    html := tree.Visit("/menu/products")
//	    vtest.ExpectNotContains(t, html, "Current: Menu")
//	}
//
// The tree is disposed when the test ends, which runs every unmount
// callback.
package vtest
