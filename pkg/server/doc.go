// Package server mounts component trees and serves them over HTTP.
//
// # Trees
//
// A Tree is a mounted component tree bound to a router.Location. Render
// runs passes of render, commit and effects until no signal read during
// the pass changed:
//
//	tree := server.NewTree(app, "/menu/products", server.TreeConfig{})
//	defer tree.Dispose()
//
//	node, err := tree.Render()
//
// Components keep their instance, and with it their hook slots, context
// values and effects, as long as their parent renders a component with
// the same name at the same position or with the same key. Instances
// that are not rendered again are disposed in the commit step, which runs
// their OnUnmount callbacks before the effects of newly mounted instances.
//
// # Server
//
// Server renders a fresh tree per page request and keeps one tree per live
// session:
//
//	srv := server.New(&server.ServerConfig{Address: ":8080"})
//	srv.SetRootComponent(demo.App)
//	srv.Run()
//
// Live sessions speak JSON over a WebSocket at /_crumbs/live. The client
// sends navigate messages and receives the rendered tree after every
// navigation. See Message.
package server
