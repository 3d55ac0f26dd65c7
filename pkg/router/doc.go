// Package router holds the two routing collaborators the breadcrumb widget
// depends on: the current Location of a mounted tree and the Link primitive
// used to render navigable anchors.
//
//	loc := router.NewLocation("/menu/products")
//	router.Provide(loc, Page())
//
//	func Page() *vdom.VNode {
//	    return router.Link("/menu", "Back to menu")
//	}
package router
