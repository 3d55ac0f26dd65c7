// Package breadcrumb derives a breadcrumb trail from the current route and
// lets descendant components override individual segments.
//
// A Provider splits the current path into segments and publishes them
// through a Scope. View renders the trail; Item overrides the segment whose
// key matches, after the render pass in which it mounted:
//
//	breadcrumb.Provider(breadcrumb.Config{},
//	    breadcrumb.View(),
//	    breadcrumb.Item(breadcrumb.Override{
//	        Key:         "/menu/products",
//	        DisplayName: "Monitor 24\"",
//	    }),
//	)
//
// Segment keys are cumulative hrefs, so "/menu/products" always names the
// "products" segment under "menu". The home entry has the empty key.
//
// Updates happen in two phases. The provider replaces the list while it
// renders, before any descendant reads it. Overrides merge in the effect
// phase that follows, and the tree renders again with the merged list.
// Overrides survive route changes for as long as their key stays in the
// path and their Item stays mounted.
package breadcrumb
