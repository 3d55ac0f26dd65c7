package breadcrumb

import (
	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// Item overrides the segment with key o.Key. It renders nothing.
//
// The override is merged once, in the effect phase after the Item first
// mounts; re-renders with different fields do not merge again. Unless the
// scope persists overrides, unmounting the Item withdraws its own override
// and leaves those of other Items for the same key in place.
//
//	breadcrumb.Item(breadcrumb.Override{
//	    Key:     "/menu/products",
//	    Content: vdom.Span(vdom.Class("product"), "Monitor 24\""),
//	})
func Item(o Override) *vdom.VNode {
	return vdom.Mount(vdom.Named("breadcrumb.Item", func() *vdom.VNode {
		scope := Use()
		handle := vango.UseSlot(func() *Handle { return &Handle{} })

		vango.OnMount(func() {
			scope.registerInto(handle, o)
		})
		vango.OnUnmount(func() {
			if !scope.PersistOverrides() {
				scope.Release(handle)
			}
		})
		return nil
	}), "")
}
