package server

import (
	"fmt"
	"sync/atomic"

	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// ComponentInstance is a mounted component with its reactive owner.
// Instances survive re-renders as long as their parent renders a component
// with the same name at the same position, or with the same key.
type ComponentInstance struct {
	// InstanceID is the unique instance identifier.
	InstanceID string

	// Component is the component rendered by the latest pass.
	Component vdom.Component

	// Name is the component name used for matching across renders.
	Name string

	// Owner scopes the context values, effects and cleanups of the instance.
	Owner *vango.Owner

	// Parent is the parent instance (nil for the root).
	Parent *ComponentInstance

	// Children are the instances mounted by the latest render, in order.
	Children []*ComponentInstance

	slot string
	prev []*ComponentInstance
	tree *Tree

	renders atomic.Int64
}

var _ vango.Listener = (*ComponentInstance)(nil)

var componentIDCounter atomic.Uint64

func generateComponentID() string {
	return fmt.Sprintf("c%d", componentIDCounter.Add(1))
}

func newComponentInstance(component vdom.Component, slot string, parent *ComponentInstance, tree *Tree) *ComponentInstance {
	var parentOwner *vango.Owner
	if parent != nil {
		parentOwner = parent.Owner
	} else if tree != nil {
		parentOwner = tree.owner
	}

	return &ComponentInstance{
		InstanceID: generateComponentID(),
		Component:  component,
		Name:       vdom.ComponentName(component),
		Owner:      vango.NewOwner(parentOwner),
		Parent:     parent,
		slot:       slot,
		tree:       tree,
	}
}

// Render calls the component's render function with the instance's owner
// current and the instance as listener, so signal reads mark the tree
// dirty.
func (c *ComponentInstance) Render() *vdom.VNode {
	if c.Component == nil {
		return nil
	}

	var node *vdom.VNode
	vango.WithOwner(c.Owner, func() {
		c.Owner.StartRender()
		defer c.Owner.EndRender()

		vango.WithListener(c, func() {
			node = c.Component.Render()
		})
	})
	c.renders.Add(1)
	return node
}

// Renders returns how many times the instance rendered.
func (c *ComponentInstance) Renders() int64 {
	return c.renders.Load()
}

// MarkDirty marks the owning tree for another pass. Implements
// vango.Listener.
func (c *ComponentInstance) MarkDirty() {
	if c.tree != nil {
		c.tree.markDirty()
	}
}

// ID implements vango.Listener.
func (c *ComponentInstance) ID() uint64 {
	if c.Owner != nil {
		return c.Owner.ID()
	}
	return 0
}

// dispose disposes the instance and everything below it. Owner disposal
// runs OnUnmount callbacks children first.
func (c *ComponentInstance) dispose() {
	if c.Owner != nil {
		c.Owner.Dispose()
	}
	c.Children = nil
	c.Component = nil
	c.tree = nil
}

// slotFor identifies a child across renders: keyed children by name and
// key, others by name and position among their unkeyed siblings.
func slotFor(name, key string, position int) string {
	if key != "" {
		return "k:" + name + ":" + key
	}
	return fmt.Sprintf("p:%s:%d", name, position)
}

// previousChild takes the child mounted for slot by the previous render.
// Each previous child is handed out at most once.
func (c *ComponentInstance) previousChild(slot string) *ComponentInstance {
	for i, child := range c.prev {
		if child.slot == slot {
			c.prev = append(c.prev[:i], c.prev[i+1:]...)
			return child
		}
	}
	return nil
}

// Walk calls fn for c and every descendant, parents first.
func (c *ComponentInstance) Walk(fn func(*ComponentInstance)) {
	fn(c)
	for _, child := range c.Children {
		child.Walk(fn)
	}
}
