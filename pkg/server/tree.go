package server

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vango-dev/crumbtrail/internal/errors"
	"github.com/vango-dev/crumbtrail/pkg/routepath"
	"github.com/vango-dev/crumbtrail/pkg/router"
	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// DefaultMaxPasses bounds the render loop of a tree.
const DefaultMaxPasses = 8

// TreeConfig configures a Tree.
type TreeConfig struct {
	// MaxPasses is the maximum number of render passes one Render may take
	// before it gives up with error E201. Default: DefaultMaxPasses.
	MaxPasses int

	// Logger receives debug output about passes. Default: slog.Default().
	Logger *slog.Logger
}

// RenderStats describes one settled (or failed) Render.
type RenderStats struct {
	Path     string
	Passes   int
	Duration time.Duration
	Unmounts int
}

// Tree is a mounted component tree bound to a router.Location.
//
// A Tree is driven by a single goroutine. Each Render runs passes of
//
//  1. render every component top-down,
//  2. commit: dispose instances that were not rendered again,
//  3. run pending effects, parents before children,
//
// and repeats while a signal read during the pass changed.
type Tree struct {
	owner    *vango.Owner
	location *router.Location
	root     *ComponentInstance
	app      vdom.Component

	maxPasses int
	logger    *slog.Logger

	dirty    atomic.Bool
	disposed atomic.Bool

	last      *vdom.VNode
	lastStats RenderStats
	unmounted []*ComponentInstance
}

// NewTree mounts app at path. Nothing renders until Render is called.
// An invalid path mounts the tree at "/".
func NewTree(app vdom.Component, path string, config TreeConfig) *Tree {
	if config.MaxPasses <= 0 {
		config.MaxPasses = DefaultMaxPasses
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	t := &Tree{
		owner:     vango.NewOwner(nil),
		location:  router.NewLocation(path),
		app:       app,
		maxPasses: config.MaxPasses,
		logger:    config.Logger.With("component", "tree"),
	}

	loc := t.location
	root := vdom.Named("crumbs.root", func() *vdom.VNode {
		return router.Provide(loc, vdom.Mount(app, ""))
	})
	t.root = newComponentInstance(root, "root", nil, t)
	t.root.InstanceID = "root"
	t.dirty.Store(true)
	return t
}

// Location returns the location the tree renders.
func (t *Tree) Location() *router.Location {
	return t.location
}

// Path returns the current path without subscribing.
func (t *Tree) Path() string {
	return t.location.Peek()
}

// Root returns the root instance.
func (t *Tree) Root() *ComponentInstance {
	return t.root
}

// Last returns the node produced by the last successful Render.
func (t *Tree) Last() *vdom.VNode {
	return t.last
}

// Stats returns the statistics of the last Render.
func (t *Tree) Stats() RenderStats {
	return t.lastStats
}

// Dirty reports whether the tree needs another pass.
func (t *Tree) Dirty() bool {
	return t.dirty.Load()
}

func (t *Tree) markDirty() {
	t.dirty.Store(true)
}

// Navigate moves the tree to path, which must be a relative path starting
// with "/". The change takes effect with the next Render.
func (t *Tree) Navigate(path string) error {
	if t.disposed.Load() {
		return errors.New("E203")
	}
	target, err := routepath.ValidateNavPath(path)
	if err == nil {
		err = t.location.Navigate(target)
	}
	if err != nil {
		return errors.New("E401").WithDetailf("path %q", path).Wrap(err)
	}
	return nil
}

// Render runs passes until the tree settles and returns the expanded node
// tree, which contains only elements, text and fragments. A component
// panic aborts the Render with error E202, or with the panic value itself
// when that is a *errors.CrumbError.
func (t *Tree) Render() (node *vdom.VNode, err error) {
	if t.disposed.Load() {
		return nil, errors.New("E203")
	}

	start := time.Now()
	stats := RenderStats{Path: t.location.Peek()}
	defer func() {
		stats.Duration = time.Since(start)
		t.lastStats = stats
	}()

	for {
		if stats.Passes >= t.maxPasses {
			return nil, errors.New("E201").
				WithDetailf("path %s did not settle after %d passes", stats.Path, stats.Passes)
		}
		stats.Passes++

		t.dirty.Store(false)
		node, err = t.pass()
		if err != nil {
			t.commit()
			return nil, err
		}
		stats.Unmounts += t.commit()
		t.owner.RunPendingEffects()
		stats.Path = t.location.Peek()

		t.logger.Debug("render pass",
			"path", stats.Path,
			"pass", stats.Passes,
			"dirty", t.dirty.Load())

		if !t.dirty.Load() && !t.owner.HasPendingEffects() {
			t.last = node
			return node, nil
		}
	}
}

// pass renders the whole tree once.
func (t *Tree) pass() (node *vdom.VNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*errors.CrumbError); ok {
				err = ce
				return
			}
			err = errors.New("E202").WithDetailf("%v", r)
		}
	}()
	return t.renderInstance(t.root), nil
}

// renderInstance renders inst and expands the components it returned.
func (t *Tree) renderInstance(inst *ComponentInstance) *vdom.VNode {
	node := inst.Render()

	inst.prev = inst.Children
	inst.Children = nil
	defer func() {
		if r := recover(); r != nil {
			inst.Children = append(inst.Children, inst.prev...)
			inst.prev = nil
			panic(r)
		}
	}()

	node = t.expand(node, inst, make(map[string]int))

	t.unmounted = append(t.unmounted, inst.prev...)
	inst.prev = nil
	return node
}

// expand returns node with every component below it replaced by its
// rendered output, reusing the matching children of parent. Nodes returned
// by components are never modified.
func (t *Tree) expand(node *vdom.VNode, parent *ComponentInstance, positions map[string]int) *vdom.VNode {
	if node == nil {
		return nil
	}

	if node.Kind == vdom.KindComponent {
		if node.Comp == nil {
			return nil
		}
		name := vdom.ComponentName(node.Comp)
		if name == "" {
			name = fmt.Sprintf("%T", node.Comp)
		}
		position := 0
		if node.Key == "" {
			position = positions[name]
			positions[name]++
		}
		slot := slotFor(name, node.Key, position)

		child := parent.previousChild(slot)
		if child == nil {
			child = newComponentInstance(node.Comp, slot, parent, t)
		}
		child.Component = node.Comp
		parent.Children = append(parent.Children, child)
		return t.renderInstance(child)
	}

	if len(node.Children) == 0 {
		return node
	}
	children := node.Children[:0:0]
	for _, c := range node.Children {
		if expanded := t.expand(c, parent, positions); expanded != nil {
			children = append(children, expanded)
		}
	}
	out := *node
	out.Children = children
	return &out
}

// commit disposes instances that the last pass did not render.
func (t *Tree) commit() int {
	unmounted := t.unmounted
	t.unmounted = nil
	for _, inst := range unmounted {
		inst.dispose()
	}
	return len(unmounted)
}

// Components returns the number of mounted component instances.
func (t *Tree) Components() int {
	n := 0
	t.root.Walk(func(*ComponentInstance) { n++ })
	return n
}

// Dispose unmounts the whole tree and runs every OnUnmount callback.
func (t *Tree) Dispose() {
	if t.disposed.Swap(true) {
		return
	}
	t.root.dispose()
	t.owner.Dispose()
	t.unmounted = nil
	t.last = nil
}
