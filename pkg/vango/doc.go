// Package vango provides the reactive core that crumbtrail components run on.
//
// # Owners
//
// Every mounted component has an Owner. Owners form a tree, hold context
// values, effects and cleanups, and dispose their children when disposed.
//
// # Signals
//
// Signal[T] is a reactive value container. Reading it with Get during a
// component render or an effect subscribes the reader:
//
//	path := NewSignal("/")
//	p := path.Get()  // subscribes the current listener
//	path.Set("/menu") // marks subscribers dirty
//
// # Effects
//
// Effects created during a render run after the render pass completes,
// parent owners before children:
//
//	OnMount(func() { store.Merge(override) })
//	OnUnmount(func() { store.Unregister(key) })
//
// # Context
//
// Context[T] passes values to descendants without threading them through
// props:
//
//	var ScopeContext = CreateContext[*Scope](nil)
//	ScopeContext.Provider(scope, children...)
//	scope := ScopeContext.Use()
package vango
