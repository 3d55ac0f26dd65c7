package vango

import (
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// Context provides dependency injection through the component tree.
// Create a context with CreateContext, provide values with Provider,
// and consume values with Use.
//
// Example:
//
//	var ThemeContext = vango.CreateContext("light")
//
//	func App() vdom.Component {
//	    return vdom.Func(func() *vdom.VNode {
//	        return ThemeContext.Provider("dark", Header(), Main())
//	    })
//	}
//
//	func Button() *vdom.VNode {
//	    theme := ThemeContext.Use()
//	    return vdom.Span(vdom.Class("btn-" + theme))
//	}
type Context[T any] struct {
	key          any
	defaultValue T
}

// contextKey wraps Context to create a unique key type.
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{defaultValue: defaultValue}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provider stores value on the current owner and returns the children as a
// fragment. It must be called from the render function of the component
// whose descendants should see the value; siblings never see it.
func (c *Context[T]) Provider(value T, children ...any) *vdom.VNode {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(c.key, value)
	}
	return vdom.Fragment(children...)
}

// Use retrieves the value of the nearest Provider ancestor, or the default
// value when there is none.
func (c *Context[T]) Use() T {
	if v, ok := c.Lookup(); ok {
		return v
	}
	return c.defaultValue
}

// Lookup is like Use but reports whether a Provider was found.
func (c *Context[T]) Lookup() (T, bool) {
	var zero T
	owner := getCurrentOwner()
	if owner == nil {
		return zero, false
	}
	value := owner.GetValue(c.key)
	if value == nil {
		return zero, false
	}
	typed, ok := value.(T)
	return typed, ok
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
