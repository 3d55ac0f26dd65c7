// Package demo is the small shop the crumbs server renders: a home page, a
// menu whose trail uses a custom renderer, and a product page that
// overrides its own breadcrumb label.
package demo

import (
	"github.com/vango-dev/crumbtrail/pkg/features/breadcrumb"
	"github.com/vango-dev/crumbtrail/pkg/router"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// ProductLabel is the label the product page gives its own entry.
const ProductLabel = "Monitor 24 Polegadas"

// Products are linked from the product page.
var Products = []string{"apple", "banana", "strawberry", "melon"}

// Options configures the demo.
type Options struct {
	// Breadcrumb configures the provider wrapping every page.
	Breadcrumb breadcrumb.Config

	// View configures the trail in the page header.
	View []breadcrumb.ViewOption
}

// App returns the root component of the demo.
func App(opts Options) vdom.Component {
	return vdom.Named("demo.App", func() *vdom.VNode {
		return breadcrumb.Provider(opts.Breadcrumb,
			vdom.Header(vdom.Class("header"), breadcrumb.View(opts.View...)),
			vdom.Main(vdom.Class("page"), page(router.UsePath())),
		)
	})
}

func page(path string) *vdom.VNode {
	switch path {
	case "/":
		return vdom.Mount(home, "")
	case "/menu":
		return vdom.Mount(menu, "")
	case "/menu/products":
		return vdom.Mount(products, "")
	default:
		return vdom.Mount(fallback, "")
	}
}

var home = vdom.Named("demo.Home", func() *vdom.VNode {
	return vdom.Div(
		nextLink("/menu", "Menu"),
	)
})

var menu = vdom.Named("demo.Menu", func() *vdom.VNode {
	trail := breadcrumb.Use()
	return vdom.Div(
		vdom.H1("Current: Menu"),
		breadcrumb.Render(trail.Items(), trail.Path(),
			breadcrumb.WithClass("trail"),
			breadcrumb.WithRenderer(func(seg breadcrumb.Segment) *vdom.VNode {
				return breadcrumb.Link(seg, vdom.Key(seg.Key), vdom.Class("underline"))
			}),
		),
		nextLink("/menu/products", "Products"),
	)
})

var products = vdom.Named("demo.Products", func() *vdom.VNode {
	links := make([]any, 0, len(Products))
	for _, name := range Products {
		links = append(links, router.Link("/menu/products/"+name,
			vdom.Class("underline"),
			breadcrumb.CleanName(name),
		))
	}
	return vdom.Div(
		breadcrumb.Item(breadcrumb.Override{
			Key:         "/menu/products",
			DisplayName: ProductLabel,
			Content:     vdom.Span(vdom.Class("highlight"), ProductLabel),
		}),
		vdom.Div(vdom.Class("links"), vdom.Span("Next Link:"), links),
	)
})

var fallback = vdom.Named("demo.Page", func() *vdom.VNode {
	trail := breadcrumb.Use()
	items := trail.Items()
	return vdom.Div(
		vdom.H1("Current: ", items[len(items)-1].Label()),
		nextLink("/", "Home"),
	)
})

func nextLink(href, label string) *vdom.VNode {
	return vdom.Div(
		vdom.Class("links"),
		vdom.Span("Next Link:"),
		router.Link(href, vdom.Class("underline"), label),
	)
}
