package breadcrumb_test

import (
	"strings"
	"testing"

	"github.com/vango-dev/crumbtrail/internal/errors"
	"github.com/vango-dev/crumbtrail/pkg/features/breadcrumb"
	"github.com/vango-dev/crumbtrail/pkg/router"
	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
	"github.com/vango-dev/crumbtrail/pkg/vtest"
)

// shop renders a trail and, on product pages, overrides the product label.
func shop(cfg breadcrumb.Config) vdom.Component {
	return vdom.Named("shop", func() *vdom.VNode {
		path := router.UsePath()
		var page *vdom.VNode
		if strings.HasPrefix(path, "/menu/products") && path != "/menu/products/reviews" {
			page = breadcrumb.Item(breadcrumb.Override{
				Key:         "/menu/products",
				DisplayName: "Monitor",
			})
		}
		return breadcrumb.Provider(cfg,
			vdom.Header(breadcrumb.View()),
			vdom.Main(page),
		)
	})
}

func TestProviderTwoPhaseOverride(t *testing.T) {
	tree := vtest.Mount(t, shop(breadcrumb.Config{}), "/menu/products")

	got := tree.HTML()
	want := `<header><nav aria-label="breadcrumb" class="breadcrumb">` +
		`<a class="breadcrumb-item" data-crumbs-link="true" href="/">Home</a>` +
		`<a class="breadcrumb-item" data-crumbs-link="true" href="/menu">Menu</a>` +
		`<a class="breadcrumb-item breadcrumb-item-active" data-active="true" data-crumbs-link="true" href="/menu/products">Monitor</a>` +
		`</nav></header><main></main>`
	if got != want {
		t.Errorf("html =\n  %s\nwant\n  %s", got, want)
	}
	if passes := tree.Stats().Passes; passes != 2 {
		t.Errorf("Passes = %d, want 2 (derive, then override)", passes)
	}
}

func TestProviderNavigation(t *testing.T) {
	tree := vtest.Mount(t, shop(breadcrumb.Config{}), "/menu/products")
	tree.HTML()

	steps := []struct {
		path    string
		want    string
		missing string
	}{
		{"/menu/products/reviews", ">Products</a>", ">Monitor<"},
		{"/menu/products/specs", ">Monitor</a>", ">Products<"},
		{"/menu", `href="/menu">Menu</a>`, "/menu/products"},
		{"/", `href="/">Home</a>`, "/menu"},
	}
	for _, step := range steps {
		got := tree.Visit(step.path)
		if !strings.Contains(got, step.want) {
			t.Errorf("%s: html missing %q:\n%s", step.path, step.want, got)
		}
		if strings.Contains(got, step.missing) {
			t.Errorf("%s: html should not contain %q:\n%s", step.path, step.missing, got)
		}
	}
}

func TestProviderPersistOverrides(t *testing.T) {
	tree := vtest.Mount(t, shop(breadcrumb.Config{PersistOverrides: true}), "/menu/products")
	tree.HTML()

	// The Item unmounts on the reviews page but its override stays.
	if got := tree.Visit("/menu/products/reviews"); !strings.Contains(got, ">Monitor</a>") {
		t.Errorf("persisted override missing:\n%s", got)
	}

	// Leaving the key drops it for good.
	tree.Visit("/menu")
	if got := tree.Visit("/menu/products/reviews"); !strings.Contains(got, ">Products</a>") {
		t.Errorf("override should be dropped once its key left the path:\n%s", got)
	}
}

func TestItemsSharingKeyUnmountIndependently(t *testing.T) {
	showName := vango.NewSignal(true)
	nameItem := vdom.Named("name-item", func() *vdom.VNode {
		return breadcrumb.Item(breadcrumb.Override{Key: "/a", DisplayName: "X"})
	})
	hrefItem := vdom.Named("href-item", func() *vdom.VNode {
		return breadcrumb.Item(breadcrumb.Override{Key: "/a", Href: "/custom"})
	})
	app := vdom.Named("app", func() *vdom.VNode {
		var named *vdom.VNode
		if showName.Get() {
			named = vdom.Mount(nameItem, "")
		}
		return breadcrumb.Provider(breadcrumb.Config{},
			breadcrumb.View(),
			vdom.Mount(hrefItem, ""),
			named,
		)
	})
	tree := vtest.Mount(t, app, "/a")

	if got := tree.HTML(); !strings.Contains(got, `href="/custom">X</a>`) {
		t.Fatalf("both overrides should apply:\n%s", got)
	}

	showName.Set(false)
	got := tree.HTML()
	if !strings.Contains(got, `href="/custom">A</a>`) {
		t.Errorf("remaining item lost its override:\n%s", got)
	}
}

func TestScopeRegisterRelease(t *testing.T) {
	var scope *breadcrumb.Scope
	app := vdom.Named("app", func() *vdom.VNode {
		return breadcrumb.Provider(breadcrumb.Config{},
			vdom.Named("grab", func() *vdom.VNode {
				scope = breadcrumb.Use()
				return nil
			}),
		)
	})
	tree := vtest.Mount(t, app, "/a")
	tree.HTML()

	first := scope.Register(breadcrumb.Override{Key: "/a", DisplayName: "First"})
	second := scope.Register(breadcrumb.Override{Key: "/a", DisplayName: "Second"})
	if got := scope.Items()[1].DisplayName; got != "Second" {
		t.Errorf("DisplayName = %q, want Second", got)
	}

	scope.Release(second)
	if got := scope.Items()[1].DisplayName; got != "First" {
		t.Errorf("DisplayName after release = %q, want First", got)
	}
	scope.Release(first)
	scope.Release(first)
	if got := scope.Items()[1].DisplayName; got != "A" {
		t.Errorf("DisplayName after releasing all = %q, want A", got)
	}
}

func TestProviderRereadsConfig(t *testing.T) {
	home := vango.NewSignal("Home")
	app := vdom.Named("app", func() *vdom.VNode {
		return breadcrumb.Provider(breadcrumb.Config{HomeLabel: home.Get()}, breadcrumb.View())
	})
	tree := vtest.Mount(t, app, "/menu")
	tree.HTML()

	home.Set("Start")
	if got := tree.HTML(); !strings.Contains(got, `href="/">Start</a>`) {
		t.Errorf("home label change not applied:\n%s", got)
	}
}

func TestProviderPinnedPathAndHomeLabel(t *testing.T) {
	app := vdom.Named("app", func() *vdom.VNode {
		return breadcrumb.Provider(breadcrumb.Config{Path: "/docs/getting_started", HomeLabel: "Start"},
			breadcrumb.View(breadcrumb.WithSeparator("/")),
		)
	})
	tree := vtest.Mount(t, app, "/elsewhere")

	got := tree.HTML()
	for _, want := range []string{
		`href="/">Start</a>`,
		`<span aria-hidden="true" class="breadcrumb-separator">/</span>`,
		`>Getting Started</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("html missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Elsewhere") {
		t.Errorf("pinned provider followed the location:\n%s", got)
	}
}

func TestMergeDuringRenderIsDeferred(t *testing.T) {
	app := vdom.Named("app", func() *vdom.VNode {
		return breadcrumb.Provider(breadcrumb.Config{},
			breadcrumb.View(),
			vdom.Named("title", func() *vdom.VNode {
				breadcrumb.Use().Merge(breadcrumb.Override{Key: breadcrumb.HomeKey, DisplayName: "Shop"})
				return nil
			}),
		)
	})
	tree := vtest.Mount(t, app, "/")

	if got := tree.HTML(); !strings.Contains(got, ">Shop</a>") {
		t.Errorf("html = %s", got)
	}
	if passes := tree.Stats().Passes; passes != 2 {
		t.Errorf("Passes = %d, want 2", passes)
	}
}

func TestUseOutsideProvider(t *testing.T) {
	tests := []struct {
		name string
		node func() *vdom.VNode
	}{
		{"view", func() *vdom.VNode { return breadcrumb.View() }},
		{"item", func() *vdom.VNode { return breadcrumb.Item(breadcrumb.Override{Key: "/a"}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := vtest.Mount(t, vdom.Named("app", tt.node), "/a")

			_, err := tree.Render()
			if !errors.HasCode(err, "E101") {
				t.Errorf("Render() error = %v, want E101", err)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	if _, ok := breadcrumb.Lookup(); ok {
		t.Error("Lookup() outside a render reported a scope")
	}
}
