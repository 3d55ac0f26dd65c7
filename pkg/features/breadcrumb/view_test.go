package breadcrumb_test

import (
	"strings"
	"testing"

	"github.com/vango-dev/crumbtrail/pkg/features/breadcrumb"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
	"github.com/vango-dev/crumbtrail/pkg/vtest"
)

func TestRender(t *testing.T) {
	list := breadcrumb.Split("/menu/products")

	tests := []struct {
		name    string
		current string
		opts    []breadcrumb.ViewOption
		want    []string
		absent  []string
	}{
		{
			name:    "default",
			current: "/menu/products",
			want: []string{
				`<nav aria-label="breadcrumb" class="breadcrumb">`,
				`<a class="breadcrumb-item" data-crumbs-link="true" href="/">Home</a>`,
				`<a class="breadcrumb-item breadcrumb-item-active" data-active="true" data-crumbs-link="true" href="/menu/products">Products</a>`,
			},
			absent: []string{separatorAttr},
		},
		{
			name:    "current is canonicalized",
			current: "/menu/?x=1",
			want:    []string{`class="breadcrumb-item breadcrumb-item-active" data-active="true" data-crumbs-link="true" href="/menu"`},
		},
		{
			name:    "custom classes",
			current: "/menu",
			opts: []breadcrumb.ViewOption{
				breadcrumb.WithClass("trail"),
				breadcrumb.WithItemClass("crumb"),
				breadcrumb.WithActiveClass("here"),
			},
			want: []string{`<nav aria-label="breadcrumb" class="trail">`, `class="crumb here"`, `class="crumb"`},
		},
		{
			name:    "separator between entries only",
			current: "/",
			opts:    []breadcrumb.ViewOption{breadcrumb.WithSeparator(vdom.Text(">"))},
			want:    []string{`Home</a><span aria-hidden="true" class="breadcrumb-separator">&gt;</span><a`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vtest.RenderToString(breadcrumb.Render(list, tt.current, tt.opts...))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("html missing %q:\n%s", w, got)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("html should not contain %q:\n%s", a, got)
				}
			}
		})
	}
}

const separatorAttr = `class="breadcrumb-separator"`

func TestRenderWithRenderer(t *testing.T) {
	list := breadcrumb.Split("/menu/products")
	renderer := func(seg breadcrumb.Segment) *vdom.VNode {
		if seg.Key == breadcrumb.HomeKey {
			return nil
		}
		return vdom.Li(seg.DisplayName)
	}

	got := vtest.RenderToString(breadcrumb.Render(list, "/menu/products",
		breadcrumb.WithRenderer(renderer),
		breadcrumb.WithSeparator("|"),
	))
	want := `<nav aria-label="breadcrumb" class="breadcrumb"><li>Menu</li>` +
		`<span aria-hidden="true" class="breadcrumb-separator">|</span><li>Products</li></nav>`
	if got != want {
		t.Errorf("html =\n  %s\nwant\n  %s", got, want)
	}
}

func TestRenderContent(t *testing.T) {
	list := breadcrumb.Split("/menu")
	list[1].Content = vdom.Span(vdom.Class("icon"), "Food")

	got := vtest.RenderToString(breadcrumb.Render(list, "/"))
	if !strings.Contains(got, `href="/menu"><span class="icon">Food</span></a>`) {
		t.Errorf("html = %s", got)
	}
}

func TestLink(t *testing.T) {
	seg := breadcrumb.Segment{Key: "/menu", DisplayName: "Menu", Href: "/menu"}

	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{"label", breadcrumb.Link(seg), `<a data-crumbs-link="true" href="/menu">Menu</a>`},
		{"attrs keep label", breadcrumb.Link(seg, vdom.Class("x")), `<a class="x" data-crumbs-link="true" href="/menu">Menu</a>`},
		{"children replace label", breadcrumb.Link(seg, "Go"), `<a data-crumbs-link="true" href="/menu">Go</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vtest.RenderToString(tt.node); got != tt.want {
				t.Errorf("html = %s, want %s", got, tt.want)
			}
		})
	}

	if breadcrumb.Link(breadcrumb.Segment{Key: "/x", DisplayName: "X"}) != nil {
		t.Error("Link() without href should render nothing")
	}
}

func TestSegmentLabel(t *testing.T) {
	seg := breadcrumb.Segment{DisplayName: "Menu"}
	if got := vtest.RenderToString(seg.Label()); got != "Menu" {
		t.Errorf("Label() = %q", got)
	}
}
