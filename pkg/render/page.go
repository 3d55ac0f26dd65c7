package render

import (
	"io"

	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// PageData contains what is needed to render a complete HTML document.
type PageData struct {
	// Title is the document title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Body is the page content.
	Body *vdom.VNode

	// Styles are inline CSS blocks placed in the head.
	Styles []string

	// Scripts are inline scripts placed at the end of the body.
	Scripts []string
}

// RenderPage renders a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	head := vdom.Head(
		vdom.Meta(vdom.Charset("utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
		vdom.Title(page.Title),
	)
	for _, css := range page.Styles {
		head.Children = append(head.Children, vdom.Style(vdom.Raw(css)))
	}

	body := vdom.Body(page.Body)
	for _, js := range page.Scripts {
		body.Children = append(body.Children, vdom.Script(vdom.Raw(js)))
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return r.RenderToWriter(w, vdom.Html(vdom.Lang(lang), head, body))
}
