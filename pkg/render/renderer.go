package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Development only.
	Pretty bool

	// Indent is the string used per indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string
}

// Renderer renders VNode trees to HTML.
//
// Component nodes are rendered by calling Render directly. Trees that need
// owners, context and effects are expanded by pkg/server first.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	bw := bufio.NewWriter(w)
	if err := r.renderNode(bw, node, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func (r *Renderer) renderNode(w *bufio.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		_, err := w.WriteString(escapeHTML(node.Text))
		return err
	case vdom.KindRaw:
		_, err := w.WriteString(node.Text)
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	case vdom.KindComponent:
		if node.Comp == nil {
			return nil
		}
		return r.renderNode(w, node.Comp.Render(), depth)
	default:
		return fmt.Errorf("render: unknown node kind %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w *bufio.Writer, node *vdom.VNode, depth int) error {
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.WriteByte('<')
	w.WriteString(node.Tag)
	r.renderAttributes(w, node)
	w.WriteByte('>')

	if isVoidElement(node.Tag) {
		if r.config.Pretty {
			w.WriteByte('\n')
		}
		return nil
	}

	if rawTextElements[node.Tag] {
		for _, child := range node.Children {
			if child != nil && (child.Kind == vdom.KindText || child.Kind == vdom.KindRaw) {
				w.WriteString(child.Text)
			}
		}
	} else {
		block := r.config.Pretty && hasElementChildren(node)
		if block {
			w.WriteByte('\n')
		}
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
		}
		if block {
			r.writeIndent(w, depth)
		}
	}

	w.WriteString("</")
	w.WriteString(node.Tag)
	_, err := w.WriteString(">")
	if r.config.Pretty {
		w.WriteByte('\n')
	}
	return err
}

// renderAttributes writes attributes in sorted order for deterministic
// output. Keys starting with "_" are internal and skipped.
func (r *Renderer) renderAttributes(w *bufio.Writer, node *vdom.VNode) {
	if len(node.Props) == 0 {
		return
	}
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		if !strings.HasPrefix(key, "_") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		if isBooleanAttr(key) {
			if b, ok := value.(bool); ok {
				if b {
					w.WriteByte(' ')
					w.WriteString(key)
				}
				continue
			}
		}
		s := attrToString(value)
		if s == "" {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(key)
		w.WriteString(`="`)
		w.WriteString(escapeAttr(s))
		w.WriteByte('"')
	}
}

func hasElementChildren(node *vdom.VNode) bool {
	for _, c := range node.Children {
		if c != nil && c.Kind != vdom.KindText {
			return true
		}
	}
	return false
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (r *Renderer) writeIndent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(r.config.Indent)
	}
}
