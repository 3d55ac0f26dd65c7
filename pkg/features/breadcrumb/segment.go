package breadcrumb

import (
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// HomeKey is the key of the synthetic home entry.
const HomeKey = ""

// Segment is one entry of a breadcrumb trail.
type Segment struct {
	// Key identifies the segment. It equals Href for path segments and
	// HomeKey for the home entry.
	Key string `json:"key"`

	// DisplayName is the human-readable label.
	DisplayName string `json:"displayName"`

	// Href is the cumulative path up to and including this segment.
	Href string `json:"href"`

	// Content replaces DisplayName when set.
	Content *vdom.VNode `json:"-"`
}

// Label returns Content when set, otherwise DisplayName as text.
func (s Segment) Label() *vdom.VNode {
	if s.Content != nil {
		return s.Content
	}
	return vdom.Text(s.DisplayName)
}

// List is an ordered breadcrumb trail with unique keys.
type List []Segment

// Index returns the position of key in l, or -1.
func (l List) Index(key string) int {
	for i := range l {
		if l[i].Key == key {
			return i
		}
	}
	return -1
}

// Find returns the segment with the given key.
func (l List) Find(key string) (Segment, bool) {
	if i := l.Index(key); i >= 0 {
		return l[i], true
	}
	return Segment{}, false
}

// Keys returns the keys of l in order.
func (l List) Keys() []string {
	keys := make([]string, len(l))
	for i := range l {
		keys[i] = l[i].Key
	}
	return keys
}

// Clone returns a copy of l that shares no backing array with it.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Equal reports whether l and other hold the same segments. Content nodes
// compare by identity.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Override carries the fields a descendant wants to replace on the segment
// with the same Key. Empty fields are left alone.
type Override struct {
	Key         string
	DisplayName string
	Href        string
	Content     *vdom.VNode
}

// Apply returns seg with the set fields of o on top.
func (o Override) Apply(seg Segment) Segment {
	if o.DisplayName != "" {
		seg.DisplayName = o.DisplayName
	}
	if o.Href != "" {
		seg.Href = o.Href
	}
	if o.Content != nil {
		seg.Content = o.Content
	}
	return seg
}
