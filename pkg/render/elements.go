package render

import "github.com/vango-dev/crumbtrail/pkg/vdom"

// isVoidElement returns true if the tag has no closing tag.
func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}

// booleanAttrs are rendered as a bare name when true and omitted when false.
var booleanAttrs = map[string]bool{
	"async":    true,
	"checked":  true,
	"defer":    true,
	"disabled": true,
	"hidden":   true,
	"open":     true,
	"readonly": true,
	"required": true,
	"selected": true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

// rawTextElements hold text that must not be entity-escaped.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}
