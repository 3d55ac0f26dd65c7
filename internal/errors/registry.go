package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Composition errors (E100-E199)
	"E101": {
		Category:   CategoryConfig,
		Message:    "Breadcrumb scope not found",
		Detail:     "A breadcrumb component was rendered outside of breadcrumb.Provider, so there is no store to read from or merge into.",
		Suggestion: "Render the component below breadcrumb.Provider(breadcrumb.Config{}, ...).",
	},

	// Runtime errors (E200-E299)
	"E201": {
		Category:   CategoryRuntime,
		Message:    "Render did not settle",
		Detail:     "Effects kept changing signals that the tree reads, so the render loop hit its pass limit.",
		Suggestion: "Make sure effects do not write a new value on every run.",
	},
	"E202": {
		Category: CategoryRuntime,
		Message:  "Component panicked during render",
	},
	"E203": {
		Category: CategoryRuntime,
		Message:  "Tree is disposed",
		Detail:   "The mounted tree was disposed and can no longer render or navigate.",
	},

	// Configuration errors (E300-E399)
	"E301": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Check crumbs.json or crumbs.yaml against the documented fields.",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
	},

	// Protocol errors (E400-E499)
	"E401": {
		Category: CategoryProtocol,
		Message:  "Invalid navigation path",
		Detail:   "Navigation targets must be relative paths starting with /.",
	},
	"E402": {
		Category: CategoryProtocol,
		Message:  "Malformed live message",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
