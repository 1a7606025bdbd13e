package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (V001-V019)
	// ============================================

	"V001": {
		Category: CategoryConfig,
		Message:  "No viewlets configured",
		Detail:   "A view container needs at least one viewlet descriptor to build from.",
	},
	"V002": {
		Category: CategoryConfig,
		Message:  "No model supplied",
		Detail:   "A view container renders a single record and cannot be built without one.",
	},
	"V003": {
		Category: CategoryConfig,
		Message:  "Invalid viewlet override",
		Detail:   "A viewlet configuration value has the wrong type for its key.",
	},
	"V004": {
		Category: CategoryConfig,
		Message:  "Invalid layout file",
		Detail:   "The layout file could not be read or does not describe a usable container.",
	},
	"V005": {
		Category: CategoryConfig,
		Message:  "Insertion point not found",
		Detail:   "The viewlet insertion selector did not match any node in the rendered main template.",
	},
	"V006": {
		Category: CategoryConfig,
		Message:  "Invalid container template",
		Detail:   "The main template must be markup text or a compiled template.",
	},
	"V007": {
		Category: CategoryConfig,
		Message:  "Unknown viewlet in render order",
		Detail:   "Every name in the render order must match a configured viewlet.",
	},
	"V008": {
		Category: CategoryConfig,
		Message:  "Duplicate viewlet name",
		Detail:   "Two viewlet entries resolve to the same name. Bindings and slots are keyed by name, so names must be unique.",
	},

	// ============================================
	// Lookup Errors (V020-V029)
	// ============================================

	"V020": {
		Category: CategoryLookup,
		Message:  "Viewlet not found",
		Detail:   "Only viewlets named in the container configuration can be shown.",
	},
	"V021": {
		Category: CategoryLookup,
		Message:  "Slot not registered",
		Detail:   "The viewlet declares a slot that is missing from the container's slot map.",
	},
	"V022": {
		Category: CategoryLookup,
		Message:  "Slot target not found",
		Detail:   "The slot's selector did not match any node under the container root.",
	},
	"V023": {
		Category: CategoryLookup,
		Message:  "Event carries no viewlet name",
		Detail:   "Delegated events used to switch viewlets must originate from a node with a data-viewlet attribute.",
	},

	// ============================================
	// Render Errors (V030-V039)
	// ============================================

	"V030": {
		Category: CategoryRender,
		Message:  "Template compilation failed",
	},
	"V031": {
		Category: CategoryRender,
		Message:  "Viewlet render failed",
	},
	"V032": {
		Category: CategoryRender,
		Message:  "Invalid markup",
		Detail:   "Rendered markup must produce exactly one element node.",
	},
	"V033": {
		Category: CategoryRender,
		Message:  "Unsupported render result",
		Detail:   "Render must return a *vdom.VNode, a markup string, or nil after setting the viewlet container.",
	},

	// ============================================
	// Lifecycle Errors (V040-V049)
	// ============================================

	"V040": {
		Category: CategoryLifecycle,
		Message:  "Container not rendered",
		Detail:   "Render must complete before viewlets can be shown or slots filled.",
	},
	"V041": {
		Category: CategoryLifecycle,
		Message:  "Container destroyed",
		Detail:   "A destroyed container is inert and cannot be reused; build a new one.",
	},

	// ============================================
	// Transport Errors (V060-V069)
	// ============================================

	"V060": {
		Category: CategoryTransport,
		Message:  "Invalid session message",
	},
	"V061": {
		Category: CategoryTransport,
		Message:  "Session closed",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
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
