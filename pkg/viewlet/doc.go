// Package viewlet defines the sub-view contract managed by a view container
// and the declarative configuration viewlets are built from.
//
// A Viewlet renders one view of a record into its own container node. Its
// behavior is the default set (wrapper node + compiled template) overlaid
// with per-instance overrides from configuration:
//
//	cfg := viewlet.Config{
//	    "details":  {"template": `<dl><dt>Name</dt><dd>{{.name}}</dd></dl>`},
//	    "settings": {"render": renderSettings, "slot": "overview"},
//	}
//	cfg.Expand()
//	v, err := viewlet.Build("settings", cfg["settings"], nil)
//
// Expand normalizes every plain override into a Descriptor so that values
// and their writability travel together. Build copies the defaults into a
// fresh struct and applies the descriptors; no state is shared between
// viewlets built from the same defaults.
package viewlet
