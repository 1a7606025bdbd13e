package vdom

import "strings"

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute. Applying Class to a node that already
// has classes appends to them.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
// Example: Data("viewlet", "settings") → data-viewlet="settings"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Hidden sets the boolean hidden attribute. It is unrelated to Hide, which
// toggles display:none in the style attribute.
func Hidden() Attr { return attr("hidden", true) }
