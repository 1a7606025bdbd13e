package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindRaw                  // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node in the tree.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Text     string   // For KindText and KindRaw

	parent *VNode
}

// Props holds attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Parent returns the node this node is attached to, or nil.
func (v *VNode) Parent() *VNode {
	if v == nil {
		return nil
	}
	return v.parent
}

// Attached reports whether the node currently has a parent.
func (v *VNode) Attached() bool {
	return v != nil && v.parent != nil
}

// GetAttr returns the string value of an attribute.
func (v *VNode) GetAttr(key string) (string, bool) {
	if v == nil || v.Props == nil {
		return "", false
	}
	val, ok := v.Props[key]
	if !ok || val == nil {
		return "", false
	}
	return attrString(val), true
}

// Attr returns the string value of an attribute, or "" if unset.
func (v *VNode) Attr(key string) string {
	s, _ := v.GetAttr(key)
	return s
}

// SetAttr sets an attribute. A nil value removes it.
func (v *VNode) SetAttr(key string, value any) {
	if value == nil {
		delete(v.Props, key)
		return
	}
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[key] = value
}

// Data returns the value of the data-<key> attribute.
func (v *VNode) Data(key string) string {
	return v.Attr("data-" + key)
}

// HasClass reports whether the class attribute contains name.
func (v *VNode) HasClass(name string) bool {
	for _, c := range strings.Fields(v.Attr("class")) {
		if c == name {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of the node and its descendants.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case KindText, KindRaw:
		return v.Text
	}
	var b strings.Builder
	for _, c := range v.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// attrString converts an attribute value to a string.
func attrString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
