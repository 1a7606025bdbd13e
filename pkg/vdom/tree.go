package vdom

import "strings"

// AppendChild attaches child as the last child of v.
// A child that is attached elsewhere is detached first.
func (v *VNode) AppendChild(child *VNode) {
	if v == nil || child == nil {
		return
	}
	child.Remove()
	child.parent = v
	v.Children = append(v.Children, child)
}

// SetChildren replaces every child of v with children.
// The previous children are detached but not destroyed.
func (v *VNode) SetChildren(children ...*VNode) {
	if v == nil {
		return
	}
	for _, c := range v.Children {
		c.parent = nil
	}
	v.Children = nil
	for _, c := range children {
		if c != nil {
			v.AppendChild(c)
		}
	}
}

// SetHTML parses markup and replaces the children of v with the result.
func (v *VNode) SetHTML(markup string) error {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return err
	}
	v.SetChildren(nodes...)
	return nil
}

// Remove detaches v from its parent. It is a no-op for detached nodes.
func (v *VNode) Remove() *VNode {
	if v == nil || v.parent == nil {
		return v
	}
	p := v.parent
	for i, c := range p.Children {
		if c == v {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	v.parent = nil
	return v
}

// Destroy detaches v and recursively tears down its subtree.
// A destroyed node has no children, no attributes and no parent.
func (v *VNode) Destroy() {
	if v == nil {
		return
	}
	v.Remove()
	for _, c := range v.Children {
		c.parent = nil
		c.Destroy()
	}
	v.Children = nil
	v.Props = nil
}

// Contains reports whether other is v or one of its descendants.
func (v *VNode) Contains(other *VNode) bool {
	for n := other; n != nil; n = n.parent {
		if n == v {
			return true
		}
	}
	return false
}

// Walk calls fn for v and each descendant in document order.
// Returning false from fn skips the node's subtree.
func (v *VNode) Walk(fn func(*VNode) bool) {
	if v == nil {
		return
	}
	if !fn(v) {
		return
	}
	for _, c := range v.Children {
		c.Walk(fn)
	}
}

// Hide adds a display:none declaration to the node's style.
func (v *VNode) Hide() {
	if v == nil || v.Kind != KindElement {
		return
	}
	decls := styleDecls(v.Attr("style"))
	decls = append(decls, "display:none")
	v.SetAttr("style", strings.Join(decls, ";"))
}

// Show removes any display:none declaration and the hidden attribute.
func (v *VNode) Show() {
	if v == nil || v.Kind != KindElement {
		return
	}
	decls := styleDecls(v.Attr("style"))
	if len(decls) == 0 {
		delete(v.Props, "style")
	} else {
		v.SetAttr("style", strings.Join(decls, ";"))
	}
	delete(v.Props, "hidden")
}

// Visible reports whether the node itself is not hidden.
func (v *VNode) Visible() bool {
	if v == nil {
		return false
	}
	if _, hidden := v.Props["hidden"]; hidden {
		return false
	}
	for _, d := range strings.Split(v.Attr("style"), ";") {
		if isDisplayNone(d) {
			return false
		}
	}
	return true
}

// styleDecls splits a style attribute, dropping blanks and display:none.
func styleDecls(style string) []string {
	var out []string
	for _, d := range strings.Split(style, ";") {
		d = strings.TrimSpace(d)
		if d == "" || isDisplayNone(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func isDisplayNone(decl string) bool {
	prop, val, ok := strings.Cut(decl, ":")
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(prop), "display") &&
		strings.EqualFold(strings.TrimSpace(val), "none")
}
