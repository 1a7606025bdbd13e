package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element with the given tag.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string.
// Strings become text children.
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.applyAttr(v)
		case []Attr:
			for _, a := range v {
				node.applyAttr(a)
			}
		case *VNode:
			if v != nil {
				node.AppendChild(v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.AppendChild(c)
				}
			}
		case string:
			node.AppendChild(Text(v))
		}
	}

	return node
}

// applyAttr merges class values and overwrites everything else.
func (v *VNode) applyAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	if a.Key == "class" {
		if existing := v.Attr("class"); existing != "" {
			if s := attrString(a.Value); s != "" {
				v.Props["class"] = existing + " " + s
			}
			return
		}
	}
	v.Props[a.Key] = a.Value
}

// Document structure

// Div creates a <div> element.
func Div(args ...any) *VNode { return El("div", args...) }

// Span creates a <span> element.
func Span(args ...any) *VNode { return El("span", args...) }

// Section creates a <section> element.
func Section(args ...any) *VNode { return El("section", args...) }

// Nav creates a <nav> element.
func Nav(args ...any) *VNode { return El("nav", args...) }

// Text content

// P creates a <p> element.
func P(args ...any) *VNode { return El("p", args...) }

// H1 creates an <h1> element.
func H1(args ...any) *VNode { return El("h1", args...) }

// H2 creates an <h2> element.
func H2(args ...any) *VNode { return El("h2", args...) }

// Lists

// Ul creates a <ul> element.
func Ul(args ...any) *VNode { return El("ul", args...) }

// Li creates an <li> element.
func Li(args ...any) *VNode { return El("li", args...) }

// Dl creates a <dl> element.
func Dl(args ...any) *VNode { return El("dl", args...) }

// Dt creates a <dt> element.
func Dt(args ...any) *VNode { return El("dt", args...) }

// Dd creates a <dd> element.
func Dd(args ...any) *VNode { return El("dd", args...) }

// Interactive

// A creates an <a> element.
func A(args ...any) *VNode { return El("a", args...) }

// Button creates a <button> element.
func Button(args ...any) *VNode { return El("button", args...) }

// Input creates an <input> element.
func Input(args ...any) *VNode { return El("input", args...) }
