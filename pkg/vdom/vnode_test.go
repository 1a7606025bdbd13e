package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElClassMerging(t *testing.T) {
	n := Div(Class("a"), Class("b", "c"), ID("x"))
	if got := n.Attr("class"); got != "a b c" {
		t.Errorf("class = %q, want %q", got, "a b c")
	}
	if !n.HasClass("b") || n.HasClass("d") {
		t.Errorf("HasClass mismatch for %q", n.Attr("class"))
	}
	if n.Attr("id") != "x" {
		t.Errorf("id = %q, want x", n.Attr("id"))
	}
}

func TestElChildrenHaveParent(t *testing.T) {
	child := Span("hi")
	root := Div(child, nil, []*VNode{P(), nil})

	if len(root.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(root.Children))
	}
	if child.Parent() != root {
		t.Error("child should point at root")
	}
	if child.Children[0].Kind != KindText {
		t.Error("string argument should become a text node")
	}
}

func TestData(t *testing.T) {
	n := Button(Data("viewlet", "settings"))
	if got := n.Data("viewlet"); got != "settings" {
		t.Errorf("Data(viewlet) = %q, want settings", got)
	}
	if got := n.Data("missing"); got != "" {
		t.Errorf("Data(missing) = %q, want empty", got)
	}
}

func TestTextContent(t *testing.T) {
	n := Div(H1("Title"), P("a", Span("b")))
	if got := n.TextContent(); got != "Titleab" {
		t.Errorf("TextContent() = %q, want Titleab", got)
	}
}

func TestSetAttrNilRemoves(t *testing.T) {
	n := Div(ID("x"))
	n.SetAttr("id", nil)
	if _, ok := n.GetAttr("id"); ok {
		t.Error("id should be removed")
	}
}
