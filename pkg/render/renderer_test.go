package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/viewlets/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	html := HTML(vdom.Text("<script>alert('xss')</script>"))

	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	node := vdom.Div(vdom.Class("container"),
		vdom.H1(vdom.Text("Title")),
		vdom.P(vdom.Text("Content")),
	)
	html := HTML(node)

	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributes(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "sorted keys",
			node: vdom.Div(vdom.ID("b"), vdom.Class("a"), vdom.Data("viewlet", "x")),
			want: `<div class="a" data-viewlet="x" id="b"></div>`,
		},
		{
			name: "void element",
			node: vdom.Input(vdom.Type("text"), vdom.Name("email")),
			want: `<input name="email" type="text">`,
		},
		{
			name: "boolean attribute",
			node: vdom.Div(vdom.Hidden()),
			want: `<div hidden></div>`,
		},
		{
			name: "parsed boolean attribute",
			node: vdom.MustParse(`<div hidden></div>`),
			want: `<div hidden></div>`,
		},
		{
			name: "escaped attribute value",
			node: vdom.Div(vdom.Data("x", "a\"b\nc")),
			want: `<div data-x="a&quot;b&#10;c"></div>`,
		},
		{
			name: "internal props skipped",
			node: &vdom.VNode{Kind: vdom.KindElement, Tag: "div", Props: vdom.Props{"_owner": "x", "id": "y"}},
			want: `<div id="y"></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTML(tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderRaw(t *testing.T) {
	if got := HTML(vdom.Div(vdom.Raw("<b>x</b>"))); got != "<div><b>x</b></div>" {
		t.Errorf("raw content should be written verbatim, got %q", got)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	markup := `<div class="viewlet-wrapper" style="display:none"><span data-bind="name">a &amp; b</span></div>`
	node, err := vdom.Parse(markup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := HTML(node); got != markup {
		t.Errorf("round trip = %q, want %q", got, markup)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})
	html, err := renderer.RenderToString(vdom.Div(vdom.P("x")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<div>\n  <p>x</p>\n</div>\n"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderNil(t *testing.T) {
	if got := HTML(nil); got != "" {
		t.Errorf("HTML(nil) = %q, want empty", got)
	}
}
