package vdom

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/viewlets/internal/errors"
)

func TestParse(t *testing.T) {
	n, err := Parse(`
		<div class="viewlet-wrapper" style="display:none"><span data-bind="name">wp</span></div>
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Tag != "div" || !n.HasClass("viewlet-wrapper") {
		t.Errorf("unexpected root %s.%s", n.Tag, n.Attr("class"))
	}
	if n.Visible() {
		t.Error("display:none should be preserved")
	}
	if n.Attached() {
		t.Error("parsed root should be detached")
	}
	span := n.Children[0]
	if span.Data("bind") != "name" || span.TextContent() != "wp" {
		t.Errorf("unexpected child %+v", span)
	}
	if span.Parent() != n {
		t.Error("child parent pointer not set")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"empty", ""},
		{"text only", "hello"},
		{"two roots", "<p></p><p></p>"},
		{"element plus text", "<p></p>tail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.markup)
			if !stderrors.Is(err, errors.New("V032")) {
				t.Errorf("Parse(%q) err = %v, want V032", tt.markup, err)
			}
		})
	}
}

func TestParseFragmentDecodesEntities(t *testing.T) {
	nodes, err := ParseFragment(`a &amp; b<!-- gone -->`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Text != "a & b" {
		t.Errorf("nodes = %+v, want single text 'a & b'", nodes)
	}
}
