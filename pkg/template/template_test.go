package template

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/vango-dev/viewlets/internal/errors"
)

func TestHTMLEngineCompileExecute(t *testing.T) {
	e := NewHTMLEngine()

	tmpl, err := e.Compile(`<div class="name">{{.name}}</div>`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, err := tmpl.Execute(map[string]any{"name": "wordpress"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != `<div class="name">wordpress</div>` {
		t.Errorf("got %q", got)
	}
	if e.Compiled() != 1 {
		t.Errorf("Compiled() = %d, want 1", e.Compiled())
	}
}

func TestHTMLEngineEscapes(t *testing.T) {
	tmpl, err := NewHTMLEngine().Compile(`<p>{{.v}}</p>`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, _ := tmpl.Execute(map[string]any{"v": "<b>"})
	if strings.Contains(got, "<b>") {
		t.Errorf("value should be escaped, got %q", got)
	}
}

func TestHTMLEngineMissingKey(t *testing.T) {
	tmpl, err := NewHTMLEngine().Compile(`<p>{{.missing}}</p>`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, err := tmpl.Execute(map[string]any{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "<p></p>" {
		t.Errorf("got %q, want empty paragraph", got)
	}
}

func TestHTMLEngineFuncs(t *testing.T) {
	tmpl, err := NewHTMLEngine().Compile(`{{upper .a}} {{default "n/a" .b}}`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, _ := tmpl.Execute(map[string]any{"a": "x"})
	if got != "X n/a" {
		t.Errorf("got %q, want %q", got, "X n/a")
	}
}

func TestHTMLEngineDelims(t *testing.T) {
	e := NewHTMLEngine()
	e.LeftDelim, e.RightDelim = "[[", "]]"
	tmpl, err := e.Compile(`<p>[[.a]] {{x}}</p>`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got, _ := tmpl.Execute(map[string]any{"a": "1"})
	if got != "<p>1 {{x}}</p>" {
		t.Errorf("got %q", got)
	}
}

func TestCompileError(t *testing.T) {
	_, err := NewHTMLEngine().Compile(`{{.a`)
	if !stderrors.Is(err, errors.New("V030")) {
		t.Errorf("err = %v, want V030", err)
	}
}

func TestSource(t *testing.T) {
	pre := Static("<p>static</p>")

	tests := []struct {
		name         string
		in           any
		ok           bool
		wantCompiled bool
	}{
		{"text", "<p></p>", true, false},
		{"template", pre, true, true},
		{"func", func(map[string]any) (string, error) { return "", nil }, true, true},
		{"source", Text("x"), true, false},
		{"int", 3, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := From(tt.in)
			if ok != tt.ok {
				t.Fatalf("From ok = %v, want %v", ok, tt.ok)
			}
			if s.IsCompiled() != tt.wantCompiled {
				t.Errorf("IsCompiled() = %v, want %v", s.IsCompiled(), tt.wantCompiled)
			}
		})
	}

	tmpl, err := Compiled(pre).Compile(nil)
	if err != nil || tmpl != pre {
		t.Errorf("compiled source should return itself, got %v %v", tmpl, err)
	}
	if !(Source{}).IsZero() {
		t.Error("zero Source should report IsZero")
	}
}
