// Package template compiles the markup templates used by viewlets and view
// containers.
//
// The contract is compile(source) → render(data) → markup. The default
// engine is html/template with the data map exposed at the root, so
// "{{.name}}" renders the record's name attribute. Pre-compiled templates
// can be supplied as a Func.
package template

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	"sync/atomic"

	"github.com/vango-dev/viewlets/internal/errors"
)

// Template renders data into markup.
type Template interface {
	Execute(data map[string]any) (string, error)
}

// Func adapts a plain function to Template.
type Func func(data map[string]any) (string, error)

// Execute implements Template.
func (f Func) Execute(data map[string]any) (string, error) {
	return f(data)
}

// Static is a template that always renders the same markup.
type Static string

// Execute implements Template.
func (s Static) Execute(map[string]any) (string, error) {
	return string(s), nil
}

// Engine compiles template source.
type Engine interface {
	Compile(source string) (Template, error)
}

// HTMLEngine compiles templates with html/template.
type HTMLEngine struct {
	// Funcs are added to every compiled template.
	Funcs htmltemplate.FuncMap

	// Delims overrides the action delimiters when both are set.
	LeftDelim, RightDelim string

	// compiled counts successful compilations.
	compiled atomic.Int64
}

// Default is the engine used when none is configured.
var Default Engine = NewHTMLEngine()

// NewHTMLEngine creates an engine with the built-in helper functions.
func NewHTMLEngine() *HTMLEngine {
	return &HTMLEngine{
		Funcs: htmltemplate.FuncMap{
			"join":  strings.Join,
			"lower": strings.ToLower,
			"upper": strings.ToUpper,
			"default": func(def, v any) any {
				if v == nil || v == "" {
					return def
				}
				return v
			},
		},
	}
}

// Compile implements Engine.
func (e *HTMLEngine) Compile(source string) (Template, error) {
	t := htmltemplate.New("viewlet").Option("missingkey=zero").Funcs(e.Funcs)
	if e.LeftDelim != "" && e.RightDelim != "" {
		t = t.Delims(e.LeftDelim, e.RightDelim)
	}
	parsed, err := t.Parse(source)
	if err != nil {
		return nil, errors.New("V030").Wrap(err)
	}
	e.compiled.Add(1)
	return &htmlTemplate{t: parsed}, nil
}

// Compiled returns how many templates the engine has compiled.
func (e *HTMLEngine) Compiled() int64 {
	return e.compiled.Load()
}

type htmlTemplate struct {
	t *htmltemplate.Template
}

func (h *htmlTemplate) Execute(data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := h.t.Execute(&buf, data); err != nil {
		return "", errors.New("V031").Wrap(err)
	}
	return buf.String(), nil
}

// Source is either template source text or a compiled Template.
// The zero value renders nothing.
type Source struct {
	text     string
	compiled Template
}

// Text wraps template source text.
func Text(src string) Source { return Source{text: src} }

// Compiled wraps an already compiled template.
func Compiled(t Template) Source { return Source{compiled: t} }

// From converts a configuration value into a Source. It accepts a string,
// a Template, a func(map[string]any) (string, error) or a Source.
func From(v any) (Source, bool) {
	switch t := v.(type) {
	case Source:
		return t, true
	case string:
		return Text(t), true
	case Template:
		return Compiled(t), true
	case func(map[string]any) (string, error):
		return Compiled(Func(t)), true
	default:
		return Source{}, false
	}
}

// IsCompiled reports whether the source no longer needs compiling.
func (s Source) IsCompiled() bool { return s.compiled != nil }

// IsZero reports whether the source is empty.
func (s Source) IsZero() bool { return s.compiled == nil && s.text == "" }

// String returns the source text, or "" for compiled templates.
func (s Source) String() string { return s.text }

// Compile returns the compiled template, compiling text with e.
// A nil engine falls back to Default.
func (s Source) Compile(e Engine) (Template, error) {
	if s.compiled != nil {
		return s.compiled, nil
	}
	if e == nil {
		e = Default
	}
	return e.Compile(s.text)
}
