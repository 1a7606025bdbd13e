package vdom

import (
	"strings"

	"github.com/vango-dev/viewlets/internal/errors"
)

// Selector is a compiled selector group.
type Selector struct {
	groups [][]compound // comma-separated alternatives, each a descendant chain
	source string
}

// compound is a sequence of simple selectors matching one element.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	key      string
	value    string
	hasValue bool
}

// CompileSelector parses a selector.
func CompileSelector(sel string) (*Selector, error) {
	s := &Selector{source: sel}
	for _, group := range strings.Split(sel, ",") {
		fields := strings.Fields(group)
		if len(fields) == 0 {
			return nil, invalidSelector(sel)
		}
		chain := make([]compound, 0, len(fields))
		for _, f := range fields {
			c, ok := parseCompound(f)
			if !ok {
				return nil, invalidSelector(sel)
			}
			chain = append(chain, c)
		}
		s.groups = append(s.groups, chain)
	}
	return s, nil
}

// MustCompileSelector is like CompileSelector but panics on error.
func MustCompileSelector(sel string) *Selector {
	s, err := CompileSelector(sel)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the selector source.
func (s *Selector) String() string { return s.source }

func invalidSelector(sel string) error {
	return errors.Newf(errors.CategoryConfig, "invalid selector").WithSubject(sel)
}

func parseCompound(s string) (compound, bool) {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune(".#[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && s[i] != '.' && s[i] != '#' && s[i] != '[' {
		c.tag = strings.ToLower(readIdent())
		if c.tag == "*" {
			c.tag = ""
		}
	}
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			name := readIdent()
			if name == "" {
				return c, false
			}
			c.classes = append(c.classes, name)
		case '#':
			i++
			name := readIdent()
			if name == "" {
				return c, false
			}
			c.id = name
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, false
			}
			body := s[i+1 : i+end]
			i += end + 1
			key, val, hasValue := strings.Cut(body, "=")
			key = strings.TrimSpace(key)
			if key == "" {
				return c, false
			}
			val = strings.Trim(strings.TrimSpace(val), `"'`)
			c.attrs = append(c.attrs, attrMatch{key: key, value: val, hasValue: hasValue})
		default:
			return c, false
		}
	}
	return c, true
}

func (c compound) matches(n *VNode) bool {
	if n == nil || n.Kind != KindElement {
		return false
	}
	if c.tag != "" && c.tag != n.Tag {
		return false
	}
	if c.id != "" && n.Attr("id") != c.id {
		return false
	}
	for _, cls := range c.classes {
		if !n.HasClass(cls) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := n.GetAttr(a.key)
		if !ok || (a.hasValue && v != a.value) {
			return false
		}
	}
	return true
}

// Matches reports whether n matches the selector. Ancestors above scope are
// not considered for descendant combinators.
func (s *Selector) Matches(n, scope *VNode) bool {
	for _, chain := range s.groups {
		if matchChain(chain, n, scope) {
			return true
		}
	}
	return false
}

func matchChain(chain []compound, n, scope *VNode) bool {
	last := len(chain) - 1
	if !chain[last].matches(n) {
		return false
	}
	i := last - 1
	for p := n.parent; i >= 0 && p != nil; p = p.parent {
		if p == scope {
			// scope itself may satisfy the leftmost compounds
			if chain[i].matches(p) {
				i--
			}
			break
		}
		if chain[i].matches(p) {
			i--
		}
	}
	return i < 0
}

// Query returns the first descendant of v matching sel, or nil.
// An invalid selector matches nothing.
func (v *VNode) Query(sel string) *VNode {
	s, err := CompileSelector(sel)
	if err != nil {
		return nil
	}
	return v.QuerySelector(s)
}

// QueryAll returns every descendant of v matching sel in document order.
func (v *VNode) QueryAll(sel string) []*VNode {
	s, err := CompileSelector(sel)
	if err != nil {
		return nil
	}
	return v.QuerySelectorAll(s)
}

// QuerySelector is Query for a compiled selector.
func (v *VNode) QuerySelector(s *Selector) *VNode {
	var found *VNode
	v.walkDescendants(func(n *VNode) bool {
		if found != nil {
			return false
		}
		if s.Matches(n, v) {
			found = n
			return false
		}
		return true
	})
	return found
}

// QuerySelectorAll is QueryAll for a compiled selector.
func (v *VNode) QuerySelectorAll(s *Selector) []*VNode {
	var out []*VNode
	v.walkDescendants(func(n *VNode) bool {
		if s.Matches(n, v) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (v *VNode) walkDescendants(fn func(*VNode) bool) {
	if v == nil {
		return
	}
	for _, c := range v.Children {
		c.Walk(fn)
	}
}
