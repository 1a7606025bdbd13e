package vdom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/viewlets/internal/errors"
)

// bodyContext is the context element markup fragments are parsed in.
var bodyContext = &html.Node{
	Type:     html.ElementNode,
	Data:     "body",
	DataAtom: atom.Body,
}

// ParseFragment parses markup into a list of detached nodes.
// Comments and doctype declarations are dropped.
func ParseFragment(markup string) ([]*VNode, error) {
	parsed, err := html.ParseFragment(strings.NewReader(markup), bodyContext)
	if err != nil {
		return nil, errors.New("V032").Wrap(err)
	}
	nodes := make([]*VNode, 0, len(parsed))
	for _, n := range parsed {
		if v := fromHTML(n); v != nil {
			nodes = append(nodes, v)
		}
	}
	return nodes, nil
}

// Parse parses markup that describes exactly one element.
// Whitespace-only text around the element is ignored.
func Parse(markup string) (*VNode, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	var root *VNode
	for _, n := range nodes {
		if n.Kind == KindText && strings.TrimSpace(n.Text) == "" {
			continue
		}
		if n.Kind != KindElement || root != nil {
			return nil, errors.New("V032").WithSubject(truncate(markup, 40))
		}
		root = n
	}
	if root == nil {
		return nil, errors.New("V032").WithSubject(truncate(markup, 40))
	}
	root.parent = nil
	return root, nil
}

// MustParse is like Parse but panics on error.
// Use it only for markup known at compile time.
func MustParse(markup string) *VNode {
	n, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return n
}

// fromHTML converts a parsed html.Node into a VNode subtree.
func fromHTML(n *html.Node) *VNode {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		el := &VNode{
			Kind:  KindElement,
			Tag:   n.Data,
			Props: make(Props, len(n.Attr)),
		}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			el.Props[key] = a.Val
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				el.AppendChild(child)
			}
		}
		return el
	default:
		return nil
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
