// Package vdom provides the in-memory node tree that view containers render
// into.
//
// The tree stands in for the browser DOM: nodes are created from markup or
// from factory functions, attached and detached, shown and hidden, and
// queried with a small CSS selector subset. Every node knows its parent, so
// a subtree can be detached from wherever it currently lives.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text and
// raw HTML. Props holds attributes. Attr is used to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// or parsed from markup:
//
//	node, err := Parse(`<div class="viewlet-wrapper" style="display:none"></div>`)
//
// # Mutation
//
// AppendChild, SetChildren, SetHTML, Remove and Destroy mirror the DOM
// operations a view container needs. Hide and Show toggle a display:none
// declaration in the style attribute.
//
// # Queries
//
// Query and QueryAll accept tag, #id, .class, [attr] and [attr=value]
// simple selectors, combined into compounds and joined by the descendant
// combinator (whitespace). Comma-separated selector groups are supported.
package vdom
