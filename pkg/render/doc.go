// Package render serializes vdom trees to HTML.
//
// It is the outbound half of the node substrate: view containers build and
// mutate vdom trees, and render turns a root (or any subtree, such as a
// single viewlet's container) back into markup for the CLI, the HTTP host
// and websocket pushes.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// All text content and attribute values are escaped. Raw nodes are written
// verbatim and should only carry trusted content.
package render
