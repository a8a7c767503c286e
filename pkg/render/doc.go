// Package render turns a laid-out family tree into output artifacts.
//
// # Formats
//
//   - [RenderSVG] draws person boxes, parent-child connectors, and dashed
//     spouse links from the coordinates assigned by [layout.Tidy].
//   - [ToDOT] writes a Graphviz description of the same tree, which
//     [RenderDOT] lays out and renders with the embedded Graphviz library.
//   - [ToPDF] and [ToPNG] convert any SVG via the external rsvg-convert
//     tool (from librsvg).
//   - [MarshalTree] serializes the positioned tree as JSON for API clients.
//
// # Synthetic root
//
// Trees merged from ancestor and descendant expansions are joined under a
// synthetic root. Every renderer skips that node and the connectors leading
// to its direct children.
//
// # Usage
//
//	root, _ := tree.Build(data, focus, tree.DefaultOptions())
//	layout.Tidy(root, layout.DefaultOptions())
//	svg := render.RenderSVG(root, render.WithFocus(focus))
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
