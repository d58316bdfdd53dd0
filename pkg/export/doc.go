// Package export renders graph snapshots as node-link diagrams.
//
// # Overview
//
// This package produces directed diagrams of an editor graph using
// Graphviz: nodes appear as boxes connected by arrows running in
// signal-flow direction (output pin to input pin). It gives headless
// sessions and the CLI a way to persist what a graph looks like without
// a rasterizing host.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := export.ToDOT(g, export.Options{Detailed: false})
//	svg, err := export.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the grid position and
//     selection state, and edges carry their pin names.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses left-to-right layout (rankdir=LR), matching
// the editor's input-left, output-right pin columns.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package export
