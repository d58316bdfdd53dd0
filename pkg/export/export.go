package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/mkordik/nodewire/pkg/nodewire"
	"github.com/mkordik/nodewire/pkg/observability"
)

// Options configures snapshot export.
type Options struct {
	// Detailed includes grid positions in node labels and pin names on
	// edges. When false, only the node keys are shown.
	Detailed bool
}

// ToDOT converts a graph snapshot to Graphviz DOT format. The resulting
// DOT string can be rendered with [RenderSVG] or saved for external
// Graphviz tools.
//
// Connections are emitted output to input, so the diagram reads in
// signal-flow direction.
func ToDOT(g *nodewire.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	g.Nodes(func(n *nodewire.Node) bool {
		label := fmtLabel(g, n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.UserID().String(), label)
		return true
	})

	buf.WriteString("\n")
	g.Connections(func(_ nodewire.ConnectionID, conn nodewire.Connection) bool {
		out, in := orient(conn)
		outNode, okA := g.Node(out.Node)
		inNode, okB := g.Node(in.Node)
		if !okA || !okB {
			return true
		}
		attrs := ""
		if opts.Detailed {
			outPin, _ := g.Pin(out)
			inPin, _ := g.Pin(in)
			attrs = fmt.Sprintf(" [taillabel=%q, headlabel=%q, fontsize=14]",
				outPin.UserID().String(), inPin.UserID().String())
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", outNode.UserID().String(), inNode.UserID().String(), attrs)
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

// orient returns the endpoints of conn with the output pin first.
func orient(conn nodewire.Connection) (out, in nodewire.PinRef) {
	if conn.A.Direction == nodewire.PinOutput {
		return conn.A, conn.B
	}
	return conn.B, conn.A
}

func fmtLabel(g *nodewire.Graph, n *nodewire.Node, detailed bool) string {
	if !detailed {
		return n.UserID().String()
	}
	parts := []string{fmt.Sprintf("grid: %.0f,%.0f", n.Root.X, n.Root.Y)}
	if g.IsNodeSelected(n.ID()) {
		parts = append(parts, "selected")
	}
	return n.UserID().String() + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	start := time.Now()
	observability.Export().OnExportStart(ctx, "svg")

	svg, err := renderSVG(ctx, dot)
	observability.Export().OnExportComplete(ctx, "svg", len(svg), time.Since(start), err)
	return svg, err
}

func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg tag to a zero-origin
// viewBox with explicit pixel dimensions, so the output embeds cleanly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
