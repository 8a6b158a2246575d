package nestio

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/vivify/pkg/nested"
)

// ToDOT converts m to Graphviz DOT format. Every map and leaf becomes a node
// linked to its parent; leaves are drawn as plain boxes labelled
// "key = value", maps as rounded boxes labelled with their key.
func ToDOT[V any](m *nested.Map[string, V], opts WriteOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  n0 [label=%q, style=\"rounded,filled,bold\"];\n", opts.root())

	next := 1
	var edges []string
	var visit func(parent int, m *nested.Map[string, V])
	visit = func(parent int, m *nested.Map[string, V]) {
		for k, n := range m.All() {
			id := next
			next++
			edges = append(edges, fmt.Sprintf("  n%d -> n%d;\n", parent, id))
			if v, ok := n.Leaf(); ok {
				label := fmt.Sprintf("%s = %s", k, FormatValue(v))
				fmt.Fprintf(&buf, "  n%d [label=%q, style=filled, fillcolor=\"#f4f4f4\"];\n", id, label)
				continue
			}
			fmt.Fprintf(&buf, "  n%d [label=%q];\n", id, k)
			child, _ := n.Map()
			visit(id, child)
		}
	}
	visit(0, m)

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
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
	return fitViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// fitViewBox replaces Graphviz's pt-sized svg tag with one whose width and
// height match the viewBox, so the image scales in browsers.
func fitViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
