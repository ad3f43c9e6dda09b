package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/block"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Detailed adds the handle, line and flags to every label.
	// When false, containers show their kind and leaves their text.
	Detailed bool
}

// ToDOT converts the block tree of s to Graphviz DOT. Every container
// becomes a cluster and every text block a node; the text blocks of a row
// are chained left to right with invisible edges.
//
// Folded containers are drawn as a single dashed node holding the summary.
func ToDOT(s *block.Session, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=14];\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	writeBlock(&buf, s, s.Root(), opts, 1)

	buf.WriteString("\n")
	for _, row := range Rows(s) {
		for i := 1; i < len(row); i++ {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n", nodeID(row[i-1].Handle()), nodeID(row[i].Handle()))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeBlock(buf *bytes.Buffer, s *block.Session, h arena.Handle, opts DOTOptions, depth int) {
	b, err := s.Block(h)
	if err != nil || b.Hidden() {
		return
	}
	indent := strings.Repeat("  ", depth)
	label := fmtLabel(b, opts.Detailed)

	if b.IsTextBlock() {
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, nodeID(h), strings.Join(fmtAttrs(b, label), ", "))
		return
	}

	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+h.String())
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, label)
	if b.Showing() {
		fmt.Fprintf(buf, "%s  style=\"rounded,bold\";\n", indent)
	} else {
		fmt.Fprintf(buf, "%s  style=rounded;\n", indent)
	}
	for _, c := range b.Children() {
		writeBlock(buf, s, c, opts, depth+1)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func nodeID(h arena.Handle) string { return "b" + h.String() }

func fmtLabel(b *block.Block, detailed bool) string {
	label := b.Kind().String()
	if b.IsTextBlock() {
		label = b.Text()
		if label == "" {
			label = "⏎"
		}
	}
	if !detailed {
		return label
	}

	parts := []string{b.Handle().String(), fmt.Sprintf("line: %d", b.Line())}
	if b.Folded() {
		parts = append(parts, "folded")
	}
	if b.Edited() {
		parts = append(parts, "edited")
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(b *block.Block, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case b.Folded():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case b.Showing():
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
