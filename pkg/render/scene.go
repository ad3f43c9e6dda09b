package render

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/matzehuels/blocktree/pkg/block"
	"github.com/matzehuels/blocktree/pkg/geom"
)

const sceneCSS = `
    .frame { fill: none; stroke-width: 1; }
    .frame.selected { stroke-width: 2; }
    .leaf { font-family: monospace; font-size: 13px; white-space: pre; }
    .control { fill: white; stroke: #888; }`

// SceneOptions configures [SceneSVG].
type SceneOptions struct {
	// Frames draws the frame of every container, not only the showing ones.
	Frames bool
	// Padding is added around the scene bounds.
	Padding float64
}

// SceneSVG draws the laid-out scene of s as SVG: container frames, leaf
// text at its layout position and fold controls. Blocks are painted in
// paint order, so a dragged block is drawn on top.
func SceneSVG(s *block.Session, opts SceneOptions) []byte {
	var live []*block.Block
	var bounds geom.Rect
	for _, h := range s.Blocks() {
		b, err := s.Block(h)
		if err != nil || b.Hidden() {
			continue
		}
		live = append(live, b)
		bounds = bounds.Union(b.SceneRect())
	}
	bounds = bounds.Adjust(-opts.Padding, -opts.Padding, opts.Padding, opts.Padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		bounds.X, bounds.Y, bounds.W, bounds.H, bounds.W, bounds.H)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", sceneCSS)

	cfg := s.Config()
	for _, b := range live {
		if !b.IsTextBlock() {
			renderFrame(&buf, s, b, opts.Frames)
		}
	}
	for _, b := range live {
		if b.IsTextBlock() {
			renderLeaf(&buf, b, cfg)
		}
		if c, ok := b.Control(); ok && c.Visible {
			renderControl(&buf, b, c, cfg)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderFrame(buf *bytes.Buffer, s *block.Session, b *block.Block, all bool) {
	f := b.Format()
	class := "frame"
	var stroke lipgloss.Color
	switch {
	case b.Handle() == s.Selected():
		class, stroke = "frame selected", f.Selected
	case b.Showing():
		stroke = f.Showing
	case b.Pointed():
		stroke = f.HoveredBorder
	case all:
		stroke = f.Unknown
	default:
		return
	}
	r := b.SceneRect()
	fmt.Fprintf(buf, `  <rect id="block-%s" class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" stroke="%s"/>`+"\n",
		b.Handle(), class, r.X, r.Y, r.W, r.H, svgColor(stroke))
}

func renderLeaf(buf *bytes.Buffer, b *block.Block, cfg block.Config) {
	p := b.ScenePos()
	st := b.TextStyle()
	weight, slant := "normal", "normal"
	if st.Bold {
		weight = "bold"
	}
	if st.Italic || b.Folded() {
		slant = "italic"
	}
	fmt.Fprintf(buf, `  <text id="block-%s" class="leaf" x="%.1f" y="%.1f" fill="%s" font-weight="%s" font-style="%s">%s</text>`+"\n",
		b.Handle(), p.X, p.Y+cfg.LineHeight*0.75, svgColor(st.Foreground), weight, slant, html.EscapeString(b.Text()))
}

func renderControl(buf *bytes.Buffer, b *block.Block, c block.FoldControl, cfg block.Config) {
	p := b.ScenePos().Add(c.Pos)
	n := cfg.ControlSize
	sign := "-"
	if b.Folded() {
		sign = "+"
	}
	fmt.Fprintf(buf, `  <rect class="control" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", p.X, p.Y, n, n)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
		p.X+n/2, p.Y+n-1, n, sign)
}

// svgColor converts a terminal color to an SVG color. ANSI codes are mapped
// through the xterm palette; anything else is passed through.
func svgColor(c lipgloss.Color) string {
	if c == "" {
		return "black"
	}
	n, err := strconv.Atoi(string(c))
	if err != nil {
		return string(c)
	}
	if n < 16 {
		return termenv.ConvertToRGB(termenv.ANSIColor(n)).Hex()
	}
	return termenv.ConvertToRGB(termenv.ANSI256Color(n)).Hex()
}
