package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/ports"
)

const nodeInteractionCSS = `
    .node .body { fill: #FFFFFF; stroke: #D9D9D9; stroke-width: 1; }
    .node.disabled .body { fill: #F5F5F5; }
    .node .header { fill: #F0F5FF; }
    .node .title { font-size: 14px; font-weight: 600; fill: #262626; }
    .node .line { font-size: 13px; fill: #595959; }
    .node .row { fill: transparent; }
    .node .menu-dot { opacity: 0; transition: opacity 0.2s ease; cursor: pointer; }
    .node:hover .menu-dot { opacity: 1; }
    .node:hover .body { stroke: #5F95FF; }
    .edge { fill: none; stroke: #A2B1C3; stroke-width: 1.5; }`

const (
	fontSizeTitle = 14.0
	fontSizeLine  = 13.0
	textInset     = 12.0
	maxLineRunes  = 20

	menuDotSize    = 3.0
	menuDotSpacing = 6.0
	menuDotInset   = 19.0
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style   layout.Style
	edges   []flow.Edge
	margin  float64
	minimal bool
}

// WithStyle sets the style rows and headers are painted with. It must be
// the style the specs were assembled with.
func WithStyle(s layout.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithEdges draws edges between ports.
func WithEdges(edges []flow.Edge) SVGOption { return func(r *svgRenderer) { r.edges = edges } }

// WithMargin sets the blank border around the canvas.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithoutStyles omits the embedded stylesheet.
func WithoutStyles() SVGOption { return func(r *svgRenderer) { r.minimal = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: layout.DefaultStyle(), margin: 20}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG paints specs as an SVG document.
func RenderSVG(specs []assemble.Spec, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	minX, minY, maxX, maxY := bounds(specs)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX-r.margin, minY-r.margin, maxX-minX+2*r.margin, maxY-minY+2*r.margin,
		maxX-minX+2*r.margin, maxY-minY+2*r.margin)
	if !r.minimal {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeInteractionCSS)
	}

	byID := make(map[string]assemble.Spec, len(specs))
	for _, s := range specs {
		byID[s.ID] = s
	}
	for _, e := range r.edges {
		renderEdge(&buf, e, byID)
	}
	for _, s := range specs {
		r.renderNode(&buf, s)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func bounds(specs []assemble.Spec) (minX, minY, maxX, maxY float64) {
	if len(specs) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range specs {
		b := s.Block()
		minX, minY = math.Min(minX, b.Left), math.Min(minY, b.Top)
		maxX, maxY = math.Max(maxX, b.Right), math.Max(maxY, b.Bottom)
	}
	return minX, minY, maxX, maxY
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, s assemble.Spec) {
	st := r.style
	class := "node"
	if s.Data.Disabled {
		class += " disabled"
	}
	id := EscapeXML(s.ID)
	fmt.Fprintf(buf, `  <g class="%s" id="node-%s" data-node-id="%s" data-node-type="%s" transform="translate(%.2f,%.2f)">`+"\n",
		class, id, id, EscapeXML(string(s.Data.NodeType)), s.X, s.Y)

	fmt.Fprintf(buf, `    <rect class="body" x="0" y="0" width="%.2f" height="%.2f" rx="8"/>`+"\n", s.Width, s.Height)

	fmt.Fprintf(buf, `    <g data-tag="header"><rect class="header" x="0" y="0" width="%.2f" height="%.2f" rx="8"/>`, s.Width, st.HeaderHeight)
	fmt.Fprintf(buf, `<text class="title" x="%.2f" y="%.2f">%s</text></g>`+"\n",
		textInset, st.HeaderHeight/2+fontSizeTitle*0.35, EscapeXML(s.Data.HeaderTitle))

	if !s.Data.NodeType.IsTerminal() {
		r.renderMenuDot(buf, s.Width)
	}

	buf.WriteString(`    <g data-tag="content">` + "\n")
	for i, line := range s.Data.DisplayLines {
		band := layout.RowBand(i, st)
		fmt.Fprintf(buf, `      <rect class="row" data-row="%d" x="0" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
			i, band.Start, s.Width, band.Height())
		fmt.Fprintf(buf, `      <text class="line" x="%.2f" y="%.2f">%s</text>`+"\n",
			textInset, (band.Start+band.End)/2+fontSizeLine*0.35, EscapeXML(truncate(line, maxLineRunes)))
	}
	buf.WriteString("    </g>\n")

	for _, it := range s.Ports.Items {
		cy, ok := it.CenterY(s.Height)
		if !ok {
			continue
		}
		cx := 0.0
		switch {
		case it.Args.X != nil:
			cx = *it.Args.X
		case it.Group == ports.GroupOut:
			cx = s.Width
		}
		fmt.Fprintf(buf, `    <circle class="port port-%s" data-port="%s" cx="%.2f" cy="%.2f" r="%d" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			it.Group, EscapeXML(it.ID), cx, cy, ports.PortRadius, ports.PortFill, ports.PortStroke, ports.PortStrokeWidth)
	}
	buf.WriteString("  </g>\n")
}

// renderMenuDot paints three horizontal dots centered in the header, near
// the right edge, inside the classifier's dot area.
func (r *svgRenderer) renderMenuDot(buf *bytes.Buffer, width float64) {
	cy := r.style.HeaderHeight / 2
	cx := width - menuDotInset
	fmt.Fprintf(buf, `    <g class="menu-dot" data-tag="menu-dot"><rect x="%.2f" y="%.2f" width="22" height="16" fill="transparent"/>`, cx-11, cy-8)
	for i := -1; i <= 1; i++ {
		fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="#8C8C8C"/>`, cx+float64(i)*menuDotSpacing, cy, menuDotSize/2)
	}
	buf.WriteString("</g>\n")
}

func renderEdge(buf *bytes.Buffer, e flow.Edge, byID map[string]assemble.Spec) {
	src, okS := byID[e.Source]
	dst, okD := byID[e.Target]
	if !okS || !okD {
		return
	}
	x1, y1, ok1 := portPoint(src, e.ResolvedSourcePort())
	x2, y2, ok2 := portPoint(dst, e.ResolvedTargetPort())
	if !ok1 || !ok2 {
		return
	}
	dx := math.Max(40, math.Abs(x2-x1)/2)
	fmt.Fprintf(buf, `  <path class="edge" data-source="%s" data-target="%s" d="M%.2f,%.2f C%.2f,%.2f %.2f,%.2f %.2f,%.2f"/>`+"\n",
		EscapeXML(e.Source), EscapeXML(e.Target), x1, y1, x1+dx, y1, x2-dx, y2, x2, y2)
}

// portPoint returns the canvas position of a port.
func portPoint(s assemble.Spec, id string) (x, y float64, ok bool) {
	it, found := s.Ports.Find(id)
	if !found {
		return 0, 0, false
	}
	cy, ok := it.CenterY(s.Height)
	if !ok {
		return 0, 0, false
	}
	x = s.X
	if it.Group == ports.GroupOut {
		x += s.Width
	}
	return x, s.Y + cy, true
}
