package ports

import (
	"math"

	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
)

// Port appearance.
const (
	PortRadius      = 4
	PortStrokeWidth = 1.5
	PortStroke      = "#5F95FF"
	PortFill        = "#FFFFFF"

	// OutMaxConnections limits each output port to one outgoing edge.
	OutMaxConnections = 1
)

// Options control [Build].
type Options struct {
	IncludeIn  bool
	IncludeOut bool

	// OutIDs overrides the output port ids. Missing entries default to out-i.
	OutIDs []string

	// Band is the vertical band output ports are laid out in. Nil selects
	// the default content band for the output count.
	Band *layout.Band

	// Height and Width of the node. Zero values are derived from Style.
	Height float64
	Width  float64

	// EvenDistribution slices Band into equal parts instead of anchoring
	// each port to its row formula.
	EvenDistribution bool

	// Absolute emits {x, y} for output ports instead of dy.
	Absolute bool

	// Style is the node style. The zero value selects layout.DefaultStyle.
	Style layout.Style
}

// ForNode returns Options with the include flags set from the port policy
// of type t, and the height derived from the line count when unset. It also
// returns the output count to pass to [Build].
func ForNode(t node.Type, lineCount int, opts Options) (int, Options) {
	p := PolicyFor(t, lineCount)
	opts.IncludeIn = p.IncludeIn
	opts.IncludeOut = p.IncludeOut
	if opts.Height <= 0 {
		s := opts.Style
		if s == (layout.Style{}) {
			s = layout.DefaultStyle()
		}
		opts.Height = layout.ComputeHeight(lineCount, s)
	}
	return p.OutCount, opts
}

// Build lays out one input port (when included) and outCount output ports.
// It never fails: degenerate options fall back to defaults and anchors are
// clamped into the content band.
func Build(outCount int, opts Options) Config {
	s := opts.Style
	if s == (layout.Style{}) {
		s = layout.DefaultStyle()
	}
	outCount = max(0, outCount)
	if !opts.IncludeOut {
		outCount = 0
	}

	height := opts.Height
	if height <= 0 {
		height = layout.ComputeHeight(outCount, s)
	}
	width := opts.Width
	if width <= 0 {
		width = s.Width
	}
	band := layout.ContentBand(outCount, s)
	if opts.Band != nil {
		band = *opts.Band
	}

	var cfg Config
	if opts.IncludeIn {
		cfg.Groups.In = inGroup()
		cfg.Items = append(cfg.Items, newItem(InputID, GroupIn, Args{Dy: ptr(0)}))
	}
	if opts.IncludeOut {
		cfg.Groups.Out = outGroup(opts.Absolute)
		ids := outIDs(opts.OutIDs, outCount)
		for i, id := range ids {
			anchor := band.Clamp(outAnchor(i, outCount, band, s, opts.EvenDistribution))
			var args Args
			if opts.Absolute {
				args = Args{X: ptr(width), Y: ptr(anchor)}
			} else {
				args = Args{Dy: ptr(anchor - height/2)}
			}
			cfg.Items = append(cfg.Items, newItem(id, GroupOut, args))
		}
	}
	if cfg.Items == nil {
		cfg.Items = []Item{}
	}
	return cfg
}

func outAnchor(i, n int, band layout.Band, s layout.Style, even bool) float64 {
	if even {
		slice := band.Height() / float64(n)
		return band.Start + (float64(i)+0.5)*slice
	}
	return band.Start + float64(i)*s.RowHeight + math.Floor(s.RowHeight/2) + s.BaselineAdjust
}

func outIDs(given []string, n int) []string {
	ids := SequentialIDs(OutPrefix, n)
	for i := range ids {
		if i < len(given) && given[i] != "" {
			ids[i] = given[i]
		}
	}
	return ids
}

func circleAttrs() map[string]any {
	return map[string]any{
		"circle": map[string]any{
			"r":           PortRadius,
			"magnet":      true,
			"stroke":      PortStroke,
			"strokeWidth": PortStrokeWidth,
			"fill":        PortFill,
		},
	}
}

func circleMarkup() []Markup {
	return []Markup{{TagName: "circle", Selector: "circle"}}
}

func inGroup() *GroupSpec {
	return &GroupSpec{
		Position: Position{Name: "left"},
		Layout:   "left",
		Attrs:    circleAttrs(),
	}
}

func outGroup(absolute bool) *GroupSpec {
	g := &GroupSpec{
		Position:       Position{Name: "right"},
		Layout:         "right",
		ConnectOptions: ConnectOptions{MaxConnections: OutMaxConnections},
		Attrs:          circleAttrs(),
	}
	if absolute {
		g.Position = Position{Name: "absolute"}
		g.Layout = "absolute"
	}
	return g
}

func newItem(id, group string, args Args) Item {
	return Item{
		ID:     id,
		Group:  group,
		Args:   args,
		Attrs:  circleAttrs(),
		Markup: circleMarkup(),
	}
}
