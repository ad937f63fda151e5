package validate

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
	"github.com/matzehuels/flowcanvas/pkg/ports"
)

// DefaultTolerance is the maximum output port deviation, in pixels.
const DefaultTolerance = 2.0

// InputTolerance is the maximum input port offset from the vertical center.
const InputTolerance = 1.0

// eps absorbs float noise when deciding that a deviation is exactly zero.
const eps = 1e-9

// Options control [Validate].
type Options struct {
	// Type selects the expected output count. Empty means one port per line.
	Type node.Type
	// Height of the node. Zero derives it from the line count.
	Height float64
	// Style is the node style. The zero value selects layout.DefaultStyle.
	Style layout.Style
	// Tolerance in pixels. Zero selects DefaultTolerance.
	Tolerance float64
}

func (o Options) resolve(lineCount int) Options {
	if o.Style == (layout.Style{}) {
		o.Style = layout.DefaultStyle()
	}
	if o.Height <= 0 {
		o.Height = layout.ComputeHeight(lineCount, o.Style)
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

func expectedOutputs(t node.Type, lineCount int) int {
	if t.Valid() {
		return ports.OutputCount(t, lineCount)
	}
	return lineCount
}

// Validate checks cfg against the display lines it was built for. It never
// mutates its inputs.
func Validate(cfg ports.Config, lines []string, opts Options) Report {
	opts = opts.resolve(len(lines))
	r := newReport()

	ins := cfg.ByGroup(ports.GroupIn)
	outs := cfg.ByGroup(ports.GroupOut)
	want := expectedOutputs(opts.Type, len(lines))

	r.Details = Details{
		NodeType:        string(opts.Type),
		LineCount:       len(lines),
		InputPorts:      len(ins),
		OutputPorts:     len(outs),
		ExpectedOutputs: want,
		Height:          opts.Height,
		Tolerance:       opts.Tolerance,
		Representation:  representation(outs),
	}

	for _, p := range ins {
		dy, ok := relativeY(p, opts.Height)
		if !ok {
			r.addWarning(Finding{Type: InputPortAlignment, PortID: p.ID, Message: "input port has no position"})
			continue
		}
		if d := math.Abs(dy); d > InputTolerance {
			r.addWarning(Finding{
				Type:      InputPortAlignment,
				PortID:    p.ID,
				Message:   fmt.Sprintf("input port is %.2fpx off the vertical center", d),
				Expected:  0,
				Actual:    dy,
				Deviation: d,
			})
		}
	}

	if len(outs) != want {
		r.addError(Finding{
			Type:     PortCountMismatch,
			Message:  fmt.Sprintf("%d output ports for %d expected (%d display lines)", len(outs), want, len(lines)),
			Expected: float64(want),
			Actual:   float64(len(outs)),
		})
	}

	for i, p := range outs {
		anchor := layout.RowAnchor(i, opts.Style)
		var expected, actual float64
		switch {
		case p.Args.IsAbsolute():
			expected, actual = anchor, *p.Args.Y
		case p.Args.Dy != nil:
			expected, actual = anchor-opts.Height/2, *p.Args.Dy
		default:
			r.addError(Finding{Type: OutputPortAlignment, PortID: p.ID, Message: "output port has no position"})
			continue
		}
		recordDeviation(&r, p.ID, expected, actual, opts.Tolerance, "row")
	}
	return r
}

// ValidateIDs checks that items are named prefix-0, prefix-1, ... in order.
func ValidateIDs(items []ports.Item, prefix string) Report {
	r := newReport()
	r.Details.OutputPorts = len(items)
	if err := errors.ValidatePortPrefix(prefix); err != nil {
		r.addError(Finding{Type: PortIDFormat, Message: errors.UserMessage(err)})
		return r
	}
	want := ports.SequentialIDs(prefix, len(items))
	for i, it := range items {
		if it.ID != want[i] {
			r.addError(Finding{
				Type:    PortIDFormat,
				PortID:  it.ID,
				Message: fmt.Sprintf("port %d is %q, want %q", i, it.ID, want[i]),
			})
		}
	}
	return r
}

func recordDeviation(r *Report, id string, expected, actual, tol float64, against string) {
	d := math.Abs(actual - expected)
	r.Details.MaxDeviation = math.Max(r.Details.MaxDeviation, d)
	if d <= eps {
		return
	}
	f := Finding{
		Type:      OutputPortAlignment,
		PortID:    id,
		Expected:  expected,
		Actual:    actual,
		Deviation: d,
	}
	if d > tol {
		f.Message = fmt.Sprintf("%.2fpx off its %s, exceeds tolerance %.2fpx", d, against, tol)
		r.addError(f)
		return
	}
	f.Message = fmt.Sprintf("%.2fpx off its %s, within tolerance", d, against)
	r.addWarning(f)
}

// relativeY returns the port's offset from the node's vertical center.
func relativeY(p ports.Item, height float64) (float64, bool) {
	y, ok := p.CenterY(height)
	if !ok {
		return 0, false
	}
	return y - height/2, true
}

func representation(items []ports.Item) string {
	if len(items) == 0 {
		return ""
	}
	if items[0].Args.IsAbsolute() {
		return "absolute"
	}
	return "dy"
}
