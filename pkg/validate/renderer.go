package validate

import (
	"fmt"
	"math"

	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/ports"
)

// Renderer reports painted geometry of one node, as y offsets from the
// node's top edge. Implementations backed by real painting must only be
// queried after layout has flushed.
type Renderer interface {
	// RowCenterY returns the vertical middle of content row i.
	RowCenterY(i int) (float64, bool)
	// PortCenterY returns the vertical center of the port with the given id.
	PortCenterY(id string) (float64, bool)
}

// FormulaRenderer answers from the layout formulas instead of painting.
type FormulaRenderer struct {
	Ports  ports.Config
	Lines  int
	Height float64
	Style  layout.Style
}

// RowCenterY implements [Renderer].
func (f FormulaRenderer) RowCenterY(i int) (float64, bool) {
	if i < 0 || i >= max(1, f.Lines) {
		return 0, false
	}
	b := layout.RowBand(i, f.style())
	return (b.Start + b.End) / 2, true
}

// PortCenterY implements [Renderer].
func (f FormulaRenderer) PortCenterY(id string) (float64, bool) {
	it, ok := f.Ports.Find(id)
	if !ok {
		return 0, false
	}
	return it.CenterY(f.Height)
}

func (f FormulaRenderer) style() layout.Style {
	if f.Style == (layout.Style{}) {
		return layout.DefaultStyle()
	}
	return f.Style
}

// CheckRendered is the measurement-grounded alignment gate. Every output
// port must be within tolerance of its row both as measured through r and
// as computed by [Validate]; the input port must sit within
// [InputTolerance] of the measured node center.
func CheckRendered(cfg ports.Config, lines []string, r Renderer, opts Options) Report {
	opts = opts.resolve(len(lines))
	rep := Validate(cfg, lines, opts)
	rep.Details.Measured = true

	for _, p := range cfg.ByGroup(ports.GroupIn) {
		y, ok := r.PortCenterY(p.ID)
		if !ok {
			rep.addError(Finding{Type: InputPortAlignment, PortID: p.ID, Message: "input port was not rendered"})
			continue
		}
		center := opts.Height / 2
		if d := math.Abs(y - center); d > InputTolerance {
			rep.addWarning(Finding{
				Type:      InputPortAlignment,
				PortID:    p.ID,
				Message:   fmt.Sprintf("rendered input port is %.2fpx off the vertical center", d),
				Expected:  center,
				Actual:    y,
				Deviation: d,
			})
		}
	}

	for i, p := range cfg.ByGroup(ports.GroupOut) {
		py, ok := r.PortCenterY(p.ID)
		if !ok {
			rep.addError(Finding{Type: OutputPortAlignment, PortID: p.ID, Message: "output port was not rendered"})
			continue
		}
		ry, ok := r.RowCenterY(i)
		if !ok {
			rep.addError(Finding{Type: OutputPortAlignment, PortID: p.ID, Message: fmt.Sprintf("row %d was not rendered", i)})
			continue
		}
		recordDeviation(&rep, p.ID, ry, py, opts.Tolerance, "rendered row")
	}
	return rep
}
