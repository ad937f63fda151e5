package validate

import (
	"testing"

	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
	"github.com/matzehuels/flowcanvas/pkg/ports"
)

// stubRenderer reports fixed measurements.
type stubRenderer struct {
	rows  map[int]float64
	ports map[string]float64
}

func (s stubRenderer) RowCenterY(i int) (float64, bool) {
	v, ok := s.rows[i]
	return v, ok
}

func (s stubRenderer) PortCenterY(id string) (float64, bool) {
	v, ok := s.ports[id]
	return v, ok
}

func TestCheckRenderedFormula(t *testing.T) {
	s := layout.DefaultStyle()
	for n := 1; n <= 10; n++ {
		band := layout.PaintedBand(n, s)
		height := layout.ComputeHeight(n, s)
		count, opts := ports.ForNode(node.ABTest, n, ports.Options{
			Band: &band, Height: height, EvenDistribution: true, Style: s,
		})
		cfg := ports.Build(count, opts)
		r := FormulaRenderer{Ports: cfg, Lines: n, Height: height, Style: s}

		rep := CheckRendered(cfg, lines(n), r, Options{Type: node.ABTest, Height: height, Style: s})
		if !rep.IsValid || len(rep.Warnings) != 0 {
			t.Errorf("n=%d: %+v", n, rep)
		}
		if !rep.Details.Measured {
			t.Error("Details.Measured = false")
		}
	}
}

func TestCheckRenderedMeasurement(t *testing.T) {
	cfg := build(node.CrowdSplit, 2, nil)
	height := layout.ComputeHeight(2, layout.DefaultStyle())

	tests := []struct {
		name      string
		r         stubRenderer
		wantValid bool
		wantWarn  int
	}{
		{
			name: "exact",
			r: stubRenderer{
				rows:  map[int]float64{0: 69, 1: 101},
				ports: map[string]float64{"in": 62, "out-0": 69, "out-1": 101},
			},
			wantValid: true,
		},
		{
			name: "subpixel drift",
			r: stubRenderer{
				rows:  map[int]float64{0: 69.4, 1: 101},
				ports: map[string]float64{"in": 62, "out-0": 69, "out-1": 101},
			},
			wantValid: true,
			wantWarn:  1,
		},
		{
			name: "row painted lower",
			r: stubRenderer{
				rows:  map[int]float64{0: 75, 1: 101},
				ports: map[string]float64{"in": 62, "out-0": 69, "out-1": 101},
			},
			wantValid: false,
		},
		{
			name: "port not rendered",
			r: stubRenderer{
				rows:  map[int]float64{0: 69, 1: 101},
				ports: map[string]float64{"in": 62, "out-0": 69},
			},
			wantValid: false,
		},
		{
			name: "input off center",
			r: stubRenderer{
				rows:  map[int]float64{0: 69, 1: 101},
				ports: map[string]float64{"in": 70, "out-0": 69, "out-1": 101},
			},
			wantValid: true,
			wantWarn:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := CheckRendered(cfg, lines(2), tt.r, Options{Type: node.CrowdSplit, Height: height})
			if rep.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v (%+v)", rep.IsValid, tt.wantValid, rep.Errors)
			}
			if got := len(rep.Warnings); got != tt.wantWarn {
				t.Errorf("len(Warnings) = %d, want %d (%+v)", got, tt.wantWarn, rep.Warnings)
			}
		})
	}
}

func TestFormulaRendererBounds(t *testing.T) {
	r := FormulaRenderer{Lines: 2}
	if _, ok := r.RowCenterY(2); ok {
		t.Error("RowCenterY(2) reported a row beyond the content")
	}
	if y, ok := r.RowCenterY(1); !ok || y != 101 {
		t.Errorf("RowCenterY(1) = %v, %v", y, ok)
	}
	if _, ok := r.PortCenterY("out-0"); ok {
		t.Error("PortCenterY on empty ports reported a port")
	}
}
