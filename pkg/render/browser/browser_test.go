package browser

import (
	"context"
	"os"
	"testing"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/node"
	"github.com/matzehuels/flowcanvas/pkg/render/sink"
	"github.com/matzehuels/flowcanvas/pkg/validate"
)

func TestDecode(t *testing.T) {
	ms, err := decode([]byte(`{"n1":{"rows":{"0":69,"1":101},"ports":{"in":48,"out-0":69}},"n2":{}}`))
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if got, _ := ms["n1"].RowCenterY(1); got != 101 {
		t.Errorf("row 1 = %v, want 101", got)
	}
	if got, _ := ms["n1"].PortCenterY("out-0"); got != 69 {
		t.Errorf("out-0 = %v, want 69", got)
	}
	if _, ok := ms["n2"].PortCenterY("in"); ok {
		t.Error("n2 should have no ports")
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := decode([]byte(`[1,2]`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestMeasureInBrowser(t *testing.T) {
	if os.Getenv("FLOWCANVAS_BROWSER_TESTS") != "1" {
		t.Skip("set FLOWCANVAS_BROWSER_TESTS=1 to run browser tests")
	}
	if !Available() {
		t.Skip("no browser found")
	}

	spec, err := assemble.New().Assemble(context.Background(), assemble.Request{
		ID: "ab",
		Data: assemble.RequestData{
			NodeType: string(node.ABTest),
			Config: node.Config{"branches": []any{
				map[string]any{"name": "A", "percentage": 50},
				map[string]any{"name": "B", "percentage": 30},
				map[string]any{"name": "C", "percentage": 20},
			}},
		},
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	m := New(Options{Headless: true})
	defer func() { _ = m.Close() }()

	ms, err := m.Measure(context.Background(), sink.RenderSVG([]assemble.Spec{spec}))
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	rep := validate.CheckRendered(spec.Ports, spec.Data.DisplayLines, ms["ab"], validate.Options{
		Type:   spec.Data.NodeType,
		Height: spec.Height,
	})
	if !rep.IsValid {
		t.Errorf("rendered alignment: %v", rep.Errors)
	}
}
