package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
	"github.com/matzehuels/flowcanvas/pkg/observability"
	"github.com/matzehuels/flowcanvas/pkg/render/sink"
	"github.com/matzehuels/flowcanvas/pkg/validate"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "pdf"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Style != layout.DefaultStyle() {
		t.Errorf("Style = %+v, want default", opts.Style)
	}
	if opts.Tolerance != validate.DefaultTolerance {
		t.Errorf("Tolerance = %v, want %v", opts.Tolerance, validate.DefaultTolerance)
	}
	if opts.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", opts.Concurrency, DefaultConcurrency)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	bad := Options{Tolerance: -1}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative tolerance: err = %v, want INVALID_INPUT", err)
	}
	style := Options{Style: layout.Style{Width: -1}}
	if err := style.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("bad style: err = %v, want INVALID_STYLE", err)
	}
}

func sampleFlow() *flow.Flow {
	return &flow.Flow{
		Name: "welcome",
		Nodes: []assemble.Request{
			{ID: "start", Data: assemble.RequestData{NodeType: "start"}},
			{ID: "ab", X: 360, Data: assemble.RequestData{
				NodeType: "ab-test",
				Config: node.Config{"branches": []any{
					map[string]any{"name": "A", "percentage": 50},
					map[string]any{"name": "B", "percentage": 50},
				}},
			}},
			{ID: "sms", X: 720, Data: assemble.RequestData{NodeType: "sms", Config: node.Config{"smsTemplate": "hi"}}},
			{ID: "end", X: 1080, Data: assemble.RequestData{NodeType: "end"}},
		},
		Edges: []flow.Edge{
			{Source: "start", Target: "ab"},
			{Source: "ab", SourcePort: "out-0", Target: "sms"},
			{Source: "ab", SourcePort: "out-1", Target: "end"},
			{Source: "sms", Target: "end"},
		},
	}
}

func TestExecute(t *testing.T) {
	for _, absolute := range []bool{false, true} {
		r := NewRunner(nil, nil)
		res, err := r.Execute(context.Background(), sampleFlow(), Options{
			Formats:       []string{FormatSVG, FormatJSON},
			AbsolutePorts: absolute,
			Measure:       true,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if !res.Valid() {
			t.Errorf("absolute=%v: invalid nodes %v", absolute, res.InvalidNodes())
		}
		if len(res.EdgeFindings) != 0 {
			t.Errorf("absolute=%v: edge findings %v", absolute, res.EdgeFindings)
		}
		if len(res.Specs) != 4 || len(res.Reports) != 4 {
			t.Fatalf("specs = %d, reports = %d, want 4", len(res.Specs), len(res.Reports))
		}
		if res.Specs[1].ID != "ab" {
			t.Errorf("Specs[1] = %s, want ab (order preserved)", res.Specs[1].ID)
		}
		if !res.Reports["ab"].Details.Measured {
			t.Error("reports should be measurement-grounded")
		}
		if res.Reports["ab"].Details.MaxDeviation != 0 {
			t.Errorf("MaxDeviation = %v, want 0", res.Reports["ab"].Details.MaxDeviation)
		}
		if !strings.Contains(string(res.Artifacts[FormatSVG]), `data-node-id="ab"`) {
			t.Error("svg artifact missing node")
		}
		if !strings.Contains(string(res.Artifacts[FormatJSON]), `"name": "welcome"`) {
			t.Error("json artifact missing flow name")
		}
		if res.Stats.NodeCount != 4 || res.Stats.EdgeCount != 4 {
			t.Errorf("Stats = %s", res.Stats)
		}
	}
}

func TestExecuteGeneratesIDs(t *testing.T) {
	f := &flow.Flow{Nodes: []assemble.Request{{Data: assemble.RequestData{NodeType: "wait"}}}}
	res, err := NewRunner(nil, nil).Execute(context.Background(), f, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Specs[0].ID == "" {
		t.Fatal("expected a generated id")
	}
	if _, ok := res.Reports[res.Specs[0].ID]; !ok {
		t.Error("report should be keyed by the generated id")
	}
	if len(res.Artifacts) != 0 {
		t.Errorf("no formats requested, got %d artifacts", len(res.Artifacts))
	}
}

func TestExecuteEdgeFindings(t *testing.T) {
	f := sampleFlow()
	f.Edges = append(f.Edges,
		flow.Edge{Source: "ab", SourcePort: "out-5", Target: "end"},
		flow.Edge{Source: "ab", SourcePort: "out-0", Target: "end"},
	)
	res, err := NewRunner(nil, nil).Execute(context.Background(), f, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Valid() {
		t.Error("edge findings are warnings and should not invalidate the flow")
	}
	if len(res.EdgeFindings) != 2 {
		t.Errorf("EdgeFindings = %v, want 2", res.EdgeFindings)
	}
}

func TestExecuteRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		f    *flow.Flow
		opts Options
		code errors.Code
	}{
		{
			name: "unknown node type",
			f:    &flow.Flow{Nodes: []assemble.Request{{ID: "x", Data: assemble.RequestData{NodeType: "teleport"}}}},
			code: errors.ErrCodeInvalidNodeType,
		},
		{
			name: "dangling edge",
			f: &flow.Flow{
				Nodes: []assemble.Request{{ID: "x", Data: assemble.RequestData{NodeType: "end"}}},
				Edges: []flow.Edge{{Source: "x", Target: "y"}},
			},
			code: errors.ErrCodeInvalidFlow,
		},
		{
			name: "bad format",
			f:    sampleFlow(),
			opts: Options{Formats: []string{"png"}},
			code: errors.ErrCodeInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil).Execute(context.Background(), tt.f, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

type fakeMeasurer struct {
	err    error
	shift  float64
	called bool
}

func (f *fakeMeasurer) Name() string { return "fake" }

func (f *fakeMeasurer) Measure(ctx context.Context, svg []byte) (map[string]*sink.Measurement, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	ms, err := sink.ParseSVG(svg)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		for id, y := range m.Ports {
			if strings.HasPrefix(id, "out-") {
				m.Ports[id] = y + f.shift
			}
		}
	}
	return ms, nil
}

func TestExecuteMeasuredMisalignment(t *testing.T) {
	m := &fakeMeasurer{shift: 5}
	res, err := NewRunner(m, nil).Execute(context.Background(), sampleFlow(), Options{Measure: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !m.called {
		t.Fatal("measurer not called")
	}
	want := []string{"ab", "sms", "start"}
	got := res.InvalidNodes()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("InvalidNodes() = %v, want %v", got, want)
	}
	if n := res.Reports["ab"].Count(validate.OutputPortAlignment); n != 2 {
		t.Errorf("ab alignment findings = %d, want 2", n)
	}
}

func TestExecuteMeasureError(t *testing.T) {
	m := &fakeMeasurer{err: errors.New(errors.ErrCodeTimeout, "too slow")}
	_, err := NewRunner(m, nil).Execute(context.Background(), sampleFlow(), Options{Measure: true})
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("err = %v, want TIMEOUT", err)
	}
}

func TestExecuteSkipsMeasureByDefault(t *testing.T) {
	m := &fakeMeasurer{}
	if _, err := NewRunner(m, nil).Execute(context.Background(), sampleFlow(), Options{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if m.called {
		t.Error("measurer should not be called without Measure")
	}
}

func TestAssembleAttributesFailingNode(t *testing.T) {
	reqs := []assemble.Request{
		{ID: "ok", Data: assemble.RequestData{NodeType: "end"}},
		{ID: "bad", Data: assemble.RequestData{NodeType: "teleport"}},
		{Data: assemble.RequestData{NodeType: "fax"}},
	}
	_, err := NewRunner(nil, nil).Assemble(context.Background(), reqs[:2], Options{Concurrency: 1})
	if got := errors.NodeID(err); got != "bad" {
		t.Errorf("NodeID() = %q, want bad", got)
	}
	if !errors.Is(err, errors.ErrCodeInvalidNodeType) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidNodeType)
	}

	_, err = NewRunner(nil, nil).Assemble(context.Background(), reqs[2:], Options{Concurrency: 1})
	if got := errors.NodeID(err); got != "#0" {
		t.Errorf("NodeID() for an unnamed request = %q, want #0", got)
	}
}

func TestAssembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil).Assemble(ctx, sampleFlow().Nodes, Options{Concurrency: 1})
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	started  int
	invalid  int
	measured []string
}

func (h *recordingHooks) OnFlowStart(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *recordingHooks) OnFlowComplete(_ context.Context, _ string, invalid int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.invalid = invalid
}

func (h *recordingHooks) OnMeasure(_ context.Context, backend string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.measured = append(h.measured, backend)
}

func TestExecuteHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	if _, err := NewRunner(&fakeMeasurer{shift: 5}, nil).Execute(context.Background(), sampleFlow(), Options{Measure: true}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if h.started != 1 {
		t.Errorf("started = %d, want 1", h.started)
	}
	if h.invalid != 3 {
		t.Errorf("invalid = %d, want 3", h.invalid)
	}
	if len(h.measured) != 1 || h.measured[0] != "fake" {
		t.Errorf("measured = %v, want [fake]", h.measured)
	}
}
