package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/observability"
	"github.com/matzehuels/flowcanvas/pkg/ports"
	"github.com/matzehuels/flowcanvas/pkg/render/sink"
	"github.com/matzehuels/flowcanvas/pkg/validate"
)

// Measurer reads painted node geometry out of a rendered SVG document.
type Measurer interface {
	Name() string
	Measure(ctx context.Context, svg []byte) (map[string]*sink.Measurement, error)
}

// Runner executes the pipeline. It holds no per-run state, so multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Measurer Measurer
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil measurer selects sink.Static; a nil
// logger selects log.Default.
func NewRunner(m Measurer, logger *log.Logger) *Runner {
	if m == nil {
		m = sink.Static{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Measurer: m, Logger: logger}
}

// Execute assembles, validates, and renders every node of f.
func (r *Runner) Execute(ctx context.Context, f *flow.Flow, opts Options) (res *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := f.Check(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnFlowStart(ctx, f.Name, len(f.Nodes))
	defer func() {
		invalid := 0
		if res != nil {
			invalid = res.Stats.InvalidCount
		}
		observability.Pipeline().OnFlowComplete(ctx, f.Name, invalid, time.Since(start), err)
	}()

	res = &Result{
		Name:      f.Name,
		Reports:   make(map[string]validate.Report, len(f.Nodes)),
		Artifacts: make(map[string][]byte),
	}
	res.Stats.NodeCount = len(f.Nodes)
	res.Stats.EdgeCount = len(f.Edges)

	// Stage 1: Assemble
	t := time.Now()
	specs, err := r.Assemble(ctx, f.Nodes, opts)
	if err != nil {
		return nil, err
	}
	res.Specs = specs
	res.Stats.AssembleTime = time.Since(t)
	opts.Logger.Debug("assembled nodes", "count", len(specs), "duration", res.Stats.AssembleTime)

	// Stage 2: Validate
	t = time.Now()
	for _, s := range specs {
		res.Reports[s.ID] = Check(s, opts)
	}
	res.EdgeFindings = flow.CheckEdges(specs, f.Edges)
	res.Stats.ValidateTime = time.Since(t)

	// Stage 3: Render
	t = time.Now()
	var svg []byte
	if opts.HasFormat(FormatSVG) || opts.Measure {
		svg = sink.RenderSVG(specs, sink.WithStyle(opts.Style), sink.WithEdges(f.Edges))
	}
	if opts.HasFormat(FormatSVG) {
		res.Artifacts[FormatSVG] = svg
	}
	if opts.HasFormat(FormatJSON) {
		data, err := sink.RenderJSON(specs,
			sink.WithJSONName(f.Name),
			sink.WithJSONEdges(f.Edges),
			sink.WithJSONStyle(opts.Style))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render json")
		}
		res.Artifacts[FormatJSON] = data
	}
	res.Stats.RenderTime = time.Since(t)

	// Stage 4: Measure
	if opts.Measure {
		t = time.Now()
		if err := r.measure(ctx, svg, res, opts); err != nil {
			return nil, err
		}
		res.Stats.MeasureTime = time.Since(t)
	}

	r.report(ctx, res, opts)
	opts.Logger.Info("flow complete",
		"flow", f.Name,
		"nodes", res.Stats.NodeCount,
		"invalid", res.Stats.InvalidCount,
		"edge_findings", len(res.EdgeFindings),
		"duration", time.Since(start))
	return res, nil
}

// Assemble builds specs for reqs concurrently, preserving order. The first
// failing node cancels the rest.
func (r *Runner) Assemble(ctx context.Context, reqs []assemble.Request, opts Options) ([]assemble.Spec, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	a := assemble.New(assemble.WithStyle(opts.Style), assemble.WithAbsolutePorts(opts.AbsolutePorts),
		assemble.WithGeneratedIDs(true))

	specs := make([]assemble.Spec, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := a.Assemble(ctx, req)
			if err != nil {
				id := req.ID
				if id == "" {
					id = fmt.Sprintf("#%d", i)
				}
				return errors.WithNode(err, id)
			}
			specs[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return specs, nil
}

// Check validates one assembled spec against its own display lines.
func Check(s assemble.Spec, opts Options) validate.Report {
	rep := validate.Validate(s.Ports, s.Data.DisplayLines, opts.validateOptions(s))
	outs := s.Ports.ByGroup(ports.GroupOut)
	return rep.Merge(validate.ValidateIDs(outs, ports.OutPrefix))
}

func (r *Runner) measure(ctx context.Context, svg []byte, res *Result, opts Options) error {
	start := time.Now()
	ms, err := r.Measurer.Measure(ctx, svg)
	observability.Pipeline().OnMeasure(ctx, r.Measurer.Name(), time.Since(start), err)
	if err != nil {
		return err
	}
	for _, s := range res.Specs {
		m, ok := ms[s.ID]
		if !ok {
			return errors.New(errors.ErrCodeMeasurement, "node %s was not painted", s.ID)
		}
		rep := validate.CheckRendered(s.Ports, s.Data.DisplayLines, m, opts.validateOptions(s))
		res.Reports[s.ID] = rep.Merge(validate.ValidateIDs(s.Ports.ByGroup(ports.GroupOut), ports.OutPrefix))
	}
	opts.Logger.Debug("measured rendered geometry", "backend", r.Measurer.Name(), "duration", time.Since(start))
	return nil
}

// report logs findings and feeds the assembly hooks. Node errors and edge
// findings are logged at warn level, node warnings at debug level.
func (r *Runner) report(ctx context.Context, res *Result, opts Options) {
	hooks := observability.Assembly()
	res.Stats.InvalidCount = 0
	for _, s := range res.Specs {
		rep := res.Reports[s.ID]
		if !rep.IsValid {
			res.Stats.InvalidCount++
		}
		hooks.OnValidate(ctx, string(s.Data.NodeType), rep.IsValid, rep.Details.MaxDeviation)
		for _, f := range rep.Errors {
			hooks.OnFinding(ctx, string(f.Type), "error")
			opts.Logger.Warn(f.Message, "node", s.ID, "kind", f.Type, "port", f.PortID)
		}
		for _, f := range rep.Warnings {
			hooks.OnFinding(ctx, string(f.Type), "warning")
			opts.Logger.Debug(f.Message, "node", s.ID, "kind", f.Type, "port", f.PortID)
		}
	}
	for _, f := range res.EdgeFindings {
		hooks.OnFinding(ctx, string(f.Type), "warning")
		opts.Logger.Warn(f.Message, "kind", f.Type, "port", f.PortID)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
