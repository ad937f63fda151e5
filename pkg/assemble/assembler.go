package assemble

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
	"github.com/matzehuels/flowcanvas/pkg/observability"
	"github.com/matzehuels/flowcanvas/pkg/ports"
)

// Assembler turns requests into specs. It is safe for concurrent use.
type Assembler struct {
	style       layout.Style
	absolute    bool
	generateIDs bool
	validate    *validator.Validate
}

// Option configures an [Assembler].
type Option func(*Assembler)

// WithStyle sets the node style. The default is layout.DefaultStyle.
func WithStyle(s layout.Style) Option {
	return func(a *Assembler) { a.style = s }
}

// WithAbsolutePorts makes output ports carry absolute {x, y} positions
// instead of dy offsets.
func WithAbsolutePorts(v bool) Option {
	return func(a *Assembler) { a.absolute = v }
}

// WithGeneratedIDs assigns a random id to requests that have none. Without
// it an empty id is rejected.
func WithGeneratedIDs(v bool) Option {
	return func(a *Assembler) { a.generateIDs = v }
}

// New creates an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		style:    layout.DefaultStyle(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Style returns the style the assembler lays nodes out with.
func (a *Assembler) Style() layout.Style { return a.style }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nodetype", func(fl validator.FieldLevel) bool {
		return node.Type(fl.Field().String()).Valid()
	})
	return v
}

// Assemble builds the spec for one node.
func (a *Assembler) Assemble(ctx context.Context, req Request) (spec Spec, err error) {
	start := time.Now()
	defer func() {
		observability.Assembly().OnAssemble(ctx, req.Data.NodeType, len(spec.Data.DisplayLines), time.Since(start), err)
	}()

	if err := a.check(&req); err != nil {
		return Spec{}, err
	}

	t := node.Type(req.Data.NodeType)
	cfg := req.Data.Config.Clone()
	lines := node.BuildLines(t, cfg)
	height := layout.ComputeHeight(len(lines), a.style)

	outCount, opts := ports.ForNode(t, len(lines), ports.Options{
		Height:           height,
		Width:            a.style.Width,
		EvenDistribution: true,
		Absolute:         a.absolute,
		Style:            a.style,
	})
	band := layout.PaintedBand(outCount, a.style)
	opts.Band = &band

	return Spec{
		ID:     req.ID,
		X:      req.X,
		Y:      req.Y,
		Width:  a.style.Width,
		Height: height,
		Shape:  Shape,
		Data: SpecData{
			NodeType:     t,
			HeaderTitle:  HeaderTitle(t, cfg, req.Label),
			DisplayLines: lines,
			Disabled:     req.Data.Disabled,
			Config:       cfg,
			Extra:        cloneMap(req.Data.Extra),
		},
		Ports:  ports.Build(outCount, opts),
		ZIndex: ZIndex,
	}, nil
}

// HeaderTitle picks the node's title: the configured node name, else the
// type's generic label, else the caller's label, else a default.
func HeaderTitle(t node.Type, cfg node.Config, label string) string {
	if name := cfg.NodeName(); name != "" {
		return name
	}
	if t.Valid() {
		return t.Label()
	}
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return node.DefaultTitle
}

func (a *Assembler) check(req *Request) error {
	if req.ID == "" && a.generateIDs {
		req.ID = uuid.NewString()
	}
	if err := errors.ValidateNodeID(req.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, err, "invalid node id")
	}
	if err := a.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "nodetype" {
					return errors.New(errors.ErrCodeInvalidNodeType, "unknown node type: %q", req.Data.NodeType)
				}
			}
			return errors.Wrap(errors.ErrCodeInvalidRequest, verrs, "invalid node request")
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "validate node request")
	}
	return nil
}

func cloneMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
