package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
)

// flowOpts holds the flags shared by commands that run a flow.
type flowOpts struct {
	stylePath string
	absolute  bool
	tolerance float64
}

func (o *flowOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.stylePath, "style", "", "style file (TOML); defaults to ~/.config/flowcanvas/style.toml when present")
	cmd.Flags().BoolVar(&o.absolute, "absolute", false, "emit output ports as absolute {x, y} positions")
	cmd.Flags().Float64Var(&o.tolerance, "tolerance", 0, "output port alignment tolerance in pixels (default 2)")
}

func (o *flowOpts) pipelineOptions() (pipeline.Options, error) {
	style, err := loadStyle(o.stylePath)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Style:         style,
		AbsolutePorts: o.absolute,
		Tolerance:     o.tolerance,
	}, nil
}

// readFlow loads and checks the flow document at path.
func readFlow(path string) (*flow.Flow, error) {
	if err := errors.ValidateFlowPath(path); err != nil {
		return nil, err
	}
	return flow.ReadFile(path)
}

// assembleCommand creates the assemble command for writing node specs.
func (c *CLI) assembleCommand() *cobra.Command {
	var opts flowOpts
	var output string

	cmd := &cobra.Command{
		Use:   "assemble [flow]",
		Short: "Assemble every node of a flow into render specs",
		Long: `Assemble reads a flow document (YAML or JSON) and writes the render-ready
node specs, with ports and edges, as JSON next to the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFlow(args[0])
			if err != nil {
				return err
			}
			popts, err := opts.pipelineOptions()
			if err != nil {
				return err
			}
			popts.Formats = []string{pipeline.FormatJSON}

			prog := newProgress(c.Logger)
			res, err := pipeline.NewRunner(nil, c.Logger).Execute(cmd.Context(), f, popts)
			if err != nil {
				return err
			}
			prog.done("assembled flow", "nodes", res.Stats.NodeCount, "invalid", res.Stats.InvalidCount)

			out := outputBase(args[0], output) + ".specs.json"
			if err := os.WriteFile(out, res.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", out)
			}
			printSuccess("Assembled %s", StyleHighlight.Render(displayName(f, args[0])))
			printStats(res.Stats)
			printFile(out)
			printNextStep("Open on the canvas", appName+" canvas "+args[0])
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.specs.json)")
	return cmd
}

func displayName(f *flow.Flow, path string) string {
	if f.Name != "" {
		return f.Name
	}
	return path
}
