package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/pipeline"
)

// validateCommand creates the validate command. It exits non-zero when any
// node report is invalid.
func (c *CLI) validateCommand() *cobra.Command {
	var opts flowOpts
	var measure string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate [flow]",
		Short: "Check port counts and port alignment of every node in a flow",
		Long: `Validate assembles every node of a flow and checks that each node carries the
expected ports, that output port ids are sequential, and that every output
port sits on the vertical middle of its content row.

With --measure the check is repeated against painted geometry: "static" reads
the coordinates back from the SVG preview, "browser" lays the preview out in a
headless Chromium and measures it.`,
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
			popts.Measure = measure != ""

			runner, closeRunner, err := c.newRunner(measure)
			if err != nil {
				return err
			}
			defer func() { _ = closeRunner() }()

			var res *pipeline.Result
			if measure == measureBrowser {
				spin := measuringSpinner(cmd.Context())
				res, err = runner.Execute(cmd.Context(), f, popts)
				spin.Stop()
			} else {
				res, err = runner.Execute(cmd.Context(), f, popts)
			}
			if err != nil {
				return err
			}

			for _, s := range res.Specs {
				rep := res.Reports[s.ID]
				if quiet && rep.IsValid {
					continue
				}
				printReport(s.ID, rep)
			}
			for _, ef := range res.EdgeFindings {
				printWarning("%s", ef.String())
			}
			printStats(res.Stats)

			if !res.Valid() {
				return errInvalidFlow
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&measure, "measure", "", "re-check against painted geometry: static or browser")
	cmd.Flags().Lookup("measure").NoOptDefVal = measureStatic
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print invalid nodes")
	return cmd
}
