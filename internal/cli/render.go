package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
)

// renderCommand creates the render command for preview artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var opts flowOpts
	var output, formatsStr string

	cmd := &cobra.Command{
		Use:   "render [flow]",
		Short: "Render a flow preview to SVG and/or JSON",
		Long: `Render paints every node of a flow, with its header, content rows and ports,
and the edges between them. Nodes are painted where the flow places them;
no automatic layout is applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			f, err := readFlow(args[0])
			if err != nil {
				return err
			}
			popts, err := opts.pipelineOptions()
			if err != nil {
				return err
			}
			popts.Formats = formats

			res, err := pipeline.NewRunner(nil, c.Logger).Execute(cmd.Context(), f, popts)
			if err != nil {
				return err
			}

			base := outputBase(args[0], output)
			printSuccess("Rendered %s", StyleHighlight.Render(displayName(f, args[0])))
			for _, format := range formats {
				path := base + "." + format
				if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
				}
				printFile(path)
			}
			if !res.Valid() {
				printWarning("%d nodes have misaligned ports", res.Stats.InvalidCount)
				printNextStep("Details", appName+" validate "+args[0])
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output formats: svg, json (comma-separated)")
	return cmd
}
