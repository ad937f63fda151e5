package cli

import (
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/layout"
)

// styleCommand prints the effective style as TOML, ready to be saved as a
// style file and edited.
func (c *CLI) styleCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "style",
		Short: "Print the effective node style as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStyle(path)
			if err != nil {
				return err
			}
			return writeStyle(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVar(&path, "style", "", "style file (TOML)")
	return cmd
}

func writeStyle(w io.Writer, s layout.Style) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode style")
	}
	return nil
}
