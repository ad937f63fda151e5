package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/httpapi"
)

// typesCommand lists node types and their port policy.
func (c *CLI) typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List node types and their port policy",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(typesTable(httpapi.NodeTypes()))
		},
	}
}

func typesTable(types []httpapi.NodeType) string {
	rows := make([][]string, 0, len(types))
	for _, nt := range types {
		outs := "one per line"
		if nt.FixedOutCount != nil {
			outs = strconv.Itoa(*nt.FixedOutCount)
		}
		rows = append(rows, []string{string(nt.Type), nt.Label, yesNo(nt.IncludeIn), outs})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Type", "Label", "Input", "Outputs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func yesNo(b bool) string {
	if b {
		return iconSuccess
	}
	return "-"
}
