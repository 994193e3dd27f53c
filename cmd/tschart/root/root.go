package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/wandb/tschart/cmd/tschart/root/config"
	"github.com/wandb/tschart/cmd/tschart/root/version"
	"github.com/wandb/tschart/cmd/tschart/root/view"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tschart <command>",
		Short: "Interactive time-series charts in the terminal",
		Long: heredoc.Doc(`
			tschart draws time series from CSV or JSON files as an interactive
			terminal chart. Zoom with the mouse wheel, pan by dragging, and
			press h inside the chart for all key bindings.
		`),
		SilenceUsage: true,
	}

	cmd.AddCommand(view.NewViewCmd())
	cmd.AddCommand(config.NewConfigCmd())
	cmd.AddCommand(version.NewVersionCmd())

	return cmd
}
