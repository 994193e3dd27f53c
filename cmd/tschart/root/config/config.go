package config

import (
	"github.com/spf13/cobra"

	"github.com/wandb/tschart/cmd/tschart/root/config/set"
	"github.com/wandb/tschart/cmd/tschart/root/config/show"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Configuration commands",
		Long:  `Commands for managing the chart configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(set.NewSetCmd())
	cmd.AddCommand(show.NewShowCmd())

	return cmd
}
