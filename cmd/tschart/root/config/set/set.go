package set

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wandb/tschart/internal/settings"
)

func NewSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  `Set a configuration value that will be persisted in the config file.`,
		Example: heredoc.Doc(`
			# Zoom in smaller steps
			$ tschart config set zoom_ratio 0.05

			# Let the vertical wheel zoom the time axis
			$ tschart config set vertical_wheel_axis x

			# Allow zooming down to a single day
			$ tschart config set min_span_x 24h

			# Use a custom palette
			$ tschart config set colors "#E281FE,#4ECDC4,#FFCF4F"
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			if err := settings.Set(viper.GetViper(), key, value); err != nil {
				return err
			}

			if err := viper.WriteConfig(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully set %s = %s\n", key, value)
			return nil
		},
	}

	return cmd
}
