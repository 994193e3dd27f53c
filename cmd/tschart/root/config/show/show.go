package show

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wandb/tschart/internal/cliutil"
	"github.com/wandb/tschart/internal/settings"
)

func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  `Show the configuration after defaults are applied and values are clamped.`,
		Example: heredoc.Doc(`
			$ tschart config show
			$ tschart config show --format yaml
			$ tschart config show --template '{{.zoom_ratio}}'
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load(viper.GetViper())
			if err != nil {
				return err
			}
			return cliutil.HandleOutput(cmd, s.AsMap())
		},
	}

	cliutil.AddOutputFlags(cmd)

	return cmd
}
