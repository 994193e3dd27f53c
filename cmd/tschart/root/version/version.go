package version

import (
	"github.com/spf13/cobra"

	"github.com/wandb/tschart/internal/cliutil"
	"github.com/wandb/tschart/internal/version"
)

// Set at build time using ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewVersionCmd creates a new command that displays version information
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  `Display the version, git commit, and build date of tschart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cliutil.HandleOutput(cmd, map[string]any{
				"version":   version.Version,
				"gitCommit": GitCommit,
				"buildDate": BuildDate,
			})
		},
	}

	cliutil.AddOutputFlags(cmd)

	return cmd
}
