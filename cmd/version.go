package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/exemplar-check/internal/scenario"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "exemplar-check %s (scenario table %s)\n", Version, scenario.DefaultVersion)
		},
	}
}
