package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplars"
)

var flagListVerbose bool

func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered exemplars in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := catalog.Build(hclog.NewNullLogger(), exemplars.Constructors()...)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tNAME\tANNOTATIONS\tCONTAINS")
			for e := range registry.All() {
				var classes []string
				for _, c := range e.Contains() {
					classes = append(classes, string(c))
				}
				contains := strings.Join(classes, ",")
				if contains == "" {
					contains = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Kind().Slug(), e.Info().Name, len(e.Annotations()), contains)
				if flagListVerbose {
					info := e.Info()
					fmt.Fprintf(w, "\t%s\t\t\n", info.Description)
					for _, r := range info.Remediation {
						fmt.Fprintf(w, "\t  fix: %s\t\t\n", r)
					}
				}
			}
			return w.Flush()
		},
	}
	listCmd.Flags().BoolVarP(&flagListVerbose, "verbose", "v", false, "Show descriptions and remediation")
	return listCmd
}
