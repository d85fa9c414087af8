package cmd

import (
	"encoding/json"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplars"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

type annotationEntry struct {
	Kind        string              `json:"kind"`
	Annotations []models.Annotation `json:"annotations"`
}

func newAnnotationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annotations",
		Short: "Print source/sink annotations of every exemplar as JSON",
		Long: `annotations prints the source and sink line pairs of every registered
exemplar, in catalog order, for consumption by external scanners and
documentation tools.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := catalog.Build(hclog.NewNullLogger(), exemplars.Constructors()...)
			if err != nil {
				return err
			}

			entries := make([]annotationEntry, 0, registry.Len())
			for e := range registry.All() {
				entries = append(entries, annotationEntry{Kind: e.Kind().Slug(), Annotations: e.Annotations()})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
}
