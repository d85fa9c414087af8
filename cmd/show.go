package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplars"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind>",
		Short: "Describe one exemplar in detail",
		Long: `show prints everything known about one vulnerability kind: its
description, an exploit walkthrough, affected platforms, detection methods,
remediation, and the annotated source/sink lines.`,
		Example: `  exemplar-check show reentrancy
  exemplar-check show LogicError`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			registry, err := catalog.Build(hclog.NewNullLogger(), exemplars.Constructors()...)
			if err != nil {
				return err
			}
			e, err := registry.Get(kind)
			if err != nil {
				return err
			}
			return describe(cmd.OutOrStdout(), e)
		},
	}
}

func describe(w io.Writer, e exemplar.Exemplar) error {
	info := e.Info()
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n", info.Name, strings.Repeat("=", len(info.Name)))
	fmt.Fprintf(&b, "\nDescription:\n%s\n", info.Description)
	fmt.Fprintf(&b, "\nExploit Example:\n%s\n", info.ExploitExample)
	section(&b, "Affected Platforms", info.Platforms)
	section(&b, "Detection Methods", info.Detection)
	section(&b, "Remediation", info.Remediation)

	var classes []string
	for _, c := range e.Contains() {
		classes = append(classes, string(c))
	}
	section(&b, "Contained Failures", classes)

	var lines []string
	for _, a := range e.Annotations() {
		loc := fmt.Sprintf("%s source:%d sink:%d", a.File, a.SourceLine, a.SinkLine)
		if a.Ordinal > 0 {
			loc = fmt.Sprintf("#%d %s", a.Ordinal, loc)
		}
		lines = append(lines, loc)
	}
	section(&b, "Annotations", lines)

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "\n%s:\n", title)
	if len(items) == 0 {
		b.WriteString("  none\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
