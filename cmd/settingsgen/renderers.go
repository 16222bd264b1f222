package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
)

func newRenderersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "renderers",
		Short: "List the available renderers and their content types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch := orchestrator.New(orchestrator.WithLogger(a.logger))
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range orch.Registry().Describe() {
				marker := ""
				if info.Name == a.cfg.Renderer || (a.cfg.Renderer == "" && info.Default) {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.ContentType, marker)
			}
			return tw.Flush()
		},
	}
}
