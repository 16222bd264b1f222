package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output string
		extra  outputFlags
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the visible settings with the configured renderer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			doc, err := a.loadDocument(ctx)
			if err != nil {
				return err
			}
			opts, err := a.orchestratorOptions()
			if err != nil {
				return err
			}
			renderOpts, err := extra.renderOptions()
			if err != nil {
				return err
			}
			out, err := orchestrator.New(opts...).Generate(ctx, orchestrator.Request{
				Document:      doc,
				Renderer:      a.cfg.Renderer,
				ThemeName:     a.cfg.Theme,
				ThemeVariant:  a.cfg.ThemeVariant,
				RenderOptions: renderOpts,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	extra.register(cmd)
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
