package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/renderers/tui"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		extra  outputFlags
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Prompt for each visible setting and print the chosen values",
		Long: `edit walks the panel in the terminal. Answering a parent re-resolves the
panel, so children gated on the new status appear before the next prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			doc, err := a.loadDocument(ctx)
			if err != nil {
				return err
			}

			tuiOpts := []tui.Option{
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithLogger(a.logger),
			}
			if a.driver != nil {
				tuiOpts = append(tuiOpts, tui.WithPromptDriver(a.driver))
			}
			terminal, err := tui.New(tuiOpts...)
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			if err := registry.Register(terminal); err != nil {
				return err
			}

			opts, err := a.orchestratorOptions()
			if err != nil {
				return err
			}
			opts = append(opts,
				orchestrator.WithRegistry(registry),
				orchestrator.WithDefaultRenderer(terminal.Name()),
			)
			renderOpts, err := extra.renderOptions()
			if err != nil {
				return err
			}
			out, err := orchestrator.New(opts...).Generate(ctx, orchestrator.Request{
				Document:      doc,
				RenderOptions: renderOpts,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "json, form or pretty")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	extra.register(cmd)
	return cmd
}
