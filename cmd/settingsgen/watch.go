package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-settingsgen/pkg/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the schema directory on change and re-render the panel",
		Long: `watch keeps a panel live while the schema directory is edited. Each
successful reload re-renders the panel to --output, or logs a summary when no
output is set. A schema that fails validation is rejected and the previous one
stays live.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.SchemaDir == "" {
				return errors.New("watch requires --schema-dir")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			doc, err := a.loadDocument(ctx)
			if err != nil {
				return err
			}
			p, err := panel.FromDocument(doc, nil, panel.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer p.Close()

			html, err := vanilla.New()
			if err != nil {
				return err
			}
			emit := func(snap panel.Snapshot) {
				controls := 0
				for _, section := range snap.Sections {
					controls += len(section.Controls)
				}
				if output == "" {
					a.logger.Info("panel recomputed",
						zap.String("title", snap.Title),
						zap.Int("sections", len(snap.Sections)),
						zap.Int("controls", controls))
					return
				}
				out, err := html.Render(ctx, snap, render.RenderOptions{})
				if err != nil {
					a.logger.Error("render panel", zap.Error(err))
					return
				}
				if err := os.WriteFile(output, out, 0o644); err != nil {
					a.logger.Error("write panel", zap.String("path", output), zap.Error(err))
					return
				}
				a.logger.Info("panel written", zap.String("path", output), zap.Int("controls", controls))
			}

			snap, err := p.Snapshot()
			if err != nil {
				return err
			}
			emit(snap)
			unsubscribe := p.Subscribe(func(snap panel.Snapshot, err error) {
				if err != nil {
					a.logger.Warn("panel recompute failed", zap.Error(err))
					return
				}
				emit(snap)
			})
			defer unsubscribe()

			w, err := watch.New(a.cfg.SchemaDir, p,
				watch.WithLogger(a.logger),
				watch.WithDebounce(a.cfg.WatchDebounce),
			)
			if err != nil {
				return err
			}
			defer w.Stop()
			if err := w.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			stats := w.Stats()
			a.logger.Info("watch finished",
				zap.Int("events", stats.Events),
				zap.Int("reloads", stats.Reloads),
				zap.Int("failures", stats.Failures))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to re-render on every reload")
	return cmd
}
