package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-settingsgen/pkg/group"
	"github.com/goliatone/go-settingsgen/pkg/resolver"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/validation"
	"github.com/goliatone/go-settingsgen/pkg/widgets"
)

func newLintCmd(a *app) *cobra.Command {
	var (
		strict     bool
		valuesFile string
	)
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Validate the schema and report errors and warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			store, err := schema.NewMapStoreUnchecked(doc.Settings...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			blocking := 0
			for _, issue := range doc.Validate(store) {
				level := "error"
				if issue.Warning {
					level = "warning"
				}
				if !issue.Warning || strict {
					blocking++
				}
				fmt.Fprintf(out, "%s: %s\n", level, issue)
			}
			for _, warning := range widgetWarnings(doc.Settings) {
				if strict {
					blocking++
				}
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			if valuesFile != "" {
				raw, err := os.ReadFile(valuesFile)
				if err != nil {
					return fmt.Errorf("lint: read values: %w", err)
				}
				result := validation.ValidateJSON(store, raw)
				for _, issue := range result.Issues {
					blocking++
					if issue.Field == "" {
						fmt.Fprintf(out, "error: %s: %s\n", valuesFile, issue.Message)
						continue
					}
					fmt.Fprintf(out, "error: %s#%s: %s\n", valuesFile, issue.Path, issue.Message)
				}
			}
			a.logger.Debug("lint finished",
				zap.Int("settings", len(doc.Settings)),
				zap.Int("blocking", blocking))
			if blocking > 0 {
				return fmt.Errorf("lint: %d blocking issues", blocking)
			}
			fmt.Fprintf(out, "ok: %d settings, %d groups\n", len(doc.Settings), len(doc.Groups))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	cmd.Flags().StringVar(&valuesFile, "values", "", "JSON file of setting values to check against the schema")
	return cmd
}

// widgetWarnings flags widget hints without a built-in template and hints
// that do not suit the setting's control kind. Renderers fall back to the
// default widget for the kind in both cases.
func widgetWarnings(settings []schema.Descriptor) []string {
	registry := widgets.NewRegistry()
	known := make(map[string]struct{})
	for _, name := range registry.Names() {
		known[name] = struct{}{}
	}
	var out []string
	for _, desc := range settings {
		hint := strings.TrimSpace(desc.Widget)
		if hint == "" {
			continue
		}
		kind := resolver.ResolveDescriptor(desc, nil)
		if !kind.Visible() {
			continue
		}
		if _, ok := known[hint]; !ok {
			out = append(out, fmt.Sprintf("setting %q: unknown widget %q, rendered as %s", desc.ID, hint, widgets.DefaultFor(kind)))
			continue
		}
		if !widgets.Suits(hint, kind) {
			unhinted := desc
			unhinted.Widget = ""
			fallback, _ := registry.Resolve(group.Control{ID: desc.ID, Kind: kind, Descriptor: unhinted})
			out = append(out, fmt.Sprintf("setting %q: widget %q does not suit a %s control, rendered as %s", desc.ID, hint, kind, fallback))
		}
	}
	return out
}
