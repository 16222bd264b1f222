// Command settingsgen renders, edits, lints and watches settings schemas.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-settingsgen/internal/config"
	"github.com/goliatone/go-settingsgen/internal/logging"
	"github.com/goliatone/go-settingsgen/pkg/openapi"
	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
	"github.com/goliatone/go-settingsgen/pkg/renderers/tui"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/theming"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries the resolved configuration and logger shared by subcommands.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	// driver replaces the survey prompts used by edit.
	driver tui.PromptDriver
}

type rootFlags struct {
	schemaDir    string
	openAPI      string
	renderer     string
	theme        string
	themeVariant string
	themeFiles   []string
	preset       string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{logger: zap.NewNop()})
}

func newRootCmdWith(a *app) *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:   "settingsgen",
		Short: "Render conditional settings panels from declarative schemas",
		Long: `settingsgen resolves a settings schema against current values and renders
the visible controls as HTML or as interactive terminal prompts.

Every flag can also be set through a SETTINGSGEN_* environment variable;
flags win when both are present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, flags)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.schemaDir, "schema-dir", "", "directory of YAML/JSON schema files (SETTINGSGEN_SCHEMA_DIR)")
	pf.StringVar(&flags.openAPI, "openapi", "", "OpenAPI document carrying x-setting extensions (SETTINGSGEN_OPENAPI)")
	pf.StringVar(&flags.renderer, "renderer", "", "renderer name (SETTINGSGEN_RENDERER)")
	pf.StringVar(&flags.theme, "theme", "", "theme name (SETTINGSGEN_THEME)")
	pf.StringVar(&flags.themeVariant, "variant", "", "theme variant (SETTINGSGEN_THEME_VARIANT)")
	pf.StringSliceVar(&flags.themeFiles, "theme-file", nil, "theme manifest files (SETTINGSGEN_THEME_FILES)")
	pf.StringVar(&flags.preset, "preset", "", "preset document with label overrides and values (SETTINGSGEN_PRESET)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (SETTINGSGEN_LOG_LEVEL)")

	root.AddCommand(
		newRenderCmd(a),
		newEditCmd(a),
		newLintCmd(a),
		newWatchCmd(a),
		newRenderersCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, flags rootFlags) error {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	changed := cmd.Flags().Changed
	if changed("schema-dir") {
		cfg.SchemaDir = flags.schemaDir
	}
	if changed("openapi") {
		cfg.OpenAPI = flags.openAPI
	}
	if changed("renderer") {
		cfg.Renderer = flags.renderer
	}
	if changed("theme") {
		cfg.Theme = flags.theme
	}
	if changed("variant") {
		cfg.ThemeVariant = flags.themeVariant
	}
	if changed("theme-file") {
		cfg.ThemeFiles = flags.themeFiles
	}
	if changed("preset") {
		cfg.Preset = flags.preset
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// loadDocument reads the configured schema source, falling back to the
// embedded dashboard schema.
func (a *app) loadDocument(ctx context.Context) (*schema.Document, error) {
	switch {
	case a.cfg.OpenAPI != "":
		a.logger.Debug("loading openapi document", zap.String("path", a.cfg.OpenAPI))
		return openapi.LoadFile(ctx, a.cfg.OpenAPI)
	case a.cfg.SchemaDir != "":
		a.logger.Debug("loading schema directory", zap.String("dir", a.cfg.SchemaDir))
		return schema.LoadFS(os.DirFS(a.cfg.SchemaDir))
	default:
		a.logger.Debug("using embedded schema")
		return schema.LoadFS(schema.EmbeddedFS())
	}
}

// orchestratorOptions wires the logger, preset and theme configuration.
func (a *app) orchestratorOptions() ([]orchestrator.Option, error) {
	opts := []orchestrator.Option{orchestrator.WithLogger(a.logger)}

	if a.cfg.Preset != "" {
		data, err := os.ReadFile(a.cfg.Preset)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		opts = append(opts, orchestrator.WithTransformer(preset))
	}

	if len(a.cfg.ThemeFiles) == 0 {
		if a.cfg.Theme != "" {
			return nil, errors.New("a theme requires at least one --theme-file manifest")
		}
		return opts, nil
	}
	manifests := make([]*theme.Manifest, 0, len(a.cfg.ThemeFiles))
	for _, path := range a.cfg.ThemeFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read theme manifest: %w", err)
		}
		manifest, err := theming.ParseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		manifests = append(manifests, manifest)
	}
	selector, err := theming.NewStaticSelector(a.cfg.Theme, a.cfg.ThemeVariant, manifests...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("themes registered", zap.Strings("themes", selector.Themes()))
	return append(opts, orchestrator.WithThemeSelector(selector)), nil
}
