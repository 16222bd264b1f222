package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingsgen/pkg/render"
)

// outputFlags are shared by render and edit.
type outputFlags struct {
	sections []string
	settings []string
	hidden   map[string]string
	errors   string
	locale   string
	messages string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.sections, "section", nil, "only render these groups")
	flags.StringSliceVar(&f.settings, "setting", nil, "only render these settings")
	flags.StringToStringVar(&f.hidden, "hidden", nil, "extra name=value pairs emitted with the output")
	flags.StringVar(&f.errors, "errors", "", "JSON file mapping setting ids or paths to error messages")
	flags.StringVar(&f.locale, "locale", "", "locale passed to the translator")
	flags.StringVar(&f.messages, "messages", "", "YAML file of translation keys to messages")
}

func (f *outputFlags) renderOptions() (render.RenderOptions, error) {
	opts := render.RenderOptions{
		Subset:       render.Subset{Sections: f.sections, Settings: f.settings},
		Locale:       f.locale,
		HiddenFields: render.MergeHiddenFields(f.hidden),
	}
	if f.errors != "" {
		data, err := os.ReadFile(f.errors)
		if err != nil {
			return opts, fmt.Errorf("read errors: %w", err)
		}
		if err := json.Unmarshal(data, &opts.Errors); err != nil {
			return opts, fmt.Errorf("parse errors %s: %w", f.errors, err)
		}
	}
	if f.messages != "" {
		data, err := os.ReadFile(f.messages)
		if err != nil {
			return opts, fmt.Errorf("read messages: %w", err)
		}
		var catalog messageCatalog
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return opts, fmt.Errorf("parse messages %s: %w", f.messages, err)
		}
		opts.Translator = catalog
	}
	return opts, nil
}

// messageCatalog is a flat key→message map. The locale is ignored; load one
// file per locale.
type messageCatalog map[string]string

func (c messageCatalog) Translate(_ string, key string, args ...any) (string, error) {
	msg, ok := c[key]
	if !ok {
		return "", fmt.Errorf("no message for %q", key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...), nil
	}
	return msg, nil
}
