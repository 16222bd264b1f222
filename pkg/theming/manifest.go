package theming

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// ParseManifest decodes a YAML (or JSON) theme manifest:
//
//	name: acme
//	version: 1.0.0
//	tokens: {brand: "#0b7285"}
//	templates: {settings.slider: themes/acme/knob.tmpl}
//	assets: {prefix: /themes/acme, files: {vanilla.stylesheet: acme.css}}
//	variants:
//	  dark: {tokens: {brand: "#222222"}}
func ParseManifest(data []byte) (*theme.Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("theming: manifest is empty")
	}
	var file manifestFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("theming: parse manifest: %w", err)
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, errors.New("theming: manifest name is required")
	}

	manifest := &theme.Manifest{
		Name:      strings.TrimSpace(file.Name),
		Version:   file.Version,
		Tokens:    file.Tokens,
		Templates: file.Templates,
		Assets:    theme.Assets{Prefix: file.Assets.Prefix, Files: file.Assets.Files},
	}
	if manifest.Version == "" {
		manifest.Version = "0.0.0"
	}
	if len(file.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(file.Variants))
		for name, variant := range file.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadManifests reads and parses each path from fsys.
func LoadManifests(fsys fs.FS, paths ...string) ([]*theme.Manifest, error) {
	if fsys == nil {
		return nil, errors.New("theming: filesystem is nil")
	}
	manifests := make([]*theme.Manifest, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("theming: read %s: %w", path, err)
		}
		manifest, err := ParseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		manifests = append(manifests, manifest)
	}
	return manifests, nil
}
