package schema

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Title    string        `yaml:"title"`
	Settings []Descriptor  `yaml:"settings"`
	Groups   []GroupConfig `yaml:"groups"`
}

// LoadFS walks the provided filesystem and merges every JSON/YAML schema file
// into one Document. Files are visited in lexical order. When fsys is nil the
// returned document is empty.
func LoadFS(fsys fs.FS) (*Document, error) {
	doc := NewDocument("")
	if fsys == nil {
		return doc, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		file, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		if doc.Title == "" {
			doc.Title = strings.TrimSpace(file.Title)
		}
		return doc.Merge(SourceFromFS(path), file.Settings, file.Groups)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse decodes a single JSON or YAML schema payload.
func Parse(src Source, data []byte) (*Document, error) {
	location := locationOf(src)
	file, err := parseDocument(data, location)
	if err != nil {
		return nil, err
	}
	doc := NewDocument(strings.TrimSpace(file.Title))
	if err := doc.Merge(src, file.Settings, file.Groups); err != nil {
		return nil, err
	}
	return doc, nil
}

// parseDocument accepts JSON as well since it is a YAML subset.
func parseDocument(data []byte, source string) (documentFile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}
	var doc documentFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: %w", source, err)
	}
	return doc, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// IsSchemaFile reports whether path has a schema file extension.
func IsSchemaFile(path string) bool {
	return isSchemaFile(path)
}
