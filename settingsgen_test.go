package settingsgen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateHTMLDefaults(t *testing.T) {
	out, err := GenerateHTML(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "data-settings-panel") {
		t.Fatalf("expected vanilla panel markup")
	}
}

func TestLoadDirAndRender(t *testing.T) {
	dir := t.TempDir()
	body := "title: Minimal\nsettings:\n  - id: basemap\n    status: true\n    options: [{value: streets}, {value: dark}]\ngroups:\n  - parent: basemap\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out, err := GenerateHTML(context.Background(), doc, "vanilla")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h2>Minimal</h2>") || !strings.Contains(html, `data-setting="basemap"`) {
		t.Fatalf("unexpected output\n%s", html)
	}
}

func TestEmbeddedAssets(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedSchema(), "defaults/dashboard.yaml"); err != nil {
		t.Fatalf("expected embedded schema: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/panel.tmpl"); err != nil {
		t.Fatalf("expected embedded panel template: %v", err)
	}
	if _, err := fs.ReadFile(StylesheetFS(), "settingsgen-vanilla.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}
