package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/schema"
)

const baseSchema = `title: Watched
settings:
  - id: floodLayer
    status: true
    default: "off"
    options:
      - { value: "off" }
      - { value: "on" }
groups:
  - id: flood
    parent: floodLayer
`

const extendedSchema = `title: Watched
settings:
  - id: floodLayer
    status: true
    default: "on"
    options:
      - { value: "off" }
      - { value: "on" }
  - id: floodOpacity
    parent: floodLayer
    parentStatusCondition: ["on"]
    selectRange: true
    range: { min: 0, max: 1, step: 0.1 }
groups:
  - id: flood
    parent: floodLayer
    children: [floodOpacity]
`

const brokenSchema = `settings:
  - id: floodOpacity
    parent: ghost
    parentStatusCondition: ["on"]
    selectRange: true
`

func writeSchema(t *testing.T, dir, body string) {
	t.Helper()
	writeSchemaFile(t, dir, "settings.yaml", body)
}

func writeSchemaFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
}

func waitReload(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
		return nil
	}
}

func TestWatcher_ReloadsAndKeepsPreviousOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeSchema(t, dir, baseSchema)
	doc, err := schema.LoadFS(os.DirFS(dir))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := panel.FromDocument(doc, nil)
	if err != nil {
		t.Fatalf("panel: %v", err)
	}
	defer p.Close()

	reloads := make(chan error, 4)
	w, err := New(dir, p,
		WithDebounce(50*time.Millisecond),
		WithOnReload(func(err error) { reloads <- err }),
	)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	writeSchema(t, dir, extendedSchema)
	if err := waitReload(t, reloads); err != nil {
		t.Fatalf("expected successful reload, got %v", err)
	}
	snap, err := p.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, ok := snap.Control("floodOpacity"); ok {
		t.Fatalf("existing value off must keep the new child hidden")
	}
	if _, err := p.Schema().Get("floodOpacity"); err != nil {
		t.Fatalf("expected reloaded schema to declare floodOpacity: %v", err)
	}

	writeSchema(t, dir, brokenSchema)
	if err := waitReload(t, reloads); err == nil {
		t.Fatalf("expected broken schema to be rejected")
	}
	if _, err := p.Schema().Get("floodLayer"); err != nil {
		t.Fatalf("previous schema must stay live: %v", err)
	}

	stats := w.Stats()
	if stats.Reloads != 1 || stats.Failures != 1 || stats.LastError == "" {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

const layersSchema = `settings:
  - id: floodLayer
    status: true
    default: "off"
    options:
      - { value: "off" }
      - { value: "on" }
`

const layoutSchema = `title: Split
groups:
  - id: flood
    parent: floodLayer
`

const opacitySchema = `settings:
  - id: floodOpacity
    parent: floodLayer
    parentStatusCondition: ["on"]
    selectRange: true
    range: { min: 0, max: 1 }
`

func TestWatcher_ReloadsNestedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	nested := filepath.Join(dir, "layers")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeSchemaFile(t, dir, "layout.yaml", layoutSchema)
	writeSchemaFile(t, nested, "flood.yaml", layersSchema)
	doc, err := schema.LoadFS(os.DirFS(dir))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := panel.FromDocument(doc, nil)
	if err != nil {
		t.Fatalf("panel: %v", err)
	}
	defer p.Close()

	reloads := make(chan error, 4)
	w, err := New(dir, p,
		WithDebounce(50*time.Millisecond),
		WithOnReload(func(err error) { reloads <- err }),
	)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	writeSchemaFile(t, nested, "flood.yaml", strings.Replace(layersSchema, `default: "off"`, `default: "on"`, 1))
	if err := waitReload(t, reloads); err != nil {
		t.Fatalf("expected nested edit to reload, got %v", err)
	}
	desc, err := p.Schema().Get("floodLayer")
	if err != nil || desc.Default != "on" {
		t.Fatalf("expected nested change to be live, got %+v (%v)", desc, err)
	}

	added := filepath.Join(dir, "extra")
	if err := os.Mkdir(added, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := waitReload(t, reloads); err != nil {
		t.Fatalf("reload after new directory: %v", err)
	}
	writeSchemaFile(t, added, "opacity.yaml", opacitySchema)
	if err := waitReload(t, reloads); err != nil {
		t.Fatalf("reload after edit in new directory: %v", err)
	}
	if _, err := p.Schema().Get("floodOpacity"); err != nil {
		t.Fatalf("expected floodOpacity after reload: %v", err)
	}
}

func TestWatcher_IgnoresNonSchemaFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	calls := 0
	w, err := New(dir, nopTarget{},
		WithDebounce(10*time.Millisecond),
		WithLoader(func(string) (*schema.Document, error) {
			calls++
			return schema.NewDocument(""), nil
		}),
	)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	w.Stop()
	w.Stop()

	if calls != 0 {
		t.Fatalf("expected no reloads for non-schema files, got %d", calls)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatalf("expected start after stop to fail")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", nopTarget{}); err == nil {
		t.Fatalf("expected error for empty dir")
	}
	if _, err := New(t.TempDir(), nil); err == nil {
		t.Fatalf("expected error for nil target")
	}
}

func TestStart_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "missing"), nopTarget{})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()
	if err := w.Start(context.Background()); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

type nopTarget struct{}

func (nopTarget) ReplaceDocument(*schema.Document) error { return nil }
