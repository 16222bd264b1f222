// Package testsupport holds fixtures and golden helpers shared by renderer and
// orchestrator tests.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// DashboardDocument loads the embedded dashboard schema.
func DashboardDocument(t testing.TB) *schema.Document {
	t.Helper()
	doc, err := schema.LoadFS(schema.EmbeddedFS())
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return doc
}

// DashboardPanel builds a panel over the embedded schema with initial values.
// The panel is closed when the test ends.
func DashboardPanel(t testing.TB, initial ...values.Entry) *panel.Panel {
	t.Helper()
	p, err := panel.FromDocument(DashboardDocument(t), values.NewStore(initial...))
	if err != nil {
		t.Fatalf("panel: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

// MustSnapshot recomputes p or fails the test.
func MustSnapshot(t testing.TB, p *panel.Panel) panel.Snapshot {
	t.Helper()
	snap, err := p.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

// VisibleIDs lists control ids in render order.
func VisibleIDs(snap panel.Snapshot) []string {
	var ids []string
	for _, section := range snap.Sections {
		for _, ctrl := range section.Controls {
			ids = append(ids, ctrl.ID)
		}
	}
	return ids
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
