package panel

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/group"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

func visibleIDs(snap Snapshot) [][]string {
	out := make([][]string, 0, len(snap.Sections))
	for _, section := range snap.Sections {
		ids := make([]string, 0, len(section.Controls))
		for _, ctrl := range section.Controls {
			ids = append(ids, ctrl.ID)
		}
		out = append(out, ids)
	}
	return out
}

func embeddedPanel(t *testing.T) *Panel {
	t.Helper()
	doc, err := schema.LoadFS(schema.EmbeddedFS())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	p, err := FromDocument(doc, nil)
	if err != nil {
		t.Fatalf("panel: %v", err)
	}
	t.Cleanup(p.Close)
	return p
}

func TestPanel_SeedsDefaultsAndComposes(t *testing.T) {
	p := embeddedPanel(t)

	snap, err := p.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Title != "Dominica Digital Twin" {
		t.Fatalf("unexpected title %q", snap.Title)
	}
	want := [][]string{
		{"basemap"},
		{"floodLayer"},
		{"buildingsLayer", "buildingHeight"},
	}
	if diff := cmp.Diff(want, visibleIDs(snap)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestPanel_RecomputesOnValueChange(t *testing.T) {
	p := embeddedPanel(t)

	var snaps []Snapshot
	unsubscribe := p.Subscribe(func(snap Snapshot, err error) {
		if err != nil {
			t.Errorf("unexpected recompute error: %v", err)
		}
		snaps = append(snaps, snap)
	})
	defer unsubscribe()

	p.SetValue(values.Entry{ID: "floodLayer", StatusValue: "auto"})
	p.Values().SetStatus("floodLayer", "on")

	if len(snaps) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(snaps))
	}
	flood := func(snap Snapshot) []string { return visibleIDs(snap)[1] }
	if diff := cmp.Diff([]string{"floodLayer", "floodOpacity", "rainfallScenario"}, flood(snaps[0])); diff != "" {
		t.Fatalf("auto mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"floodLayer", "floodOpacity", "floodDepthClasses", "rainfallScenario"}, flood(snaps[1])); diff != "" {
		t.Fatalf("on mismatch (-want +got):\n%s", diff)
	}
	ctrl, ok := snaps[1].Control("floodOpacity")
	if !ok || ctrl.Entry.RangeValue != 0.6 {
		t.Fatalf("expected seeded opacity 0.6, got %+v", ctrl.Entry)
	}
}

func TestPanel_ReplaceSchemaNotifies(t *testing.T) {
	p := embeddedPanel(t)

	var got []Snapshot
	p.Subscribe(func(snap Snapshot, err error) {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		got = append(got, snap)
	})

	store := schema.MustNewMapStore(schema.Descriptor{
		ID: "tideGauge", Status: true, Options: []schema.Option{{Value: "roseau"}, {Value: "portsmouth"}},
	})
	p.ReplaceSchema(store, []group.Group{{ID: "tides", Parent: "tideGauge"}})

	if len(got) != 1 {
		t.Fatalf("expected one notification, got %d", len(got))
	}
	if diff := cmp.Diff([][]string{{"tideGauge"}}, visibleIDs(got[0])); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	entry, ok := p.Values().Get("tideGauge")
	if !ok || entry.StatusValue != "roseau" {
		t.Fatalf("expected seeded default, got %+v", entry)
	}
}

func TestPanel_BrokenLayoutReportsLookupError(t *testing.T) {
	store := schema.MustNewMapStore(schema.Descriptor{ID: "basemap", Status: true, Options: []schema.Option{{Value: "streets"}}})
	p := New(store, []group.Group{{Parent: "basemap", Children: []string{"ghost"}}}, nil)
	defer p.Close()

	var notified error
	p.Subscribe(func(_ Snapshot, err error) { notified = err })

	if _, err := p.Snapshot(); !errors.Is(err, schema.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	p.SetValue(values.Entry{ID: "basemap", StatusValue: "streets"})
	if !errors.Is(notified, schema.ErrLookup) {
		t.Fatalf("expected listeners to receive lookup error, got %v", notified)
	}
}

func TestPanel_ReplaceDocumentKeepsSchemaOnError(t *testing.T) {
	p := embeddedPanel(t)
	before := p.Schema()

	doc, err := schema.Parse(schema.SourceFromFile("bad.yaml"), []byte("settings:\n  - id: x\n    parent: y\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := p.ReplaceDocument(doc); !errors.Is(err, schema.ErrConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	if p.Schema() != before {
		t.Fatalf("schema should not change on error")
	}
}

func TestPanel_CloseStopsNotifications(t *testing.T) {
	p := embeddedPanel(t)
	calls := 0
	p.Subscribe(func(Snapshot, error) { calls++ })
	p.Close()
	p.Values().SetStatus("floodLayer", "on")
	p.ReplaceSchema(p.Schema(), nil)
	doc, err := schema.LoadFS(schema.EmbeddedFS())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if err := p.ReplaceDocument(doc); err != nil {
		t.Fatalf("replace document: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no notifications after Close, got %d", calls)
	}
}
