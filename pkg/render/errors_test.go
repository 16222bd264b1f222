package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/testsupport"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

func TestMapErrorPayload(t *testing.T) {
	snap := testsupport.MustSnapshot(t, testsupport.DashboardPanel(t, values.Entry{ID: "floodLayer", StatusValue: "on"}))

	payload := map[string][]string{
		"/settings/floodOpacity":  {"Opacity must be at most 1", " Opacity must be at most 1 "},
		"body.basemap":            {"Unknown basemap"},
		"$.data.rainfallScenario": {"Scenario retired"},
		"non_field_errors":        {"Panel is read-only"},
		"buildingNotes":           {"Notes too long"},
		"floodDepthClasses":       {"  "},
		"groups.flood":            {"Flood models are stale"},
		"/sections/ghost":         {"Ghost section"},
		"#":                       {"Save failed"},
		"data.floodOpacity":       {"Opacity is required"},
	}

	want := render.ErrorMapping{
		Settings: map[string][]string{
			"floodOpacity":     {"Opacity must be at most 1", "Opacity is required"},
			"basemap":          {"Unknown basemap"},
			"rainfallScenario": {"Scenario retired"},
		},
		Sections: map[string][]string{"flood": {"Flood models are stale"}},
		Panel:    []string{"Save failed", "Ghost section", "Notes too long", "Panel is read-only"},
	}
	for run := 0; run < 5; run++ {
		if diff := cmp.Diff(want, render.MapErrorPayload(snap, payload)); diff != "" {
			t.Fatalf("mapping mismatch on run %d (-want +got):\n%s", run, diff)
		}
	}
	got := render.MapErrorPayload(snap, payload)
	if diff := cmp.Diff([]string{"Unknown basemap"}, got.For("basemap")); diff != "" {
		t.Fatalf("For mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Flood models are stale"}, got.ForSection("flood")); diff != "" {
		t.Fatalf("ForSection mismatch (-want +got):\n%s", diff)
	}

	empty := render.MapErrorPayload(snap, nil)
	if empty.Settings != nil || empty.Sections != nil || empty.Panel != nil || empty.For("basemap") != nil {
		t.Fatalf("expected empty mapping, got %+v", empty)
	}
}

func TestMergePanelErrors(t *testing.T) {
	got := render.MergePanelErrors([]string{"a", " b "}, "b", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
