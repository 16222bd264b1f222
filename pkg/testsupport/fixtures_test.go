package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/values"
)

func TestDashboardPanelVisibility(t *testing.T) {
	off := MustSnapshot(t, DashboardPanel(t))
	if diff := cmp.Diff([]string{"basemap", "floodLayer", "buildingsLayer", "buildingHeight"}, VisibleIDs(off)); diff != "" {
		t.Fatalf("visible ids mismatch (-want +got):\n%s", diff)
	}

	on := MustSnapshot(t, DashboardPanel(t, values.Entry{ID: "floodLayer", StatusValue: "on"}))
	want := []string{"basemap", "floodLayer", "floodOpacity", "floodDepthClasses", "rainfallScenario", "buildingsLayer", "buildingHeight"}
	if diff := cmp.Diff(want, VisibleIDs(on)); diff != "" {
		t.Fatalf("visible ids mismatch (-want +got):\n%s", diff)
	}
}

func TestGoldenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.golden")
	t.Setenv("UPDATE_GOLDENS", "1")
	if !WriteMaybeGolden(t, path, []byte("panel")) {
		t.Fatalf("expected golden to be written")
	}
	if diff := CompareGolden("panel", string(MustReadGolden(t, path))); diff != "" {
		t.Fatalf("golden mismatch (-want +got):\n%s", diff)
	}

	t.Setenv("UPDATE_GOLDENS", "")
	if WriteMaybeGolden(t, path, []byte("other")) {
		t.Fatalf("expected no write without UPDATE_GOLDENS")
	}
}
