package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/testsupport"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	err          error
}

func (s *stubDriver) Range(_ context.Context, cfg RangeConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Choose(_ context.Context, cfg ChoiceConfig) (int, error) {
	if s.err != nil {
		return -1, s.err
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Notice(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func dashboardPanel(t *testing.T, initial ...values.Entry) *panel.Panel {
	return testsupport.DashboardPanel(t, initial...)
}

func snapshotOf(t *testing.T, p *panel.Panel) panel.Snapshot {
	return testsupport.MustSnapshot(t, p)
}

func decode(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	return got
}

func TestRender_LiveRevealsGatedChildren(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{1, 1, 0, 3, 0},
		inputs:    []string{"0.4"},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p := dashboardPanel(t)

	out, err := r.Render(context.Background(), snapshotOf(t, p), render.RenderOptions{Live: p})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{
		"basemap":           "satellite",
		"floodLayer":        "on",
		"floodOpacity":      0.4,
		"floodDepthClasses": "three",
		"rainfallScenario":  "maria",
		"buildingsLayer":    "off",
	}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantPrompts := []string{
		"Basemap",
		"Flood extent",
		"  Flood opacity",
		"  Depth classes",
		"  Rainfall scenario",
		"Buildings",
	}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{"Dominica Digital Twin", "Base map", "Flooding", "Buildings"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	if entry, _ := p.Values().Get("floodLayer"); entry.StatusValue != "on" {
		t.Fatalf("expected answers to be written to the value store, got %+v", entry)
	}
}

func TestRender_RangeValidationRetries(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0, 2, 0, 1},
		inputs:    []string{"5", "abc", "0.33", "0.25", "2"},
	}
	r, err := New(WithPromptDriver(driver), WithPrefixes(Prefixes{Error: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p := dashboardPanel(t)

	out, err := r.Render(context.Background(), snapshotOf(t, p), render.RenderOptions{Live: p, Title: "Layers"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	got := decode(t, out)
	if got["floodOpacity"] != 0.25 || got["buildingHeight"] != 2.0 || got["floodLayer"] != "auto" {
		t.Fatalf("unexpected values: %v", got)
	}
	if _, ok := got["floodDepthClasses"]; ok {
		t.Fatalf("depth classes are gated on \"on\" and must not be collected for \"auto\"")
	}

	var invalid []string
	for _, msg := range driver.infoMessages {
		if strings.HasPrefix(msg, "! Invalid floodOpacity") {
			invalid = append(invalid, msg)
		}
	}
	wantInvalid := []string{
		"! Invalid floodOpacity: must be between 0 and 1",
		"! Invalid floodOpacity: must be a number",
		"! Invalid floodOpacity: must be a multiple of 0.05 from 0",
	}
	if diff := cmp.Diff(wantInvalid, invalid); diff != "" {
		t.Fatalf("validation messages mismatch (-want +got):\n%s", diff)
	}
	if driver.infoMessages[0] != "Layers" {
		t.Fatalf("expected title override first, got %q", driver.infoMessages[0])
	}
}

func TestRender_WithoutLiveKeepsSnapshotVisibility(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0, 1, 1},
		inputs:    []string{"1.5"},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p := dashboardPanel(t)

	out, err := r.Render(context.Background(), snapshotOf(t, p), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := map[string]any{
		"basemap":        "streets",
		"floodLayer":     "on",
		"buildingsLayer": "on",
		"buildingHeight": 1.5,
	}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if entry, _ := p.Values().Get("floodLayer"); entry.StatusValue != "off" {
		t.Fatalf("static render must not write to the panel, got %+v", entry)
	}
}

func TestRender_AbortPropagates(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{err: ErrAborted}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p := dashboardPanel(t)
	_, err = r.Render(context.Background(), snapshotOf(t, p), render.RenderOptions{Live: p})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_InvalidSelection(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{selectIdx: []int{9}}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p := dashboardPanel(t)
	_, err = r.Render(context.Background(), snapshotOf(t, p), render.RenderOptions{Live: p})
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestRender_PrettyOutput(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{3, 0, 0}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
	p := dashboardPanel(t)
	out, err := r.Render(context.Background(), snapshotOf(t, p), render.RenderOptions{Live: p})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "basemap: dark\nbuildingsLayer: off\nfloodLayer: off\n"
	if string(out) != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestPlainText(t *testing.T) {
	got := plainText("Colour ramp used for <strong>water depth</strong> bands.")
	if got != "Colour ramp used for water depth bands." {
		t.Fatalf("unexpected plain text %q", got)
	}
}

func TestRender_ErrorsSubsetAndHiddenFields(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}, inputs: []string{"0.3"}}
	r, err := New(WithPromptDriver(driver), WithPrefixes(Prefixes{Error: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p := dashboardPanel(t)

	out, err := r.Render(context.Background(), snapshotOf(t, p), render.RenderOptions{
		Live:         p,
		Subset:       render.Subset{Settings: []string{"floodLayer", "floodOpacity"}},
		Errors:       map[string][]string{"floodLayer": {"Layer unavailable offline"}, "form": {"Read-only preview"}},
		HiddenFields: map[string]string{"revision": "abc", "floodLayer": "ignored"},
		Translator: render.TranslatorFunc(func(_ string, key string, _ ...any) (string, error) {
			if key == "settings.floodOpacity.label" {
				return "Opacité", nil
			}
			return "", nil
		}),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{"floodLayer": "on", "floodOpacity": 0.3, "revision": "abc"}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Flood extent", "  Opacité"}, driver.prompts); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{"Dominica Digital Twin", "! Read-only preview", "Flooding", "! Layer unavailable offline"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_AnswerHook(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{0, 1}}
	var seen []string
	hook := func(_ context.Context, entry values.Entry) error {
		seen = append(seen, entry.ID)
		if entry.ID == "floodLayer" && entry.StatusValue == "on" {
			return errors.New("flood layer locked")
		}
		return nil
	}
	r, err := New(WithPromptDriver(driver), WithAnswerHook(hook))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p := dashboardPanel(t)

	_, err = r.Render(context.Background(), snapshotOf(t, p), render.RenderOptions{Live: p})
	if err == nil || !strings.Contains(err.Error(), `answer "floodLayer": flood layer locked`) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if diff := cmp.Diff([]string{"basemap", "floodLayer"}, seen); diff != "" {
		t.Fatalf("hook calls mismatch (-want +got):\n%s", diff)
	}
	if entry, _ := p.Values().Get("floodLayer"); entry.StatusValue != "off" {
		t.Fatalf("rejected answer must not reach the value store, got %+v", entry)
	}
}

func TestWithPageSize(t *testing.T) {
	r, err := New(WithPageSize(4))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if got := r.driver.(*surveyDriver).pageSize; got != 4 {
		t.Fatalf("page size = %d, want 4", got)
	}

	custom := &stubDriver{}
	if _, err := New(WithPromptDriver(custom), WithPageSize(4)); err != nil {
		t.Fatalf("page size must be ignored for custom drivers: %v", err)
	}
}
