package vanilla

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-settingsgen/pkg/group"
	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/testsupport"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

func floodSnapshot(t *testing.T, floodStatus string) panel.Snapshot {
	t.Helper()
	p := testsupport.DashboardPanel(t, values.Entry{ID: "floodLayer", StatusValue: floodStatus})
	return testsupport.MustSnapshot(t, p)
}

func mustRender(t *testing.T, r *Renderer, snap panel.Snapshot, opts render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), snap, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_RendersVisibleControlsOnly(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	html := mustRender(t, r, floodSnapshot(t, "on"), render.RenderOptions{})

	for _, want := range []string{
		`<h2>Dominica Digital Twin</h2>`,
		`data-settings-group="flood"`,
		`<legend>Flooding</legend>`,
		`data-setting="floodLayer" data-control="segmented"`,
		`value="on" checked`,
		`data-setting="floodOpacity" data-control="slider"`,
		`min="0" max="1" step="0.05" value="0.6"`,
		`data-setting="rainfallScenario" data-control="select"`,
		`<option value="rp100" selected>100-year</option>`,
		`data-setting="buildingHeight"`,
		`settingsgen-control--child`,
		`<strong>water depth</strong>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, "buildingNotes") {
		t.Fatalf("settings without a control kind must not render")
	}
}

func TestRenderer_HiddenChildrenAbsent(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	html := mustRender(t, r, floodSnapshot(t, "off"), render.RenderOptions{Title: "Layers"})

	if !strings.Contains(html, "<h2>Layers</h2>") {
		t.Fatalf("expected title override")
	}
	for _, hidden := range []string{"floodOpacity", "floodDepthClasses", "rainfallScenario"} {
		if strings.Contains(html, hidden) {
			t.Fatalf("expected %s to be absent when flood layer is off", hidden)
		}
	}
}

func TestRenderer_AppliesTheme(t *testing.T) {
	files := fstest.MapFS{
		"templates/panel.tmpl":              {Data: []byte(`<div style="{{ theme.style }}" data-theme="{{ theme.name }}/{{ theme.variant }}" href="{{ stylesheet }}">{% for s in sections %}{% for c in s.controls %}{{ c|safe }}{% endfor %}{% endfor %}</div>`)},
		"templates/controls/select.tmpl":    {Data: []byte(`[select {{ control.id }}]`)},
		"templates/controls/segmented.tmpl": {Data: []byte(`[segmented {{ control.id }}]`)},
		"templates/controls/slider.tmpl":    {Data: []byte(`[slider {{ control.id }}]`)},
		"themes/acme/knob.tmpl":             {Data: []byte(`[knob {{ control.id }} {{ control.value|decimal }}]`)},
	}
	r, err := New(WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		Partials: map[string]string{
			"settings.slider": "themes/acme/knob.tmpl",
			"forms.input":     "ignored.tmpl",
		},
		CSSVars: map[string]string{"--brand": "#0b7285", "--surface": "#111"},
		AssetURL: func(key string) string {
			return "/themes/acme/" + key
		},
	}
	html := mustRender(t, r, floodSnapshot(t, "on"), render.RenderOptions{Theme: cfg})

	for _, want := range []string{
		`style="--brand: #0b7285; --surface: #111;"`,
		`data-theme="acme/dark"`,
		`href="/themes/acme/vanilla.stylesheet"`,
		`[segmented floodLayer]`,
		`[knob floodOpacity 0.6]`,
		`[select rainfallScenario]`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
}

func TestRenderer_UnknownWidgetFallsBackToKind(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	store := schema.MustNewMapStore(schema.Descriptor{
		ID: "tide", SelectRange: true, Widget: "dial", Range: &schema.Range{Min: 0, Max: 2, Step: 0.5, Unit: "m"},
	})
	vals := values.NewStore()
	values.Seed(vals, store.Descriptors())
	controls, err := group.Compose(store, vals, group.Group{ID: "tides", Parent: "tide"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	snap := panel.Snapshot{Sections: []panel.Section{{ID: "tides", Controls: controls}}}

	html := mustRender(t, r, snap, render.RenderOptions{})
	if !strings.Contains(html, `data-control="slider"`) || !strings.Contains(html, "0m</output>") {
		t.Fatalf("expected slider fallback\n%s", html)
	}
}

func composeSnapshot(t *testing.T, descs ...schema.Descriptor) panel.Snapshot {
	t.Helper()
	store := schema.MustNewMapStore(descs...)
	vals := values.NewStore()
	values.Seed(vals, store.Descriptors())
	var sections []panel.Section
	for _, desc := range descs {
		controls, err := group.Compose(store, vals, group.Group{ID: desc.ID, Parent: desc.ID})
		if err != nil {
			t.Fatalf("compose %s: %v", desc.ID, err)
		}
		sections = append(sections, panel.Section{ID: desc.ID, Controls: controls})
	}
	return panel.Snapshot{Sections: sections}
}

func TestRenderer_ContinuousRangeAcceptsAnyStep(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	snap := composeSnapshot(t,
		schema.Descriptor{ID: "haze", SelectRange: true, Default: "0.37", Range: &schema.Range{Min: 0, Max: 1}},
		schema.Descriptor{ID: "glow", SelectRange: true},
	)

	html := mustRender(t, r, snap, render.RenderOptions{})
	for _, want := range []string{
		`name="haze" min="0" max="1" step="any" value="0.37"`,
		`name="glow" min="0" max="1" step="any" value="0"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
}

func TestRenderer_WidgetHintKeepsControlKind(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	snap := composeSnapshot(t,
		schema.Descriptor{ID: "opacity", SelectRange: true, Widget: "select", Range: &schema.Range{Min: 0, Max: 1, Step: 0.1}},
		schema.Descriptor{ID: "scenario", Status: true, Widget: "slider", Options: []schema.Option{{Value: "rp10"}, {Value: "rp100"}}},
	)

	html := mustRender(t, r, snap, render.RenderOptions{})
	for _, want := range []string{
		`data-setting="opacity" data-control="slider"`,
		`<input type="range" id="setting-opacity"`,
		`data-setting="scenario" data-control="segmented"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected output to contain %q\n%s", want, html)
		}
	}
	if strings.Contains(html, `<select id="setting-opacity"`) {
		t.Fatalf("range setting must not render as a select\n%s", html)
	}
}

func TestRenderer_ContextCancelled(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, panel.Snapshot{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestSanitize(t *testing.T) {
	got := sanitizeHelp(`Depth <script>alert(1)</script><em>bands</em> <a href="https://example.org">docs</a>`)
	if strings.Contains(got, "script") || !strings.Contains(got, "<em>bands</em>") || !strings.Contains(got, `rel="nofollow`) {
		t.Fatalf("unexpected help sanitising: %q", got)
	}
	icon := sanitizeIcon(`<svg viewBox="0 0 10 10" onload="x()"><path d="M0 0L10 10"/></svg><img src=x>`)
	if strings.Contains(icon, "onload") || strings.Contains(icon, "img") || !strings.Contains(icon, "<path") {
		t.Fatalf("unexpected icon sanitising: %q", icon)
	}
}

func TestRenderer_ErrorsHiddenFieldsAndSubset(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	snap := floodSnapshot(t, "on")
	html := mustRender(t, r, snap, render.RenderOptions{
		Subset: render.Subset{Sections: []string{"flood"}},
		Errors: map[string][]string{
			"/settings/floodOpacity": {"Opacity must be at most 1"},
			"form":                   {"Panel is read-only"},
			"groups.flood":           {"Flood models are stale"},
		},
		HiddenFields: render.MergeHiddenFields(nil,
			render.CSRFToken("_csrf", "t0k"),
			render.RevisionField("revision", snap),
		),
	})

	for _, want := range []string{
		`<p class="settingsgen-error" role="alert">Panel is read-only</p>`,
		`<input type="hidden" name="_csrf" value="t0k">`,
		`<input type="hidden" name="revision" value="` + render.Revision(snap) + `">`,
		`value="0.6" aria-invalid="true">`,
		`<p class="settingsgen-error" role="alert">Opacity must be at most 1</p>`,
		"<legend>Flooding</legend>\n    <p class=\"settingsgen-error\" role=\"alert\">Flood models are stale</p>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output\n%s", want, html)
		}
	}
	for _, absent := range []string{`data-settings-group="base"`, `data-settings-group="buildings"`} {
		if strings.Contains(html, absent) {
			t.Fatalf("expected %q to be filtered out\n%s", absent, html)
		}
	}
}

func TestRenderer_Localizes(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	translations := map[string]string{
		"settings.title":                 "Jumeau numérique",
		"settings.floodLayer.options.on": "Activé",
	}
	html := mustRender(t, r, floodSnapshot(t, "on"), render.RenderOptions{
		Locale: "fr",
		Translator: render.TranslatorFunc(func(_ string, key string, _ ...any) (string, error) {
			return translations[key], nil
		}),
	})
	if !strings.Contains(html, "<h2>Jumeau numérique</h2>") || !strings.Contains(html, "> Activé</label>") {
		t.Fatalf("expected translated output\n%s", html)
	}
}
