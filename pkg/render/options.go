package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// RenderOptions describe per-request data renderers can use to customise
// their output.
type RenderOptions struct {
	// Title overrides the snapshot title.
	Title string
	// Theme carries the resolved theme partials, tokens and asset resolver.
	Theme *theme.RendererConfig
	// Live lets interactive renderers write values back and recompute the
	// visible controls between prompts. Static renderers ignore it.
	Live Live

	// Subset restricts output to some sections or settings.
	Subset Subset

	// Locale and Translator localize labels, descriptions, option labels and
	// section titles. OnMissing customises the text for untranslated keys.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler

	// Errors surfaces server-side feedback keyed by setting id or path. See
	// MapErrorPayload.
	Errors map[string][]string

	// HiddenFields are emitted with the output: hidden inputs in HTML, extra
	// keys in serialized answers.
	HiddenFields map[string]string
}

// Live is the reactive surface interactive renderers drive. *panel.Panel
// satisfies it.
type Live interface {
	Snapshot() (panel.Snapshot, error)
	SetValue(entry values.Entry)
}

// ResolveTitle prefers the explicit option over the snapshot title.
func (o RenderOptions) ResolveTitle(snap panel.Snapshot) string {
	if o.Title != "" {
		return o.Title
	}
	return snap.Title
}

// Prepare applies the subset and localization to snap. Renderers call it on
// every snapshot before building output.
func Prepare(snap panel.Snapshot, opts RenderOptions) panel.Snapshot {
	return LocalizeSnapshot(ApplySubset(snap, opts.Subset), opts)
}
