package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/panel"
)

// Translation keys looked up by LocalizeSnapshot. "%s" is the setting, group
// or option id.
const (
	PanelTitleKey         = "settings.title"
	SettingLabelKey       = "settings.%s.label"
	SettingDescriptionKey = "settings.%s.description"
	SettingOptionKey      = "settings.%s.options.%s"
	SectionTitleKey       = "settings.groups.%s.title"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator is not configured")

// Translator resolves a message key for locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate delegates to the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the text used when key has no
// translation. args carries {"default": fallback}.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// LocalizeSnapshot returns a copy of snap with labels, descriptions, option
// labels and section titles translated. Keys without a translation keep the
// schema text.
func LocalizeSnapshot(snap panel.Snapshot, opts RenderOptions) panel.Snapshot {
	if opts.Translator == nil && opts.OnMissing == nil {
		return snap
	}
	t, locale, onMissing := opts.Translator, opts.Locale, opts.OnMissing

	out := panel.Snapshot{
		Title:    snap.Title,
		Sections: make([]panel.Section, 0, len(snap.Sections)),
	}
	if out.Title != "" {
		out.Title = translate(locale, PanelTitleKey, snap.Title, t, onMissing)
	}
	for _, section := range snap.Sections {
		localized := section
		if section.Title != "" {
			localized.Title = translate(locale, keyFor(SectionTitleKey, section.ID), section.Title, t, onMissing)
		}
		localized.Controls = append(localized.Controls[:0:0], section.Controls...)
		for idx := range localized.Controls {
			ctrl := &localized.Controls[idx]
			desc := ctrl.Descriptor.Clone()
			desc.Label = translate(locale, keyFor(SettingLabelKey, ctrl.ID), desc.DisplayLabel(), t, onMissing)
			if desc.Description != "" {
				desc.Description = translate(locale, keyFor(SettingDescriptionKey, ctrl.ID), desc.Description, t, onMissing)
			}
			for o := range desc.Options {
				opt := &desc.Options[o]
				opt.Label = translate(locale, keyFor(SettingOptionKey, ctrl.ID, opt.Value), opt.DisplayLabel(), t, onMissing)
			}
			ctrl.Descriptor = desc
		}
		out.Sections = append(out.Sections, localized)
	}
	return out
}

func keyFor(format string, ids ...string) string {
	key := format
	for _, id := range ids {
		key = strings.Replace(key, "%s", id, 1)
	}
	return key
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		return fallback
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
