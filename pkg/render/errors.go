package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/panel"
)

// ErrorMapping routes an error payload to the place a renderer shows it: next
// to a visible control, under a section legend, or at the top of the panel.
type ErrorMapping struct {
	Settings map[string][]string
	Sections map[string][]string
	Panel    []string
}

// For returns the messages attached to setting id.
func (m ErrorMapping) For(id string) []string {
	return m.Settings[id]
}

// ForSection returns the messages attached to section id.
func (m ErrorMapping) ForSection(id string) []string {
	return m.Sections[id]
}

// MergePanelErrors appends extras to existing, trimming blanks and dropping
// repeats while keeping first-seen order.
func MergePanelErrors(existing []string, extras ...string) []string {
	var set messageSet
	set.add(existing...)
	set.add(extras...)
	return set.list()
}

// MapErrorPayload attaches messages to snap. Keys name a setting by id, either
// bare ("floodOpacity") or as a path ("/settings/floodOpacity",
// "data.floodOpacity"); "groups.<id>" and "sections/<id>" address a section.
// Messages whose target is not visible, and panel keys such as "" or
// "non_field_errors", end up at panel level so they are never dropped. Keys are
// visited in sorted order so merged messages keep a stable order.
func MapErrorPayload(snap panel.Snapshot, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	controls := make(map[string]struct{})
	sections := make(map[string]struct{}, len(snap.Sections))
	for _, section := range snap.Sections {
		sections[section.ID] = struct{}{}
		for _, ctrl := range section.Controls {
			controls[ctrl.ID] = struct{}{}
		}
	}

	settingMsgs := make(map[string]*messageSet)
	sectionMsgs := make(map[string]*messageSet)
	var panelMsgs messageSet
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		messages := payload[key]
		target := parseErrorKey(key)
		switch {
		case target.section != "":
			if _, ok := sections[target.section]; ok {
				setFor(sectionMsgs, target.section).add(messages...)
				continue
			}
		case target.setting != "":
			if _, ok := controls[target.setting]; ok {
				setFor(settingMsgs, target.setting).add(messages...)
				continue
			}
		}
		panelMsgs.add(messages...)
	}

	mapping.Settings = collapse(settingMsgs)
	mapping.Sections = collapse(sectionMsgs)
	mapping.Panel = panelMsgs.list()
	return mapping
}

type errorTarget struct {
	setting string
	section string
}

var wrapperSegments = map[string]struct{}{
	"body":     {},
	"request":  {},
	"payload":  {},
	"data":     {},
	"settings": {},
	"values":   {},
}

var panelKeys = map[string]struct{}{
	"":                 {},
	"form":             {},
	"panel":            {},
	"__all__":          {},
	"non_field_errors": {},
	"non-field-errors": {},
}

// parseErrorKey accepts JSON pointers, dotted paths and bracket indexes. The
// first segment that is not a transport wrapper names the target.
func parseErrorKey(key string) errorTarget {
	segments := splitKey(key)
	for len(segments) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(segments[0])]; !ok {
			break
		}
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return errorTarget{}
	}
	head := strings.ToLower(segments[0])
	if _, ok := panelKeys[head]; ok {
		return errorTarget{}
	}
	if (head == "groups" || head == "sections") && len(segments) > 1 {
		return errorTarget{section: segments[1]}
	}
	return errorTarget{setting: segments[0]}
}

func splitKey(key string) []string {
	parts := strings.FieldsFunc(strings.TrimSpace(key), func(r rune) bool {
		switch r {
		case '.', '/', '[', ']', '#', '$':
			return true
		}
		return false
	})
	for idx, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[idx] = strings.ReplaceAll(part, "~0", "~")
	}
	return parts
}

// messageSet keeps trimmed, unique messages in insertion order.
type messageSet struct {
	seen  map[string]struct{}
	items []string
}

func (s *messageSet) add(messages ...string) {
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}
		if s.seen == nil {
			s.seen = make(map[string]struct{})
		}
		if _, dup := s.seen[message]; dup {
			continue
		}
		s.seen[message] = struct{}{}
		s.items = append(s.items, message)
	}
}

func (s *messageSet) list() []string {
	if s == nil || len(s.items) == 0 {
		return nil
	}
	return s.items
}

func setFor(sets map[string]*messageSet, id string) *messageSet {
	set, ok := sets[id]
	if !ok {
		set = &messageSet{}
		sets[id] = set
	}
	return set
}

func collapse(sets map[string]*messageSet) map[string][]string {
	out := make(map[string][]string, len(sets))
	for id, set := range sets {
		if items := set.list(); items != nil {
			out[id] = items
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
