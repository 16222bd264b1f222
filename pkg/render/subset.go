package render

import (
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/panel"
)

// Subset limits a render to some sections or settings. A section listed in
// Sections keeps all its visible controls; otherwise only controls listed in
// Settings survive. An empty Subset keeps everything.
type Subset struct {
	Sections []string
	Settings []string
}

// Empty reports whether the subset filters nothing.
func (s Subset) Empty() bool {
	return len(tokenSet(s.Sections)) == 0 && len(tokenSet(s.Settings)) == 0
}

// ApplySubset returns a copy of snap without the sections and controls that
// fall outside subset. Sections left without controls are dropped.
func ApplySubset(snap panel.Snapshot, subset Subset) panel.Snapshot {
	sections := tokenSet(subset.Sections)
	settings := tokenSet(subset.Settings)
	if len(sections) == 0 && len(settings) == 0 {
		return snap
	}

	out := panel.Snapshot{Title: snap.Title}
	for _, section := range snap.Sections {
		if _, ok := sections[section.ID]; ok {
			out.Sections = append(out.Sections, section)
			continue
		}
		filtered := section
		filtered.Controls = nil
		for _, ctrl := range section.Controls {
			if _, ok := settings[ctrl.ID]; ok {
				filtered.Controls = append(filtered.Controls, ctrl)
			}
		}
		if len(filtered.Controls) > 0 {
			out.Sections = append(out.Sections, filtered)
		}
	}
	return out
}

func tokenSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out[trimmed] = struct{}{}
		}
	}
	return out
}
