package tui

import (
	"sync"

	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// frozen replays a fixed snapshot for callers that render without a live
// panel. Answers are recorded but visibility never changes.
type frozen struct {
	mu      sync.Mutex
	snap    panel.Snapshot
	answers map[string]values.Entry
}

func newFrozen(snap panel.Snapshot) *frozen {
	return &frozen{snap: snap, answers: make(map[string]values.Entry)}
}

func (f *frozen) Snapshot() (panel.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := panel.Snapshot{Title: f.snap.Title, Sections: make([]panel.Section, 0, len(f.snap.Sections))}
	for _, section := range f.snap.Sections {
		copied := section
		copied.Controls = append(copied.Controls[:0:0], section.Controls...)
		for idx, ctrl := range copied.Controls {
			if entry, ok := f.answers[ctrl.ID]; ok {
				copied.Controls[idx].Entry = entry
			}
		}
		out.Sections = append(out.Sections, copied)
	}
	return out, nil
}

func (f *frozen) SetValue(entry values.Entry) {
	f.mu.Lock()
	f.answers[entry.ID] = entry
	f.mu.Unlock()
}
