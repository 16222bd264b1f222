package render

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/panel"
)

// HiddenField is a name/value pair emitted alongside the visible settings:
// a CSRF token for the HTML panel, a revision marker, or any value a
// submission handler expects back.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying token under the caller's
// field name ("_csrf", "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// RevisionField fingerprints the visible settings and their values. A
// handler that recomputes the fingerprint on submit can detect that the
// panel changed while it was being edited.
func RevisionField(name string, snap panel.Snapshot) HiddenField {
	return Hidden(name, Revision(snap))
}

// Revision returns a stable hex fingerprint of the visible controls.
func Revision(snap panel.Snapshot) string {
	lines := make([]string, 0)
	for _, section := range snap.Sections {
		for _, ctrl := range section.Controls {
			lines = append(lines, ctrl.ID+"|"+ctrl.Kind.String()+"|"+ctrl.Entry.StatusValue+"|"+
				strconv.FormatFloat(ctrl.Entry.RangeValue, 'g', -1, 64))
		}
	}
	sort.Strings(lines)
	h := fnv.New64a()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders fields by name for deterministic output. Empty
// names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	result := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if key := strings.TrimSpace(name); key != "" {
			result = append(result, HiddenField{Name: key, Value: value})
		}
	}
	if len(result) == 0 {
		return nil
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
