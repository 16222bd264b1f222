// Package validation checks stored setting values against their descriptors
// before they are applied to a panel.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// ValueIssue represents a validation error with optional location metadata.
type ValueIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValuesValidationResult captures validation outcomes for a value set.
type ValuesValidationResult struct {
	Valid  bool         `json:"valid"`
	Issues []ValueIssue `json:"issues,omitempty"`
}

// Messages groups issue messages by setting id, the shape render.RenderOptions
// expects for inline errors. Document-level issues use the empty key.
func (r ValuesValidationResult) Messages() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// ParseValues decodes a flat JSON object of setting id to value. Strings and
// booleans become status values; numbers become range values.
func ParseValues(raw []byte) (map[string]values.Entry, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("validation: values document is empty")
	}
	var decoded map[string]any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("validation: parse values: %w", err)
	}

	entries := make(map[string]values.Entry, len(decoded))
	for id, value := range decoded {
		entry := values.Entry{ID: id}
		switch v := value.(type) {
		case string:
			entry.StatusValue = v
		case bool:
			entry.StatusValue = strconv.FormatBool(v)
		case json.Number:
			parsed, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("validation: setting %q: %w", id, err)
			}
			entry.RangeValue = parsed
		default:
			return nil, fmt.Errorf("validation: setting %q has unsupported value %v", id, value)
		}
		entries[id] = entry
	}
	return entries, nil
}

// ValidateJSON parses raw and validates the result against store.
func ValidateJSON(store schema.Store, raw []byte) ValuesValidationResult {
	entries, err := ParseValues(raw)
	if err != nil {
		return ValuesValidationResult{Issues: []ValueIssue{{Message: strings.TrimPrefix(err.Error(), "validation: ")}}}
	}
	return ValidateValues(store, entries)
}

// ValidateValues checks every entry against its descriptor: selectors must hold
// one of their options, ranges must stay within bounds and on the declared
// step. Entries for undeclared settings are reported as unknown.
func ValidateValues(store schema.Store, entries map[string]values.Entry) ValuesValidationResult {
	result := ValuesValidationResult{Valid: true}
	if store == nil {
		result.Valid = false
		result.Issues = []ValueIssue{{Message: "schema store is required"}}
		return result
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		desc, err := store.Get(id)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, schema.ErrLookup) {
				msg = "unknown setting"
			}
			result.Issues = append(result.Issues, issueFor(id, msg))
			continue
		}
		if msg := checkEntry(desc, entries[id]); msg != "" {
			result.Issues = append(result.Issues, issueFor(id, msg))
		}
	}
	result.Valid = len(result.Issues) == 0
	return result
}

func checkEntry(desc schema.Descriptor, entry values.Entry) string {
	switch {
	case desc.Status:
		if entry.StatusValue == "" {
			return "expects one of " + optionList(desc.Options)
		}
		if len(desc.Options) == 0 {
			return ""
		}
		for _, opt := range desc.Options {
			if opt.Value == entry.StatusValue {
				return ""
			}
		}
		return fmt.Sprintf("%q is not one of %s", entry.StatusValue, optionList(desc.Options))
	case desc.SelectRange:
		if entry.StatusValue != "" {
			return "expects a number"
		}
		return checkRange(desc.Range, entry.RangeValue)
	default:
		return "setting takes no value"
	}
}

func checkRange(rng *schema.Range, value float64) string {
	if rng == nil {
		return ""
	}
	if !rng.Contains(value) {
		return fmt.Sprintf("%s is outside %s..%s", formatFloat(value), formatFloat(rng.Min), formatFloat(rng.Max))
	}
	if !rng.OnStep(value) {
		return fmt.Sprintf("%s is not a multiple of step %s from %s", formatFloat(value), formatFloat(rng.Step), formatFloat(rng.Min))
	}
	return ""
}

func optionList(options []schema.Option) string {
	if len(options) == 0 {
		return "a declared option"
	}
	vals := make([]string, 0, len(options))
	for _, opt := range options {
		vals = append(vals, opt.Value)
	}
	return strings.Join(vals, ", ")
}

func issueFor(id, message string) ValueIssue {
	return ValueIssue{
		Path:    pointerFor(id),
		Field:   id,
		Message: message,
	}
}

// pointerFor escapes id into a JSON pointer per RFC 6901.
func pointerFor(id string) string {
	escaped := strings.ReplaceAll(id, "~", "~0")
	escaped = strings.ReplaceAll(escaped, "/", "~1")
	return "/" + escaped
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
