package schema

import "fmt"

// Validate inspects every descriptor in the store and reports blocking issues
// and warnings in declaration order.
func Validate(store *MapStore) []Issue {
	if store == nil {
		return nil
	}
	var issues []Issue
	for _, id := range store.order {
		issues = append(issues, validateDescriptor(store, store.descriptors[id])...)
	}
	issues = append(issues, validateCycles(store)...)
	return issues
}

// Errors filters issues down to the blocking ones.
func Errors(issues []Issue) []Issue {
	var out []Issue
	for _, issue := range issues {
		if !issue.Warning {
			out = append(out, issue)
		}
	}
	return out
}

// Warnings filters issues down to the non-blocking ones.
func Warnings(issues []Issue) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Warning {
			out = append(out, issue)
		}
	}
	return out
}

func validateDescriptor(store *MapStore, desc Descriptor) []Issue {
	var issues []Issue
	fail := func(format string, args ...any) {
		issues = append(issues, Issue{ID: desc.ID, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(format string, args ...any) {
		issues = append(issues, Issue{ID: desc.ID, Message: fmt.Sprintf(format, args...), Warning: true})
	}

	hasParent := desc.Parent != ""
	hasCondition := len(desc.ParentStatusCondition) > 0
	switch {
	case hasParent && !hasCondition:
		fail("parent %q declared without parentStatusCondition", desc.Parent)
	case !hasParent && hasCondition:
		fail("parentStatusCondition declared without parent")
	}

	if hasParent {
		if desc.Parent == desc.ID {
			fail("setting cannot be its own parent")
		} else if parent, ok := store.descriptors[desc.Parent]; !ok {
			fail("parent %q is not declared", desc.Parent)
		} else if hasCondition && len(parent.Options) > 0 {
			for _, value := range desc.ParentStatusCondition {
				if !hasOption(parent.Options, value) {
					warn("parentStatusCondition value %q is not an option of %q", value, parent.ID)
				}
			}
		}
	}

	if desc.Status && desc.SelectRange {
		warn("declares both status and selectRange; status wins")
	}
	if desc.Status {
		if len(desc.Options) == 0 {
			warn("status selector declares no options")
		} else if desc.Default != "" && !hasOption(desc.Options, desc.Default) {
			warn("default %q is not one of the declared options", desc.Default)
		}
		seen := make(map[string]struct{}, len(desc.Options))
		for _, opt := range desc.Options {
			if opt.Value == "" {
				fail("option with empty value")
				continue
			}
			if _, dup := seen[opt.Value]; dup {
				fail("duplicate option %q", opt.Value)
			}
			seen[opt.Value] = struct{}{}
		}
	}
	if desc.SelectRange && !desc.Status {
		if desc.Range == nil {
			warn("range control declares no bounds")
		}
	}
	if desc.Range != nil {
		if desc.Range.Min > desc.Range.Max {
			fail("range min %v exceeds max %v", desc.Range.Min, desc.Range.Max)
		}
		if desc.Range.Step < 0 {
			fail("range step %v must not be negative", desc.Range.Step)
		}
	}
	return issues
}

func validateCycles(store *MapStore) []Issue {
	var issues []Issue
	reported := make(map[string]struct{})
	for _, id := range store.order {
		seen := map[string]struct{}{id: {}}
		current := store.descriptors[id].Parent
		for current != "" && current != id {
			if _, loop := seen[current]; loop {
				break
			}
			seen[current] = struct{}{}
			next, ok := store.descriptors[current]
			if !ok {
				break
			}
			current = next.Parent
		}
		if current != id || store.descriptors[id].Parent == id {
			continue
		}
		if _, done := reported[id]; done {
			continue
		}
		for member := range seen {
			reported[member] = struct{}{}
		}
		issues = append(issues, Issue{ID: id, Message: "parent chain forms a cycle"})
	}
	return issues
}

func hasOption(options []Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
