package schema

import (
	"math"
	"strings"
)

// Descriptor declares how one named setting is rendered and under which parent
// condition it is visible.
type Descriptor struct {
	ID string `json:"id" yaml:"id"`

	// Parent references another descriptor id. It must be declared together
	// with ParentStatusCondition.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	// ParentStatusCondition lists the parent status values for which this
	// setting is visible.
	ParentStatusCondition []string `json:"parentStatusCondition,omitempty" yaml:"parentStatusCondition,omitempty"`

	// Status renders the setting as a discrete selector.
	Status bool `json:"status,omitempty" yaml:"status,omitempty"`
	// SelectRange renders the setting as a continuous or stepped range.
	SelectRange bool `json:"selectRange,omitempty" yaml:"selectRange,omitempty"`

	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Widget      string   `json:"widget,omitempty" yaml:"widget,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Range       *Range   `json:"range,omitempty" yaml:"range,omitempty"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty"`
}

// Option is one choice of a Status selector.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Range bounds a SelectRange control.
type Range struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Unit string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// stepTolerance absorbs float noise when checking range steps.
const stepTolerance = 1e-9

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// OnStep reports whether v sits a whole number of steps from Min. A zero step
// is continuous and accepts any value.
func (r Range) OnStep(v float64) bool {
	if r.Step <= 0 {
		return true
	}
	steps := (v - r.Min) / r.Step
	return math.Abs(steps-math.Round(steps)) <= stepTolerance*math.Max(1, math.Abs(steps))
}

// Gated reports whether the descriptor declares both halves of a parent
// condition.
func (d Descriptor) Gated() bool {
	return strings.TrimSpace(d.Parent) != "" && len(d.ParentStatusCondition) > 0
}

// AllowsParentStatus reports whether value is one of the declared parent
// status conditions.
func (d Descriptor) AllowsParentStatus(value string) bool {
	for _, candidate := range d.ParentStatusCondition {
		if candidate == value {
			return true
		}
	}
	return false
}

// DisplayLabel falls back to the id when no label is declared.
func (d Descriptor) DisplayLabel() string {
	if label := strings.TrimSpace(d.Label); label != "" {
		return label
	}
	return d.ID
}

// DisplayLabel returns the option label, defaulting to its value.
func (o Option) DisplayLabel() string {
	if label := strings.TrimSpace(o.Label); label != "" {
		return label
	}
	return o.Value
}

// Clone returns a deep copy so stores can hand descriptors out without
// exposing their backing slices.
func (d Descriptor) Clone() Descriptor {
	out := d
	if d.ParentStatusCondition != nil {
		out.ParentStatusCondition = append([]string(nil), d.ParentStatusCondition...)
	}
	if d.Options != nil {
		out.Options = append([]Option(nil), d.Options...)
	}
	if d.Range != nil {
		rng := *d.Range
		out.Range = &rng
	}
	return out
}
