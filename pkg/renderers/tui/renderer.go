package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-settingsgen/pkg/group"
	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/resolver"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// Renderer implements render.Renderer for terminal-driven sessions. When
// RenderOptions.Live is set every answer is written back and the panel is
// recomputed before the next prompt, so gated settings appear or disappear as
// their parent changes.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	onAnswer     AnswerHook
	prefixes     Prefixes
	logger       *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every visible setting once and serializes the values of
// the settings visible at the end of the session.
func (r *Renderer) Render(ctx context.Context, snap panel.Snapshot, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	live := opts.Live
	if live == nil {
		live = newFrozen(snap)
	}

	initial := render.Prepare(snap, opts)
	if title := opts.ResolveTitle(initial); title != "" {
		if err := r.driver.Notice(ctx, title); err != nil {
			return nil, err
		}
	}
	for _, msg := range render.MapErrorPayload(initial, opts.Errors).Panel {
		if err := r.driver.Notice(ctx, r.prefixes.Error+msg); err != nil {
			return nil, err
		}
	}

	asked := make(map[string]struct{})
	lastSection := ""
	for {
		current, err := live.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("tui: recompute panel: %w", err)
		}
		current = render.Prepare(current, opts)
		section, ctrl, ok := nextControl(current, asked)
		if !ok {
			break
		}
		errs := render.MapErrorPayload(current, opts.Errors)
		if section.ID != lastSection {
			lastSection = section.ID
			if section.Title != "" {
				if err := r.driver.Notice(ctx, r.prefixes.Section+section.Title); err != nil {
					return nil, err
				}
			}
			for _, msg := range errs.ForSection(section.ID) {
				if err := r.driver.Notice(ctx, r.prefixes.Error+msg); err != nil {
					return nil, err
				}
			}
		}

		for _, msg := range errs.For(ctrl.ID) {
			if err := r.driver.Notice(ctx, r.prefixes.Error+msg); err != nil {
				return nil, err
			}
		}
		entry, err := r.promptControl(ctx, ctrl)
		if err != nil {
			return nil, err
		}
		asked[ctrl.ID] = struct{}{}
		if r.onAnswer != nil {
			if err := r.onAnswer(ctx, entry); err != nil {
				return nil, fmt.Errorf("tui: answer %q: %w", entry.ID, err)
			}
		}
		r.logger.Debug("setting answered",
			zap.String("setting", entry.ID),
			zap.String("status", entry.StatusValue),
			zap.Float64("range", entry.RangeValue))
		live.SetValue(entry)
	}

	final, err := live.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("tui: recompute panel: %w", err)
	}
	collected := collect(render.Prepare(final, opts))
	for name, value := range opts.HiddenFields {
		if _, taken := collected[name]; !taken && name != "" {
			collected[name] = value
		}
	}
	return r.serialize(collected)
}

func nextControl(snap panel.Snapshot, asked map[string]struct{}) (panel.Section, group.Control, bool) {
	for _, section := range snap.Sections {
		for _, ctrl := range section.Controls {
			if _, done := asked[ctrl.ID]; !done {
				return section, ctrl, true
			}
		}
	}
	return panel.Section{}, group.Control{}, false
}

func (r *Renderer) promptControl(ctx context.Context, ctrl group.Control) (values.Entry, error) {
	switch ctrl.Kind {
	case resolver.ControlSelect:
		return r.promptSelect(ctx, ctrl)
	case resolver.ControlRange:
		return r.promptRange(ctx, ctrl)
	default:
		return values.Entry{}, fmt.Errorf("tui: setting %q has no control", ctrl.ID)
	}
}

func (r *Renderer) promptSelect(ctx context.Context, ctrl group.Control) (values.Entry, error) {
	desc := ctrl.Descriptor
	labels := make([]string, 0, len(desc.Options))
	defaultIdx := 0
	for idx, opt := range desc.Options {
		labels = append(labels, opt.DisplayLabel())
		if opt.Value == ctrl.Entry.StatusValue {
			defaultIdx = idx
		}
	}
	if len(labels) == 0 {
		return values.Entry{}, fmt.Errorf("tui: setting %q has no options", ctrl.ID)
	}

	idx, err := r.driver.Choose(ctx, ChoiceConfig{
		Setting: ctrl.ID,
		Message: r.message(ctrl),
		Options: labels,
		Default: defaultIdx,
		Help:    plainText(desc.Description),
	})
	if err != nil {
		return values.Entry{}, err
	}
	if idx < 0 || idx >= len(desc.Options) {
		return values.Entry{}, fmt.Errorf("%w: %d for %q", ErrInvalidSelection, idx, ctrl.ID)
	}
	entry := ctrl.Entry
	entry.ID = ctrl.ID
	entry.StatusValue = desc.Options[idx].Value
	return entry, nil
}

func (r *Renderer) promptRange(ctx context.Context, ctrl group.Control) (values.Entry, error) {
	desc := ctrl.Descriptor
	validate := rangeValidator(desc.Range)
	for {
		response, err := r.driver.Range(ctx, RangeConfig{
			Setting:  ctrl.ID,
			Message:  r.message(ctrl),
			Default:  formatNumber(ctrl.Entry.RangeValue),
			Help:     rangeHelp(desc.Description, desc.Range),
			Validate: validate,
		})
		if err != nil {
			return values.Entry{}, err
		}
		if err := validate(response); err != nil {
			if infoErr := r.driver.Notice(ctx, fmt.Sprintf("%sInvalid %s: %v", r.prefixes.Error, ctrl.ID, err)); infoErr != nil {
				return values.Entry{}, infoErr
			}
			continue
		}
		value, _ := strconv.ParseFloat(strings.TrimSpace(response), 64)
		entry := ctrl.Entry
		entry.ID = ctrl.ID
		entry.StatusValue = ""
		entry.RangeValue = value
		return entry, nil
	}
}

func (r *Renderer) message(ctrl group.Control) string {
	label := ctrl.Descriptor.DisplayLabel()
	if ctrl.Child {
		label = "  " + label
	}
	return r.prefixes.Prompt + label
}

func rangeValidator(rng *schema.Range) func(string) error {
	return func(raw string) error {
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return errors.New("must be a number")
		}
		if rng == nil {
			return nil
		}
		if !rng.Contains(value) {
			return fmt.Errorf("must be between %s and %s", formatNumber(rng.Min), formatNumber(rng.Max))
		}
		if !rng.OnStep(value) {
			return fmt.Errorf("must be a multiple of %s from %s", formatNumber(rng.Step), formatNumber(rng.Min))
		}
		return nil
	}
}

func rangeHelp(description string, rng *schema.Range) string {
	help := plainText(description)
	if rng == nil {
		return help
	}
	bounds := fmt.Sprintf("%s to %s%s", formatNumber(rng.Min), formatNumber(rng.Max), rng.Unit)
	if help == "" {
		return bounds
	}
	return help + " (" + bounds + ")"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// plainText strips markup from descriptions before they reach the terminal.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(plainPolicy.Sanitize(trimmed))
}

func collect(snap panel.Snapshot) map[string]any {
	out := make(map[string]any)
	for _, section := range snap.Sections {
		for _, ctrl := range section.Controls {
			switch ctrl.Kind {
			case resolver.ControlSelect:
				out[ctrl.ID] = ctrl.Entry.StatusValue
			case resolver.ControlRange:
				out[ctrl.ID] = ctrl.Entry.RangeValue
			}
		}
	}
	return out
}

func (r *Renderer) serialize(collected map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range collected {
			form.Set(key, fmt.Sprint(value))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		keys := make([]string, 0, len(collected))
		for key := range collected {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s: %v\n", key, collected[key])
		}
		return []byte(b.String()), nil
	default:
		return json.Marshal(collected)
	}
}
