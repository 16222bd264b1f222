package tui

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-settingsgen/pkg/values"
)

// OutputFormat selects how the answered values are serialized.
type OutputFormat string

const (
	OutputFormatJSON           OutputFormat = "json"
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "id: value" line per setting, sorted.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Prefixes decorate prompts, section headings and error notices.
type Prefixes struct {
	Prompt  string
	Section string
	Error   string
}

// AnswerHook runs after each answer and before it is written to the panel.
// Returning an error ends the session.
type AnswerHook func(ctx context.Context, entry values.Entry) error

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver replaces the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithPageSize limits how many options the survey driver lists at once. It has
// no effect on custom drivers.
func WithPageSize(n int) Option {
	return func(r *Renderer) {
		if d, ok := r.driver.(*surveyDriver); ok && n > 0 {
			d.pageSize = n
		}
	}
}

// WithAnswerHook registers fn for every answer.
func WithAnswerHook(fn AnswerHook) Option {
	return func(r *Renderer) {
		r.onAnswer = fn
	}
}

func WithPrefixes(p Prefixes) Option {
	return func(r *Renderer) {
		r.prefixes = p
	}
}

// WithLogger records answered settings at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
