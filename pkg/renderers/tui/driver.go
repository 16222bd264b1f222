package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ChoiceConfig describes the prompt for a select control.
type ChoiceConfig struct {
	// Setting is the id of the setting being prompted.
	Setting string
	Message string
	// Options are display labels in declaration order.
	Options []string
	Default int
	Help    string
}

// RangeConfig describes the prompt for a range control. Validate rejects
// answers outside the declared bounds.
type RangeConfig struct {
	Setting  string
	Message  string
	Default  string
	Help     string
	Validate func(string) error
}

// PromptDriver asks the questions. The default driver uses survey; tests and
// scripted sessions supply their own.
type PromptDriver interface {
	Choose(ctx context.Context, cfg ChoiceConfig) (int, error)
	Range(ctx context.Context, cfg RangeConfig) (string, error)
	Notice(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out      io.Writer
	pageSize int
}

func newSurveyDriver() PromptDriver {
	return &surveyDriver{out: os.Stdout, pageSize: 10}
}

func (d *surveyDriver) Choose(ctx context.Context, cfg ChoiceConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	prompt := &survey.Select{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: d.pageSize,
	}
	if cfg.Default >= 0 && cfg.Default < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.Default]
	}
	// Selecting into an int yields the chosen index, which survives duplicate
	// labels.
	var idx int
	if err := survey.AskOne(prompt, &idx); err != nil {
		return 0, surveyErr(err)
	}
	return idx, nil
}

func (d *surveyDriver) Range(ctx context.Context, cfg RangeConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := &survey.Input{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}
	var opts []survey.AskOpt
	if cfg.Validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			text, _ := ans.(string)
			return cfg.Validate(text)
		}))
	}
	var answer string
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", surveyErr(err)
	}
	return answer, nil
}

func (d *surveyDriver) Notice(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func surveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
