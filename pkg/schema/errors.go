package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLookup matches every *LookupError via errors.Is.
	ErrLookup = errors.New("schema: unknown setting")
	// ErrConfig matches every *ConfigError via errors.Is.
	ErrConfig = errors.New("schema: invalid configuration")
)

// LookupError reports a setting id the store does not declare.
type LookupError struct {
	ID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("schema: unknown setting %q", e.ID)
}

// Is lets errors.Is(err, ErrLookup) match any lookup failure.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// Issue is a single schema validation finding.
type Issue struct {
	ID      string
	Source  string
	Message string
	Warning bool
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Source != "" {
		b.WriteString(i.Source)
		b.WriteString(": ")
	}
	if i.ID != "" {
		fmt.Fprintf(&b, "setting %q: ", i.ID)
	}
	b.WriteString(i.Message)
	return b.String()
}

// ConfigError aggregates the blocking issues found while validating a schema.
type ConfigError struct {
	Issues []Issue
}

func (e *ConfigError) Error() string {
	if len(e.Issues) == 0 {
		return "schema: invalid configuration"
	}
	if len(e.Issues) == 1 {
		return "schema: " + e.Issues[0].String()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("schema: %d configuration issues: %s", len(e.Issues), strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrConfig) match any configuration failure.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
