package provider

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// DefaultKind is the kind assumed for specs that do not name one.
const DefaultKind = "exec"

// Spec describes one configured provider.
type Spec struct {
	// Name is the provider id. Required and unique.
	Name string `mapstructure:"name" yaml:"name"`

	// Kind selects the factory used to build the provider.
	// Default: "exec"
	Kind string `mapstructure:"kind" yaml:"kind,omitempty"`

	// Command and Args describe the program run for each search (exec kind).
	// The literal "{query}" in Args is replaced with the query text.
	Command string   `mapstructure:"command" yaml:"command,omitempty"`
	Args    []string `mapstructure:"args" yaml:"args,omitempty"`

	// Prefix restricts the provider to queries starting with it.
	// The prefix is stripped before the query is handed to the command.
	Prefix string `mapstructure:"prefix" yaml:"prefix,omitempty"`

	// Match restricts the provider to queries matching this regular expression.
	Match string `mapstructure:"match" yaml:"match,omitempty"`

	// Variables are passed to the provider, as environment variables for exec.
	Variables map[string]string `mapstructure:"variables" yaml:"variables,omitempty"`

	// Timeout bounds a single search. Zero means the factory default.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// EffectiveKind returns the spec's kind, or DefaultKind if unset.
func (s Spec) EffectiveKind() string {
	if s.Kind == "" {
		return DefaultKind
	}
	return s.Kind
}

// Validate checks the fields every kind relies on.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpec)
	}
	if s.Match != "" {
		if _, err := regexp.Compile(s.Match); err != nil {
			return fmt.Errorf("%w: provider %q: match: %w", ErrInvalidSpec, s.Name, err)
		}
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: provider %q: timeout must not be negative", ErrInvalidSpec, s.Name)
	}
	return nil
}

// Factory builds a provider from its spec.
type Factory func(spec Spec) (Provider, error)

// Factories maps a spec kind to the factory that builds it.
type Factories map[string]Factory

// Build validates each spec and builds its provider.
// Provider names must be unique.
func (f Factories) Build(specs []Spec) ([]Provider, error) {
	seen := make(map[string]bool, len(specs))
	providers := make([]Provider, 0, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProvider, spec.Name)
		}
		seen[spec.Name] = true

		factory, ok := f[spec.EffectiveKind()]
		if !ok {
			return nil, fmt.Errorf("%w: %q (provider %q)", ErrUnknownKind, spec.EffectiveKind(), spec.Name)
		}
		p, err := factory(spec)
		if err != nil {
			return nil, fmt.Errorf("building provider %q: %w", spec.Name, err)
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// FromSpecs returns a Loader that builds providers from specs using factories.
func FromSpecs(factories Factories, specs []Spec) Loader {
	return func(ctx context.Context) ([]Provider, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return factories.Build(specs)
	}
}
