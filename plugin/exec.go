package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/provider"
)

// QueryPlaceholder is replaced by the query text in a spec's arguments.
const QueryPlaceholder = "{query}"

// waitDelay bounds how long a killed command may keep its output pipes open.
const waitDelay = 500 * time.Millisecond

// execProvider answers searches by running an external command.
type execProvider struct {
	host    *Host
	spec    provider.Spec
	match   *regexp.Regexp
	timeout time.Duration
	env     []string
}

var _ provider.Provider = (*execProvider)(nil)

func newExecProvider(host *Host, spec provider.Spec) (*execProvider, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Command == "" {
		return nil, fmt.Errorf("%w: provider %q", ErrCommandRequired, spec.Name)
	}

	p := &execProvider{
		host:    host,
		spec:    spec,
		timeout: spec.Timeout,
		env:     environ(spec.Variables),
	}
	if p.timeout == 0 {
		p.timeout = host.timeout
	}
	if spec.Match != "" {
		// Validate has already compiled it once.
		p.match = regexp.MustCompile(spec.Match)
	}
	return p, nil
}

// environ renders variables as sorted NAME=value pairs with upper-cased names.
func environ(variables map[string]string) []string {
	env := make([]string, 0, len(variables))
	for _, k := range slices.Sorted(maps.Keys(variables)) {
		env = append(env, strings.ToUpper(k)+"="+variables[k])
	}
	return env
}

func (p *execProvider) ID() string {
	return p.spec.Name
}

func (p *execProvider) SupportsQuery(query string) bool {
	if query == "" {
		return false
	}
	if p.spec.Prefix != "" && !strings.HasPrefix(query, p.spec.Prefix) {
		return false
	}
	if p.match != nil && !p.match.MatchString(query) {
		return false
	}
	return true
}

func (p *execProvider) Search(query string) []*provider.Batch {
	term := strings.TrimPrefix(query, p.spec.Prefix)
	return []*provider.Batch{
		p.host.submit(func() ([]core.Result, error) {
			return p.run(term)
		}),
	}
}

// args substitutes term into the spec's arguments, appending it when no
// argument contains the placeholder.
func (p *execProvider) args(term string) []string {
	args := make([]string, 0, len(p.spec.Args)+1)
	substituted := false
	for _, a := range p.spec.Args {
		if strings.Contains(a, QueryPlaceholder) {
			substituted = true
			a = strings.ReplaceAll(a, QueryPlaceholder, term)
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, term)
	}
	return args
}

func (p *execProvider) run(term string) ([]core.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	started := time.Now()
	cmd := exec.CommandContext(ctx, p.spec.Command, p.args(term)...)
	cmd.Env = append(os.Environ(), p.env...)
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("provider %q: timed out after %s: %w", p.spec.Name, p.timeout, ctx.Err())
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("provider %q: %w: %s", p.spec.Name, err, msg)
		}
		return nil, fmt.Errorf("provider %q: %w", p.spec.Name, err)
	}

	results, err := ParseResults(p.spec.Name, stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", p.spec.Name, err)
	}
	p.host.logger.Debug("plugin search finished",
		"provider", p.spec.Name,
		"results", len(results),
		"elapsed", time.Since(started))
	return results, nil
}
