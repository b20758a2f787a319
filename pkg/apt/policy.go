// SPDX-License-Identifier: Apache-2.0

package apt

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/joomcode/errorx"
	"github.com/rs/zerolog"
)

const (
	// DefaultQueryTimeout bounds every package-index query so the unattended
	// weekly refresh cannot hang on a stuck apt-cache invocation.
	DefaultQueryTimeout = 60 * time.Second

	policyNone = "(none)"
)

// CommandRunner executes a command and returns its standard output. It
// exists so tests can substitute canned apt-cache output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// defaultRunner shells out with the C locale pinned; the policy output is
// localized otherwise and the field labels would not match.
func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	out, err := cmd.Output()
	if err != nil {
		return nil, errorx.IllegalState.Wrap(err, "failed to execute %s %s", name, strings.Join(args, " "))
	}

	return out, nil
}

// PolicyClient queries the local package index through apt-cache policy for
// installed and candidate package versions.
type PolicyClient struct {
	timeout time.Duration
	runner  CommandRunner
	log     zerolog.Logger
}

type PolicyOption func(*PolicyClient)

// WithQueryTimeout overrides the per-query timeout.
func WithQueryTimeout(d time.Duration) PolicyOption {
	return func(c *PolicyClient) {
		c.timeout = d
	}
}

// WithCommandRunner overrides the command runner, primarily for tests.
func WithCommandRunner(runner CommandRunner) PolicyOption {
	return func(c *PolicyClient) {
		c.runner = runner
	}
}

// WithPolicyLogger attaches a logger to the client.
func WithPolicyLogger(log zerolog.Logger) PolicyOption {
	return func(c *PolicyClient) {
		c.log = log
	}
}

// NewPolicyClient returns a package-index query client.
func NewPolicyClient(opts ...PolicyOption) *PolicyClient {
	c := &PolicyClient{
		timeout: DefaultQueryTimeout,
		runner:  defaultRunner,
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CandidateVersion returns the version the package manager would install for
// pkg right now, independent of what is installed. A package unknown to the
// index, or known without an installable version, yields NoCandidateError.
func (c *PolicyClient) CandidateVersion(ctx context.Context, pkg string) (string, error) {
	version, err := c.policyField(ctx, pkg, "Candidate")
	if err != nil {
		return "", err
	}

	c.log.Debug().Str("package", pkg).Str("candidate", version).Msg("Resolved candidate version")
	return version, nil
}

// InstalledVersion returns the currently installed version of pkg, or
// NoCandidateError if the package is not installed.
func (c *PolicyClient) InstalledVersion(ctx context.Context, pkg string) (string, error) {
	version, err := c.policyField(ctx, pkg, "Installed")
	if err != nil {
		return "", err
	}

	return version, nil
}

func (c *PolicyClient) policyField(ctx context.Context, pkg, field string) (string, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner(queryCtx, "apt-cache", "policy", "--", pkg)
	if err != nil {
		return "", errorx.IllegalState.Wrap(err, "package index query for %q failed", pkg).
			WithProperty(packageProperty, pkg)
	}

	// apt-cache policy exits zero for unknown packages and prints nothing to
	// stdout, so empty output means the index has never heard of the name.
	if len(bytes.TrimSpace(out)) == 0 {
		return "", NoCandidateError.New("package %q is not known to the package index", pkg).
			WithProperty(packageProperty, pkg)
	}

	value, found := scanPolicyField(out, field)
	if !found || value == policyNone {
		return "", NoCandidateError.New("package %q has no %s version in the package index", pkg, strings.ToLower(field)).
			WithProperty(packageProperty, pkg)
	}

	return value, nil
}

// scanPolicyField extracts the value of an indented "Field: value" line from
// apt-cache policy output.
func scanPolicyField(out []byte, field string) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	prefix := field + ":"

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return strings.TrimSpace(rest), true
		}
	}

	return "", false
}
