package envman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Runner executes an external command and returns its standard output.
// Tests substitute a recording fake for the real conda and pip binaries.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// ExecRunner runs commands through os/exec, capturing stderr into the
// returned error on failure.
func ExecRunner(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w (stderr: %s)",
			name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Conda manages environments through the conda CLI and installs packages
// with each environment's own pip.
type Conda struct {
	runner Runner
	l      *zap.Logger
}

var _ Manager = &Conda{}

// CondaOption is a functor to build a conda manager with some options
type CondaOption func(*Conda)

// CondaRunner substitutes the command runner, used by tests
func CondaRunner(r Runner) CondaOption {
	return func(c *Conda) {
		if r != nil {
			c.runner = r
		}
	}
}

// CondaLogger injects a logging facility into conda operations
func CondaLogger(l *zap.Logger) CondaOption {
	return func(c *Conda) {
		if l != nil {
			c.l = l
		}
	}
}

// NewConda builds a conda-backed environment manager.
func NewConda(opts ...CondaOption) *Conda {
	c := &Conda{
		runner: ExecRunner,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

// condaEnvList mirrors the output of "conda env list --json".
type condaEnvList struct {
	Envs []string `json:"envs"`
}

// List returns the registered environments. Names follow conda's
// convention: the base name of the environment prefix.
func (c *Conda) List(ctx context.Context) ([]Environment, error) {
	out, err := c.runner(ctx, "conda", "env", "list", "--json")
	if err != nil {
		return nil, err
	}
	var listing condaEnvList
	if err := json.Unmarshal([]byte(out), &listing); err != nil {
		return nil, fmt.Errorf("parsing conda env list output: %w", err)
	}
	envs := make([]Environment, 0, len(listing.Envs))
	for _, prefix := range listing.Envs {
		envs = append(envs, Environment{
			Name:   filepath.Base(prefix),
			Prefix: prefix,
		})
	}
	return envs, nil
}

// Exists reports whether a named environment is registered.
func (c *Conda) Exists(ctx context.Context, name string) (bool, error) {
	envs, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	for _, env := range envs {
		if env.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Clone creates environment dst as a copy of environment src.
func (c *Conda) Clone(ctx context.Context, src, dst string) error {
	c.l.Info("cloning environment", zap.String("src", src), zap.String("dst", dst))
	_, err := c.runner(ctx, "conda", "create", "--yes", "--name", dst, "--clone", src)
	return err
}

// Session opens a handle on a named environment.
func (c *Conda) Session(ctx context.Context, name string) (Session, error) {
	envs, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, env := range envs {
		if env.Name == name {
			return &condaSession{env: env, runner: c.runner, l: c.l}, nil
		}
	}
	return nil, fmt.Errorf("environment %q does not exist", name)
}

// condaSession targets one environment prefix. Package operations go through
// the pip binary inside the prefix, which installs into that environment
// without any activation step.
type condaSession struct {
	env    Environment
	runner Runner
	l      *zap.Logger
}

func (s *condaSession) Name() string {
	return s.env.Name
}

func (s *condaSession) Root() string {
	return s.env.Prefix
}

func (s *condaSession) pip() string {
	return filepath.Join(s.env.Prefix, "bin", "pip")
}

func (s *condaSession) Install(ctx context.Context, workdir string) error {
	s.l.Info("installing package",
		zap.String("env", s.env.Name), zap.String("workdir", workdir))
	_, err := s.runner(ctx, s.pip(), "install", workdir)
	return err
}

func (s *condaSession) Uninstall(ctx context.Context, pkg string) error {
	s.l.Info("uninstalling package",
		zap.String("env", s.env.Name), zap.String("package", pkg))
	_, err := s.runner(ctx, s.pip(), "uninstall", "--yes", pkg)
	if err != nil && strings.Contains(err.Error(), "not installed") {
		// removing an absent package must stay re-runnable
		return nil
	}
	return err
}
