// Package vcs provides typed access to the git CLI for the repository
// operations pax-deploy needs: listing version tags, pulling the mainline
// branch and switching the working copy between a tag and the mainline.
//
// All commands target a specific working copy via the -C flag, which is
// injected by every Repo method. Nothing here shells out through a shell:
// arguments are passed verbatim to git.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner executes an external command and returns its standard output.
// It exists so tests can substitute a recording fake for the real git binary.
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

// Repo represents a git working copy at a specific directory. There is no
// default directory: callers always state which working copy they mean.
type Repo struct {
	dir    string
	runner Runner
	l      *zap.Logger
}

// RepoOption is a functor to build a repo with some options
type RepoOption func(*Repo)

// WithRunner substitutes the command runner, used by tests
func WithRunner(r Runner) RepoOption {
	return func(repo *Repo) {
		if r != nil {
			repo.runner = r
		}
	}
}

// RepoLogger injects a logging facility into repo operations
func RepoLogger(l *zap.Logger) RepoOption {
	return func(repo *Repo) {
		if l != nil {
			repo.l = l
		}
	}
}

// NewRepo returns a Repo targeting the working copy at dir.
func NewRepo(dir string, opts ...RepoOption) *Repo {
	r := &Repo{
		dir:    dir,
		runner: ExecRunner,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// Dir returns the working copy directory.
func (r *Repo) Dir() string {
	return r.dir
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	r.l.Debug("git", zap.Strings("args", args), zap.String("dir", r.dir))
	return r.runner(ctx, "git", fullArgs...)
}

// Tags lists the tag names of the working copy. Ordering is left to the
// caller: version-aware selection lives in the model, not in git.
func (r *Repo) Tags(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// Pull updates the working copy from its default remote.
func (r *Repo) Pull(ctx context.Context) error {
	_, err := r.git(ctx, "pull")
	return err
}

// Checkout switches the working copy to the given ref (tag or branch).
func (r *Repo) Checkout(ctx context.Context, ref string) error {
	if ref == "" {
		return fmt.Errorf("checkout in %s: empty ref", r.dir)
	}
	_, err := r.git(ctx, "checkout", ref)
	return err
}
