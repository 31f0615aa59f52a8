package vcs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and replays canned outputs keyed on the
// git subcommand.
type fakeRunner struct {
	calls   [][]string
	outputs map[string]string
	fail    map[string]error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	// subcommand follows "-C <dir>"
	sub := args[2]
	if err, ok := f.fail[sub]; ok {
		return "", err
	}
	return f.outputs[sub], nil
}

func TestRepoTags(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"tag": "v6.8.0\nv6.9.0\nv6.10.1\n",
	}}
	repo := NewRepo("/apps/pax", WithRunner(runner.run))

	tags, err := repo.Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"v6.8.0", "v6.9.0", "v6.10.1"}, tags)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"git", "-C", "/apps/pax", "tag", "--list"}, runner.calls[0])
}

func TestRepoTagsEmpty(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"tag": "\n"}}
	repo := NewRepo("/apps/hax", WithRunner(runner.run))

	tags, err := repo.Tags(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestRepoPullCheckout(t *testing.T) {
	runner := &fakeRunner{}
	repo := NewRepo("/apps/pax", WithRunner(runner.run))

	require.NoError(t, repo.Pull(context.Background()))
	require.NoError(t, repo.Checkout(context.Background(), "v6.8.0"))
	require.NoError(t, repo.Checkout(context.Background(), "master"))
	assert.Error(t, repo.Checkout(context.Background(), ""))

	require.Len(t, runner.calls, 3)
	assert.Equal(t, []string{"git", "-C", "/apps/pax", "pull"}, runner.calls[0])
	assert.Equal(t, []string{"git", "-C", "/apps/pax", "checkout", "v6.8.0"}, runner.calls[1])
	assert.Equal(t, []string{"git", "-C", "/apps/pax", "checkout", "master"}, runner.calls[2])
}

func TestRepoErrorPropagation(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"pull": fmt.Errorf("remote unreachable"),
	}}
	repo := NewRepo("/apps/pax", WithRunner(runner.run))

	err := repo.Pull(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote unreachable")
}

// initTaggedRepo creates a real working copy with a few version tags.
func initTaggedRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	mustGit := func(args ...string) {
		base := []string{"-C", dir,
			"-c", "user.name=test", "-c", "user.email=test@test.local",
		}
		out, err := exec.Command("git", append(base, args...)...).CombinedOutput()
		require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	}

	out, err := exec.Command("git", "init", dir).CombinedOutput()
	require.NoError(t, err, "git init: %s", out)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("test\n"), 0600))
	mustGit("add", "README")
	mustGit("commit", "-m", "initial")
	for _, tag := range []string{"v1.2", "v1.9", "v1.10"} {
		mustGit("tag", tag)
	}
	return dir
}

func TestRepoAgainstRealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := initTaggedRepo(t)
	branch, err := exec.Command("git", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD").Output()
	require.NoError(t, err)

	repo := NewRepo(dir)
	tags, err := repo.Tags(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"v1.2", "v1.9", "v1.10"}, tags)

	require.NoError(t, repo.Checkout(context.Background(), "v1.9"))
	require.NoError(t, repo.Checkout(context.Background(), strings.TrimSpace(string(branch))))
}
