package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/kreczko/pax-deploy/pkg/envman"
	"github.com/spf13/afero"
)

const (
	testEnvRoot = "/opt/anaconda/envs"
	testAppRoot = "/project/lngs/apps"
	testGroup   = "xenon1t-admin"
	testGID     = 4242
)

func testSettings() Settings {
	return Settings{
		Root:           testAppRoot,
		Primary:        "pax",
		Companions:     []string{"hax", "cax"},
		HeadIntoLatest: []string{"cax"},
		Mainline:       "master",
		Group:          testGroup,
		ProcessedDir:   "/archive/data/processed",
		MinitreeDir:    "/archive/data/minitrees",
		Host:           "login1",
	}
}

// fakeManager is an in-memory environment registry. Sessions record the
// install and uninstall calls made against each environment.
type fakeManager struct {
	envs       map[string]string // name -> prefix
	clones     [][2]string
	installs   map[string][]string // env name -> installed workdirs
	uninstalls map[string][]string // env name -> uninstalled packages
	installErr map[string]error    // workdir -> forced install error
}

func newFakeManager(envNames ...string) *fakeManager {
	m := &fakeManager{
		envs:       map[string]string{},
		installs:   map[string][]string{},
		uninstalls: map[string][]string{},
		installErr: map[string]error{},
	}
	for _, name := range envNames {
		m.envs[name] = filepath.Join(testEnvRoot, name)
	}
	return m
}

func (m *fakeManager) List(_ context.Context) ([]envman.Environment, error) {
	names := make([]string, 0, len(m.envs))
	for name := range m.envs {
		names = append(names, name)
	}
	sort.Strings(names)
	envs := make([]envman.Environment, 0, len(names))
	for _, name := range names {
		envs = append(envs, envman.Environment{Name: name, Prefix: m.envs[name]})
	}
	return envs, nil
}

func (m *fakeManager) Exists(_ context.Context, name string) (bool, error) {
	_, ok := m.envs[name]
	return ok, nil
}

func (m *fakeManager) Clone(_ context.Context, src, dst string) error {
	if _, ok := m.envs[src]; !ok {
		return fmt.Errorf("clone source %q does not exist", src)
	}
	if _, ok := m.envs[dst]; ok {
		return fmt.Errorf("clone target %q already exists", dst)
	}
	m.envs[dst] = filepath.Join(testEnvRoot, dst)
	m.clones = append(m.clones, [2]string{src, dst})
	return nil
}

func (m *fakeManager) Session(_ context.Context, name string) (envman.Session, error) {
	prefix, ok := m.envs[name]
	if !ok {
		return nil, fmt.Errorf("environment %q does not exist", name)
	}
	return &fakeSession{mgr: m, name: name, prefix: prefix}, nil
}

type fakeSession struct {
	mgr    *fakeManager
	name   string
	prefix string
}

func (s *fakeSession) Name() string { return s.name }
func (s *fakeSession) Root() string { return s.prefix }

func (s *fakeSession) Install(_ context.Context, workdir string) error {
	if err, ok := s.mgr.installErr[workdir]; ok {
		return err
	}
	s.mgr.installs[s.name] = append(s.mgr.installs[s.name], workdir)
	return nil
}

func (s *fakeSession) Uninstall(_ context.Context, pkg string) error {
	s.mgr.uninstalls[s.name] = append(s.mgr.uninstalls[s.name], pkg)
	return nil
}

// fakeRepo records version control operations per working copy.
type fakeRepo struct {
	dir       string
	tags      []string
	pulls     int
	checkouts []string
	pullErr   error
}

func (r *fakeRepo) Tags(_ context.Context) ([]string, error) {
	return r.tags, nil
}

func (r *fakeRepo) Pull(_ context.Context) error {
	if r.pullErr != nil {
		return r.pullErr
	}
	r.pulls++
	return nil
}

func (r *fakeRepo) Checkout(_ context.Context, ref string) error {
	r.checkouts = append(r.checkouts, ref)
	return nil
}

// repoSet hands the same fakeRepo back for repeated opens of one working copy.
type repoSet struct {
	repos map[string]*fakeRepo
}

func newRepoSet() *repoSet {
	return &repoSet{repos: map[string]*fakeRepo{}}
}

func (rs *repoSet) open(workingCopy string) Repo {
	if r, ok := rs.repos[workingCopy]; ok {
		return r
	}
	r := &fakeRepo{dir: workingCopy}
	rs.repos[workingCopy] = r
	return r
}

func (rs *repoSet) forPackage(pkg string) *fakeRepo {
	return rs.repos[filepath.Join(testAppRoot, pkg)]
}

func (rs *repoSet) withTags(pkg string, tags ...string) *repoSet {
	r := rs.open(filepath.Join(testAppRoot, pkg)).(*fakeRepo)
	r.tags = tags
	return rs
}

// fakeLinker records hard links and materializes the destinations in the
// test filesystem.
type fakeLinker struct {
	fs    afero.Fs
	links [][2]string
}

func (l *fakeLinker) Link(oldname, newname string) error {
	l.links = append(l.links, [2]string{oldname, newname})
	return afero.WriteFile(l.fs, newname, []byte("hook"), 0644)
}

func fakeGroupLookup(name string) (int, error) {
	if name != testGroup {
		return 0, fmt.Errorf("group: unknown group %s", name)
	}
	return testGID, nil
}

// testEnv wires a provisioner against all the fakes.
type testEnv struct {
	provisioner *Provisioner
	mgr         *fakeManager
	repos       *repoSet
	fs          afero.Fs
	linker      *fakeLinker
}

// newTestEnv prepares working copies (with manifests), head environments for
// all known packages, and activation hooks in the primary head environment.
func newTestEnv(mgr *fakeManager, repos *repoSet) *testEnv {
	fs := afero.NewMemMapFs()
	for _, pkg := range []string{"pax", "hax", "cax"} {
		manifest := filepath.Join(testAppRoot, pkg, "requirements.txt")
		_ = afero.WriteFile(fs, manifest, []byte("numpy\n"), 0644)
	}
	for _, hook := range []string{"env_vars.sh", "paths.sh"} {
		src := filepath.Join(testEnvRoot, "pax_head", hooksDir, hook)
		_ = afero.WriteFile(fs, src, []byte("export X=1\n"), 0644)
	}

	linker := &fakeLinker{fs: fs}
	p := New(testSettings(),
		Manager(mgr),
		Repos(repos.open),
		Fs(fs),
		Links(linker),
		Groups(fakeGroupLookup),
	)
	return &testEnv{provisioner: p, mgr: mgr, repos: repos, fs: fs, linker: linker}
}
