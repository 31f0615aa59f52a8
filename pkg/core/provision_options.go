package core

import (
	"context"
	"os"
	"os/user"
	"strconv"

	"github.com/kreczko/pax-deploy/pkg/envman"
	"github.com/kreczko/pax-deploy/pkg/vcs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Settings collects the deployment policy for a cluster. Everything that the
// original deployment scripts hard-coded lives here, so site policy is data,
// not code.
type Settings struct {
	Root           string   `json:"root" yaml:"root"`                     // Root directory holding the package working copies
	Primary        string   `json:"primary" yaml:"primary"`               // Primary package with full versioned lifecycle
	Companions     []string `json:"companions" yaml:"companions"`         // Companions installed into each new tagged environment
	HeadIntoLatest []string `json:"headIntoLatest" yaml:"headIntoLatest"` // Non-primary packages whose head copy is also installed into the primary's latest tagged environment
	Mainline       string   `json:"mainline" yaml:"mainline"`             // Mainline branch restored after a tag checkout
	Group          string   `json:"group" yaml:"group"`                   // Administrative group owning provisioned directories
	ProcessedDir   string   `json:"processedDir" yaml:"processedDir"`     // Root for processed-data directories
	MinitreeDir    string   `json:"minitreeDir" yaml:"minitreeDir"`       // Root for minitree directories
	Host           string   `json:"host,omitempty" yaml:"host,omitempty"` // Host recorded in deployment descriptors
}

// headIntoLatestFor reports whether policy wants the head copy of pkg
// installed into the primary's latest tagged environment.
func (s Settings) headIntoLatestFor(pkg string) bool {
	for _, p := range s.HeadIntoLatest {
		if p == pkg {
			return true
		}
	}
	return false
}

// Repo is the subset of version control operations the provisioner needs.
// *vcs.Repo implements it.
type Repo interface {
	Tags(ctx context.Context) ([]string, error)
	Pull(ctx context.Context) error
	Checkout(ctx context.Context, ref string) error
}

// RepoFactory opens the repository at a package working copy.
type RepoFactory func(workingCopy string) Repo

// Linker creates hard links, replacing an existing destination.
// afero has no hard link support.
type Linker interface {
	Link(oldname, newname string) error
}

type osLinker struct{}

func (osLinker) Link(oldname, newname string) error {
	if err := os.Remove(newname); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Link(oldname, newname)
}

// GroupLookup resolves a group name to its numeric gid.
type GroupLookup func(name string) (int, error)

func lookupGroupID(name string) (int, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(g.Gid)
}

// Option is a functor to build a provisioner with some options
type Option func(*Provisioner)

// Manager injects the environment manager
func Manager(m envman.Manager) Option {
	return func(p *Provisioner) {
		if m != nil {
			p.envs = m
		}
	}
}

// Repos injects the repository factory
func Repos(f RepoFactory) Option {
	return func(p *Provisioner) {
		if f != nil {
			p.repos = f
		}
	}
}

// Fs substitutes the filesystem used for manifests, hooks and directory
// provisioning
func Fs(fs afero.Fs) Option {
	return func(p *Provisioner) {
		if fs != nil {
			p.fs = fs
		}
	}
}

// Links substitutes the hard linker
func Links(l Linker) Option {
	return func(p *Provisioner) {
		if l != nil {
			p.linker = l
		}
	}
}

// Groups substitutes group name resolution
func Groups(g GroupLookup) Option {
	return func(p *Provisioner) {
		if g != nil {
			p.groups = g
		}
	}
}

// Logger injects a logging facility into provisioner operations
func Logger(l *zap.Logger) Option {
	return func(p *Provisioner) {
		if l != nil {
			p.l = l
		}
	}
}

// New builds an environment provisioner for the given deployment settings.
func New(settings Settings, opts ...Option) *Provisioner {
	p := &Provisioner{
		settings: settings,
		envs:     envman.NewConda(),
		fs:       afero.NewOsFs(),
		linker:   osLinker{},
		groups:   lookupGroupID,
		l:        zap.NewNop(),
	}
	p.repos = func(workingCopy string) Repo {
		return vcs.NewRepo(workingCopy, vcs.RepoLogger(p.l))
	}
	for _, apply := range opts {
		apply(p)
	}
	return p
}
