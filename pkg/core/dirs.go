package core

import (
	"os"
	"path/filepath"

	"github.com/kreczko/pax-deploy/pkg/core/status"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// provisionDirs creates the version-qualified output directories and hands
// them to the administrative group. Both operations are idempotent: existing
// directories are left alone and merely chgrp'd again.
func (p *Provisioner) provisionDirs(envName string) error {
	gid, err := p.groups(p.settings.Group)
	if err != nil {
		return errors.Wrap(status.ErrUnknownGroup, p.settings.Group)
	}

	for _, root := range []string{p.settings.ProcessedDir, p.settings.MinitreeDir} {
		dir := filepath.Join(root, envName)
		if err := p.fs.MkdirAll(dir, 0775); err != nil {
			return err
		}
		if err := p.chgrpRecursive(dir, gid); err != nil {
			return err
		}
		p.l.Info("output directory provisioned",
			zap.String("dir", dir), zap.String("group", p.settings.Group))
	}
	return nil
}

// chgrpRecursive sets the group of dir and everything below it, keeping
// owners untouched.
func (p *Provisioner) chgrpRecursive(dir string, gid int) error {
	return afero.Walk(p.fs, dir, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return p.fs.Chown(path, -1, gid)
	})
}
