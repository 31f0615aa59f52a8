package core

import (
	"context"
	"path/filepath"

	"github.com/kreczko/pax-deploy/pkg/envman"
	"github.com/kreczko/pax-deploy/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// hooksDir is where conda-style environments keep their activation shell
// hooks, relative to the environment prefix.
const hooksDir = "etc/conda/activate.d"

// linkHooks hard-links every activation hook of the package's head
// environment into the session's environment, replacing same-named entries.
// Hard links keep the hooks in lock-step: fixing a hook in the head
// environment fixes it in every tagged environment at once.
func (p *Provisioner) linkHooks(ctx context.Context, pkg string, sess envman.Session) error {
	head, err := p.envs.Session(ctx, model.HeadEnv(pkg))
	if err != nil {
		return err
	}

	srcDir := filepath.Join(head.Root(), hooksDir)
	dstDir := filepath.Join(sess.Root(), hooksDir)

	entries, err := afero.ReadDir(p.fs, srcDir)
	if err != nil {
		return err
	}
	if err = p.fs.MkdirAll(dstDir, 0755); err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(srcDir, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())
		if err = p.linker.Link(src, dst); err != nil {
			return err
		}
		p.l.Debug("linked activation hook",
			zap.String("hook", entry.Name()), zap.String("environment", sess.Name()))
	}
	return nil
}
