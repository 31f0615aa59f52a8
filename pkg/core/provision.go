package core

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/kreczko/pax-deploy/pkg/core/status"
	"github.com/kreczko/pax-deploy/pkg/envman"
	"github.com/kreczko/pax-deploy/pkg/model"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// patched over in tests
var timeNow = time.Now

// Provisioner drives the versioned deployment workflow for one cluster.
type Provisioner struct {
	settings Settings
	envs     envman.Manager
	repos    RepoFactory
	fs       afero.Fs
	linker   Linker
	groups   GroupLookup
	l        *zap.Logger
}

// Provision runs the deployment workflow for the named package.
//
// Every package gets its head environment reinstalled from the working copy.
// Non-primary packages stop there, except that policy may additionally
// install their head copy into the primary's latest tagged environment.
// For the primary package, the environment for the latest version tag is
// created if absent, populated with the tagged package and the head copies
// of all companions, given the head environment's activation hooks, and
// backed by group-owned output directories.
//
// The returned report lists each executed step with an explicit outcome.
// The error is the first hard failure, also recorded in the report.
func (p *Provisioner) Provision(ctx context.Context, pkg string) (Report, error) {
	report := make(Report, 0, 8)

	isPrimary := pkg == p.settings.Primary
	var companions []string
	if isPrimary {
		companions = p.settings.Companions
	}
	desc := model.NewPackageDescriptor(p.settings.Root, pkg, companions...)
	if err := desc.Validate(); err != nil {
		report.failed(StepHeadInstall, err)
		return report, err
	}

	p.l.Info("provisioning package",
		zap.String("package", pkg),
		zap.Bool("primary", isPrimary),
		zap.String("host", p.settings.Host))

	// step 1: reinstall the head environment from the working copy
	if err := p.headInstall(ctx, desc); err != nil {
		report.failed(StepHeadInstall, err)
		return report, err
	}
	report.done(StepHeadInstall, model.HeadEnv(pkg))

	// step 2: non-primary packages never touch their own versioned
	// environments
	if !isPrimary {
		err := p.headIntoLatest(ctx, desc, &report)
		return report, err
	}

	// steps 3-4: resolve the latest tag and stop when its environment is
	// already there
	repo := p.repos(desc.WorkingCopy)
	latest, err := p.resolveLatest(ctx, repo)
	if err != nil {
		report.failed(StepResolveTag, err)
		return report, err
	}
	report.done(StepResolveTag, latest)

	envName := model.TagEnv(pkg, latest)
	exists, err := p.envs.Exists(ctx, envName)
	if err != nil {
		report.failed(StepCreateEnv, err)
		return report, err
	}
	if exists {
		p.l.Info("environment already provisioned", zap.String("environment", envName))
		report.skipped(StepCreateEnv, envName)
		return report, nil
	}

	// step 5: create the tagged environment and install the tagged package
	sess, err := p.createTagged(ctx, desc, repo, latest, envName)
	if err != nil {
		report.failed(StepCreateEnv, err)
		return report, err
	}
	report.done(StepCreateEnv, envName)

	if err = p.installCompanions(ctx, sess); err != nil {
		report.failed(StepCompanions, err)
		return report, err
	}
	report.done(StepCompanions, envName)

	// step 6: propagate activation hooks from the head environment
	if err = p.linkHooks(ctx, desc.Name, sess); err != nil {
		report.failed(StepLinkHooks, err)
		return report, err
	}
	report.done(StepLinkHooks, envName)

	// step 7: output directories and the deployment descriptor
	if err = p.provisionDirs(envName); err != nil {
		report.failed(StepProvisionDirs, err)
		return report, err
	}
	if err = p.writeDescriptor(desc, latest, sess); err != nil {
		report.failed(StepProvisionDirs, err)
		return report, err
	}
	report.done(StepProvisionDirs, envName)

	p.l.Info("environment provisioned", zap.String("environment", envName))
	return report, nil
}

// headInstall reinstalls the package's head environment from its working
// copy. A missing dependency manifest makes the whole run pointless and is
// therefore fatal before anything else happens.
func (p *Provisioner) headInstall(ctx context.Context, desc model.PackageDescriptor) error {
	if _, err := p.fs.Stat(desc.ManifestPath()); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(status.ErrNoManifest, desc.ManifestPath())
		}
		return err
	}

	sess, err := p.envs.Session(ctx, model.HeadEnv(desc.Name))
	if err != nil {
		return err
	}
	if err = sess.Uninstall(ctx, desc.Name); err != nil {
		return err
	}
	return sess.Install(ctx, desc.WorkingCopy)
}

// headIntoLatest installs a non-primary package's head copy into the
// primary's latest tagged environment, when policy asks for it and that
// environment exists. Both the policy miss and the absent environment are
// silent no-ops.
func (p *Provisioner) headIntoLatest(ctx context.Context, desc model.PackageDescriptor, report *Report) error {
	if !p.settings.headIntoLatestFor(desc.Name) {
		return nil
	}

	primary := model.NewPackageDescriptor(p.settings.Root, p.settings.Primary)
	tags, err := p.repos(primary.WorkingCopy).Tags(ctx)
	if err != nil {
		report.failed(StepHeadIntoLatest, err)
		return err
	}
	latest, ok := model.Tags(tags).Latest()
	if !ok {
		report.skipped(StepHeadIntoLatest, "no version tags on primary")
		return nil
	}

	envName := model.TagEnv(p.settings.Primary, latest)
	exists, err := p.envs.Exists(ctx, envName)
	if err != nil {
		report.failed(StepHeadIntoLatest, err)
		return err
	}
	if !exists {
		report.skipped(StepHeadIntoLatest, envName+" does not exist")
		return nil
	}

	sess, err := p.envs.Session(ctx, envName)
	if err != nil {
		report.failed(StepHeadIntoLatest, err)
		return err
	}
	if err = sess.Install(ctx, desc.WorkingCopy); err != nil {
		report.failed(StepHeadIntoLatest, err)
		return err
	}
	report.done(StepHeadIntoLatest, envName)
	return nil
}

// resolveLatest pulls the repository and determines the latest version tag.
func (p *Provisioner) resolveLatest(ctx context.Context, repo Repo) (string, error) {
	if err := repo.Pull(ctx); err != nil {
		return "", err
	}
	tags, err := repo.Tags(ctx)
	if err != nil {
		return "", err
	}
	latest, ok := model.Tags(tags).Latest()
	if !ok {
		return "", status.ErrNoTags
	}
	return latest, nil
}

// createTagged clones the head environment under the tag-qualified name and
// installs the package at the tag. The working copy is restored to the
// mainline branch whether or not the install succeeded.
func (p *Provisioner) createTagged(ctx context.Context, desc model.PackageDescriptor, repo Repo, tag, envName string) (envman.Session, error) {
	if err := p.envs.Clone(ctx, model.HeadEnv(desc.Name), envName); err != nil {
		return nil, err
	}
	sess, err := p.envs.Session(ctx, envName)
	if err != nil {
		return nil, err
	}

	if err = repo.Checkout(ctx, tag); err != nil {
		return nil, err
	}
	installErr := sess.Install(ctx, desc.WorkingCopy)
	restoreErr := repo.Checkout(ctx, p.settings.Mainline)
	if err = multierr.Append(installErr, restoreErr); err != nil {
		return nil, err
	}
	return sess, nil
}

// installCompanions pulls each companion and installs its head copy into the
// session's environment. A failing companion does not stop the others; all
// failures are aggregated.
func (p *Provisioner) installCompanions(ctx context.Context, sess envman.Session) error {
	var agg error
	for _, companion := range p.settings.Companions {
		cdesc := model.NewPackageDescriptor(p.settings.Root, companion)
		if err := cdesc.Validate(); err != nil {
			agg = multierr.Append(agg, err)
			continue
		}
		if err := p.repos(cdesc.WorkingCopy).Pull(ctx); err != nil {
			agg = multierr.Append(agg, errors.Wrap(err, companion))
			continue
		}
		if err := sess.Install(ctx, cdesc.WorkingCopy); err != nil {
			agg = multierr.Append(agg, errors.Wrap(err, companion))
			continue
		}
		p.l.Info("companion installed",
			zap.String("companion", companion), zap.String("environment", sess.Name()))
	}
	if agg != nil {
		return errors.Wrap(status.ErrCompanionInstall, agg.Error())
	}
	return nil
}

// writeDescriptor records what was deployed inside the environment root.
func (p *Provisioner) writeDescriptor(desc model.PackageDescriptor, tag string, sess envman.Session) error {
	deployment := model.Deployment{
		Package:    desc.Name,
		Tag:        tag,
		Companions: desc.Companions,
		Host:       p.settings.Host,
		Timestamp:  timeNow(),
		Version:    model.DeploymentVersion,
	}
	if err := model.ValidateDeployment(deployment); err != nil {
		return err
	}
	b, err := model.MarshalDeployment(&deployment)
	if err != nil {
		return err
	}
	target := filepath.Join(sess.Root(), model.GetPathToDeployment())
	return afero.WriteFile(p.fs, target, b, 0644)
}
