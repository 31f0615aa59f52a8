// Package status exports errors produced by the core package.
package status

import (
	"github.com/pkg/errors"
)

var (
	// ErrNoManifest indicates the package working copy has no dependency
	// manifest, which makes any install attempt meaningless
	ErrNoManifest = errors.New("dependency manifest not found in working copy")

	// ErrNoTags indicates the repository has no version-parsable tags to
	// provision from
	ErrNoTags = errors.New("no version tags found in repository")

	// ErrCompanionInstall indicates one or more companion packages failed to
	// install into a freshly created environment
	ErrCompanionInstall = errors.New("companion package installation failed")

	// ErrUnknownGroup indicates the configured administrative group does not
	// exist on this host
	ErrUnknownGroup = errors.New("administrative group not found")
)
