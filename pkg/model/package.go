package model

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Underscores are reserved: environment names are formed as <package>_<tag>
// or <package>_head, so a package name must not contain one.
var packageNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.-]*$`)

// PackageDescriptor identifies an installable package and its working copy.
type PackageDescriptor struct {
	Name        string   `json:"name" yaml:"name"`                                  // Name of the package
	WorkingCopy string   `json:"workingCopy" yaml:"workingCopy"`                    // WorkingCopy is the path to the package's git clone
	Companions  []string `json:"companions,omitempty" yaml:"companions,omitempty"`  // Companions installed alongside this package in tagged environments
	_           struct{}
}

// NewPackageDescriptor builds a descriptor for a package checked out under root
func NewPackageDescriptor(root, name string, companions ...string) PackageDescriptor {
	return PackageDescriptor{
		Name:        name,
		WorkingCopy: filepath.Join(root, name),
		Companions:  companions,
	}
}

// ManifestPath returns the path to the dependency manifest of the working copy.
// Installation is aborted when the manifest is absent.
func (p PackageDescriptor) ManifestPath() string {
	return filepath.Join(p.WorkingCopy, "requirements.txt")
}

// Validate a package descriptor
func (p PackageDescriptor) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("package name is empty")
	case !packageNameRe.MatchString(p.Name):
		return fmt.Errorf("invalid package name %q", p.Name)
	case p.WorkingCopy == "":
		return fmt.Errorf("package %q has no working copy", p.Name)
	}
	return nil
}
