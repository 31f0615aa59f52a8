package model

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// DeploymentVersion is the version of the deployment descriptor schema
const DeploymentVersion = 1

const headSuffix = "_head"

// HeadEnv returns the name of the head environment for a package,
// i.e. the environment tracking its development branch.
func HeadEnv(pkg string) string {
	return pkg + headSuffix
}

// TagEnv returns the name of the environment pinned to a released version tag.
func TagEnv(pkg, tag string) string {
	return pkg + "_" + tag
}

// IsHeadEnv reports whether an environment name denotes a head environment.
func IsHeadEnv(env string) bool {
	return strings.HasSuffix(env, headSuffix)
}

// EnvPackage extracts the package name from an environment name, with the
// second return indicating whether the name follows the <package>_<tag>
// or <package>_head convention.
func EnvPackage(env string) (string, bool) {
	i := strings.Index(env, "_")
	if i <= 0 || i == len(env)-1 {
		return "", false
	}
	return env[:i], true
}

// Deployment is the descriptor persisted inside a provisioned environment.
// It records what was installed there and when, so that environments remain
// auditable after the fact.
type Deployment struct {
	Package    string    `json:"package" yaml:"package"`                           // Package is the primary package installed in the environment
	Tag        string    `json:"tag,omitempty" yaml:"tag,omitempty"`               // Tag is the released version, empty for head environments
	Companions []string  `json:"companions,omitempty" yaml:"companions,omitempty"` // Companions installed alongside the package
	Host       string    `json:"host,omitempty" yaml:"host,omitempty"`             // Host that ran the deployment
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`                       // Timestamp of the deployment
	Version    uint64    `json:"version" yaml:"version"`                           // Version of the descriptor schema
	_          struct{}
}

// GetPathToDeployment returns the path of the deployment descriptor
// relative to an environment root.
func GetPathToDeployment() string {
	return "deployment.yaml"
}

// EnvName returns the environment name this deployment describes.
func (d Deployment) EnvName() string {
	if d.Tag == "" {
		return HeadEnv(d.Package)
	}
	return TagEnv(d.Package, d.Tag)
}

// MarshalDeployment serializes a deployment descriptor to yaml
func MarshalDeployment(d *Deployment) ([]byte, error) {
	return yaml.Marshal(d)
}

// UnmarshalDeployment deserializes a deployment descriptor from yaml
func UnmarshalDeployment(b []byte) (*Deployment, error) {
	if b == nil {
		return nil, fmt.Errorf("received nil entry to unmarshal")
	}
	var d Deployment
	err := yaml.Unmarshal(b, &d)
	return &d, err
}

// ValidateDeployment a deployment descriptor
func ValidateDeployment(d Deployment) error {
	switch {
	case d.Package == "":
		return fmt.Errorf("deployment descriptor has no package")
	case d.Timestamp.IsZero():
		return fmt.Errorf("deployment descriptor has no timestamp")
	}
	return nil
}
