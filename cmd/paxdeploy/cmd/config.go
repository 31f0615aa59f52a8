package cmd

import (
	"os"

	"github.com/kreczko/pax-deploy/pkg/core"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration: the site deployment policy the
// provisioner runs under.
type CLIConfig struct {
	Root           string   `json:"root" yaml:"root" mapstructure:"root"`                                           // Root directory holding package working copies
	Primary        string   `json:"primary" yaml:"primary" mapstructure:"primary"`                                  // Primary package with versioned lifecycle
	Companions     []string `json:"companions" yaml:"companions" mapstructure:"companions"`                         // Companion packages for tagged environments
	HeadIntoLatest []string `json:"head_into_latest" yaml:"head_into_latest" mapstructure:"head_into_latest"`       // Packages whose head copy goes into the primary's latest tagged env
	Mainline       string   `json:"mainline" yaml:"mainline" mapstructure:"mainline"`                               // Mainline branch of package repositories
	Group          string   `json:"group" yaml:"group" mapstructure:"group"`                                        // Administrative group for provisioned directories
	ProcessedDir   string   `json:"processed_dir" yaml:"processed_dir" mapstructure:"processed_dir"`                // Root of processed-data output directories
	MinitreeDir    string   `json:"minitree_dir" yaml:"minitree_dir" mapstructure:"minitree_dir"`                   // Root of minitree output directories
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// settings translates the CLI configuration into provisioner settings,
// stamping in the current host for deployment descriptors.
func (c *CLIConfig) settings() core.Settings {
	host, _ := os.Hostname()
	return core.Settings{
		Root:           c.Root,
		Primary:        c.Primary,
		Companions:     c.Companions,
		HeadIntoLatest: c.HeadIntoLatest,
		Mainline:       c.Mainline,
		Group:          c.Group,
		ProcessedDir:   c.ProcessedDir,
		MinitreeDir:    c.MinitreeDir,
		Host:           host,
	}
}

var config *CLIConfig
