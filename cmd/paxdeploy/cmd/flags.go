package cmd

import (
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		logLevel string
	}
	env struct {
		pkg string
	}
}

var paxdeployFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&paxdeployFlags.root.logLevel, loglevel, "info",
		"The logging level: debug, info, warn, error or none")
	return loglevel
}

func addPackageFilterFlag(cmd *cobra.Command) string {
	pkg := "package"
	cmd.Flags().StringVar(&paxdeployFlags.env.pkg, pkg, "",
		"Only list environments belonging to this package")
	return pkg
}
