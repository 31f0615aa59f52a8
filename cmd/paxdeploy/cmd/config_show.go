package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the paxdeploy config",
	Long: `Commands to manage the paxdeploy CLI config.

The configuration captures the site deployment policy: which package is the
primary one, which companions ride along, where working copies and output
directories live, and which group owns provisioned directories.`,
}

// configShowCmd represents the show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the effective configuration after merging config file and environment.`,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("marshaling config", err)
			return
		}
		infoLogger.Print(string(b))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
