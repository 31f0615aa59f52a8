package cmd

import (
	"github.com/spf13/cobra"
)

// envCmd represents the environment related commands
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Commands to inspect runtime environments",
	Long: `Commands to inspect the runtime environments managed by paxdeploy.

paxdeploy never deletes environments; these commands are read-only.`,
}

func init() {
	rootCmd.AddCommand(envCmd)
}
