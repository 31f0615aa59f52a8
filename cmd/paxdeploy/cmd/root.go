package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paxdeploy",
	Short: "paxdeploy installs analysis packages into versioned environments",
	Long: `paxdeploy installs and versions physics-analysis packages into isolated
conda environments on a shared cluster.

Each package has a head environment tracking its development branch. The
primary package additionally gets one environment per released version tag,
cloned from its head environment and populated with the tagged package plus
a configured set of companion packages.

Every environment is created exactly once and never recreated: re-running
paxdeploy for an already-provisioned version is a safe no-op.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("primary", "pax")
	viper.SetDefault("mainline", "master")
	viper.SetDefault("head_into_latest", []string{"cax"})
	if os.Getenv("PAXDEPLOY_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("PAXDEPLOY_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.paxdeploy")
		viper.AddConfigPath("/etc/paxdeploy")
		viper.SetConfigName("paxdeploy")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
}
