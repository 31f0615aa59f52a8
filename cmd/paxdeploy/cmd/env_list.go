package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/go-units"
	"github.com/kreczko/pax-deploy/pkg/envman"
	"github.com/kreczko/pax-deploy/pkg/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var newManager = func() envman.Manager {
	return envman.NewConda()
}

// envFs is the filesystem used to read deployment descriptors, patched in tests
var envFs = afero.NewOsFs()

// envListCmd represents the list command
var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known runtime environments",
	Long: `List the runtime environments in the environment manager's registry.

Environments provisioned by paxdeploy carry a deployment descriptor; for
those, the deployed tag and the age of the deployment are reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		envs, err := newManager().List(context.Background())
		if err != nil {
			wrapFatalln("listing environments", err)
			return
		}
		printEnvs(os.Stdout, envs, paxdeployFlags.env.pkg)
	},
}

func printEnvs(w io.Writer, envs []envman.Environment, pkgFilter string) {
	for _, env := range envs {
		pkg, ok := model.EnvPackage(env.Name)
		if !ok {
			// not a paxdeploy-managed name (e.g. the base environment)
			continue
		}
		if pkgFilter != "" && pkg != pkgFilter {
			continue
		}
		fmt.Fprintf(w, "%s\t%s", env.Name, describeEnv(env))
		fmt.Fprintln(w)
	}
}

func describeEnv(env envman.Environment) string {
	b, err := afero.ReadFile(envFs, filepath.Join(env.Prefix, model.GetPathToDeployment()))
	if err != nil {
		if model.IsHeadEnv(env.Name) {
			return "head"
		}
		return "no deployment descriptor"
	}
	deployment, err := model.UnmarshalDeployment(b)
	if err != nil || model.ValidateDeployment(*deployment) != nil {
		return "invalid deployment descriptor"
	}
	age := units.HumanDuration(time.Since(deployment.Timestamp))
	if deployment.Tag == "" {
		return fmt.Sprintf("head, deployed %s ago", age)
	}
	return fmt.Sprintf("%s, deployed %s ago", deployment.Tag, age)
}

func init() {
	envCmd.AddCommand(envListCmd)
	addPackageFilterFlag(envListCmd)
}
