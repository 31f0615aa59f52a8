package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kreczko/pax-deploy/pkg/core"
	"github.com/kreczko/pax-deploy/pkg/dlogger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// provisioning is the subset of core.Provisioner the command needs,
// hookable for tests.
type provisioning interface {
	Provision(ctx context.Context, pkg string) (core.Report, error)
}

var newProvisioner = func(settings core.Settings, l *zap.Logger) provisioning {
	return core.New(settings, core.Logger(l))
}

// provisionCmd represents the provision command
var provisionCmd = &cobra.Command{
	Use:   "provision <package>",
	Short: "Install a package into its head environment and, for the primary package, provision the latest tagged environment",
	Long: `Install a package into its head environment and, for the primary package,
provision the environment for its latest released version tag.

The head environment is always reinstalled from the package's working copy.
For the primary package, the latest version tag is resolved from its
repository; when the matching environment does not exist yet it is cloned
from the head environment, the tagged package and all companion packages are
installed into it, activation hooks are linked over, and the output
directory trees are created with the configured group ownership.

Provisioning an already-existing tagged environment is a no-op.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := dlogger.GetLogger(paxdeployFlags.root.logLevel)
		if err != nil {
			wrapFatalln("invalid log level", err)
			return
		}

		settings := config.settings()
		// same diagnostic the operators relied on in the shell days
		infoLogger.Println("deploying from host:", settings.Host)

		report, err := newProvisioner(settings, logger).Provision(context.Background(), args[0])
		printReport(report)
		if err != nil {
			wrapFatalln("provisioning "+args[0], err)
			return
		}
	},
}

func printReport(report core.Report) {
	for _, step := range report {
		fmt.Fprintf(os.Stdout, "%-12s %s", renderOutcome(step.Outcome), step.Name)
		if step.Detail != "" {
			fmt.Fprintf(os.Stdout, " (%s)", step.Detail)
		}
		if step.Err != nil {
			fmt.Fprintf(os.Stdout, ": %v", step.Err)
		}
		fmt.Fprintln(os.Stdout)
	}
}

func renderOutcome(outcome core.Outcome) string {
	switch outcome {
	case core.OutcomeDone:
		return color.GreenString(string(outcome))
	case core.OutcomeSkipped:
		return color.YellowString(string(outcome))
	default:
		return color.RedString(string(outcome))
	}
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}
