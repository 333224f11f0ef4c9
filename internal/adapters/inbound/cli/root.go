package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile     string
	definitionsDir string
	historyDriver  string
	historyPath    string
	logLevel       string
	logFormat      string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "psyengine",
		Short:         "Score psychometric tests and suggest what to take next",
		Long:          "psyengine scores questionnaire answers against declarative test definitions and recommends follow-up tests from a user's history.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Settings file (default: psyengine.yaml in . or ./configs)")
	pf.StringVar(&opts.definitionsDir, "definitions", "", "Directory holding tests/*.yaml and signature_rules.yaml")
	pf.StringVar(&opts.historyDriver, "history-driver", "", "History backend: file or sqlite")
	pf.StringVar(&opts.historyPath, "history-path", "", "History file or database path")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newTestsCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
