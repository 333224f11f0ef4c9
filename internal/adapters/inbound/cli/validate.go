package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testology/psyengine/internal/adapters/outbound/gitinfo"
	"github.com/testology/psyengine/internal/application"
	"github.com/testology/psyengine/internal/domain/recommend"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [definitions-dir]",
		Short: "Check test definitions and signature rules",
		Long: "Load every test definition and the signature rules, failing on the first unreadable, unknown-keyed or invalid file " +
			"and on any recommendation that names a test without a definition.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.definitionsDir = args[0]
			}

			a, err := loadApp(cmd, opts)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			defer a.Close()

			if err := application.CheckReferences(a.registry, a.rules); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			codes := 0
			for _, f := range recommend.Families {
				codes += len(a.rules.Codes(f))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d test definitions OK, %d signature codes OK (%s)\n",
				a.registry.Len(), codes, a.settings.DefinitionsDir)
			if gitinfo.New(a.settings.DefinitionsDir).IsGitRepo() {
				fmt.Fprintln(out, "definitions are versioned in git")
			} else {
				fmt.Fprintln(out, "definitions are not under git; scores will carry no revision")
			}
			return nil
		},
	}

	return cmd
}
