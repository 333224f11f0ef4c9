package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testology/psyengine/internal/adapters/outbound/tui"
	"github.com/testology/psyengine/internal/application"
)

func newTestsCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tests [test]",
		Short: "List test definitions or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				if jsonOutput {
					return renderJSON(cmd, a.registry.IDs())
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderTests(a.registry))
				return nil
			}

			id, err := application.ResolveTestID(a.registry, args[0])
			if err != nil {
				return err
			}
			cfg, err := a.registry.Get(id)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, cfg)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderTestDetail(cfg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
