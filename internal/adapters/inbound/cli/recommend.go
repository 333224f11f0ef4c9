package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testology/psyengine/internal/adapters/outbound/tui"
	"github.com/testology/psyengine/internal/domain/recommend"
)

func newRecommendCmd(opts *globalOptions) *cobra.Command {
	var (
		jsonOutput bool
		userID     string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest the next tests for a user",
		Long:  "Read a user's history and rank follow-up tests from personality signatures, screening results and coverage gaps.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.openHistory(); err != nil {
				return err
			}

			payload, err := a.recommendService().Recommend(cmd.Context(), userID, limit)
			if err != nil {
				return fmt.Errorf("recommend failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, payload)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRecommendations(payload))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output recommendations as JSON")
	cmd.Flags().StringVar(&userID, "user", "", "User whose history is read")
	cmd.Flags().IntVar(&limit, "limit", recommend.DefaultLimit, "Maximum number of recommendations")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
