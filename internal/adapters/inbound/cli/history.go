package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testology/psyengine/internal/adapters/outbound/tui"
	"github.com/testology/psyengine/internal/domain"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var (
		jsonOutput bool
		userID     string
		recordID   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved results",
		Long:  "List a user's saved results newest first, or show one record by id.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (userID == "") == (recordID == "") {
				return errors.New("exactly one of --user or --id is required")
			}

			a, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.openHistory(); err != nil {
				return err
			}
			svc := a.recommendService()

			var records []domain.HistoryRecord
			if recordID != "" {
				rec, err := svc.Record(cmd.Context(), recordID)
				if err != nil {
					return fmt.Errorf("loading record: %w", err)
				}
				if jsonOutput {
					return renderJSON(cmd, rec)
				}
				records = []domain.HistoryRecord{rec}
			} else {
				records, err = svc.History(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return renderJSON(cmd, records)
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(records))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output records as JSON")
	cmd.Flags().StringVar(&userID, "user", "", "List this user's records")
	cmd.Flags().StringVar(&recordID, "id", "", "Show a single record")

	return cmd
}
