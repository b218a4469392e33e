package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRuns",
		Short: "List recorded allocation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Runs == nil {
				return fmt.Errorf("no database configured (set databaseURL)")
			}

			runs, err := app.Runs.GetRuns(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			fmt.Printf("\nFound %d runs:\n\n", len(runs))
			for _, r := range runs {
				fmt.Printf("- %s %s <- %s (%s) seed=%d items=%d placed=%d failures=%d collisions=%d repeats=%d skipped=%d\n",
					r.CreatedAt.Format("2006-01-02 15:04"),
					r.ColumnName,
					r.SourceColumn,
					r.ID,
					r.Seed,
					r.Items,
					r.Placed,
					r.Failures,
					r.Collisions,
					r.RepeatPairings,
					r.Skipped,
				)
			}

			return nil
		},
	}
}
