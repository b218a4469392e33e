package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danyan90/TA/pkg/core/services"
	"github.com/danyan90/TA/pkg/db"
)

// AddColumnsCmd creates the addColumns command
func AddColumnsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addColumns",
		Short: "Allocate stations for the next sessions and append them as new columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			output, _ := cmd.Flags().GetString("output")

			seed := time.Now().UnixNano()
			if app.Cfg.Allocation.Seed != nil {
				seed = *app.Cfg.Allocation.Seed
			}
			if cmd.Flags().Changed("seed") {
				seed, _ = cmd.Flags().GetInt64("seed")
			}

			cfg := *app.Cfg
			if count > 0 {
				cfg.Columns.Count = count
			}

			app.Logger.Debug("addColumns command",
				zap.Int("count", cfg.Columns.Count),
				zap.Int64("seed", seed),
				zap.Bool("dry_run", dryRun))

			// A dry run allocates into a copy so the session roster stays as loaded
			roster := app.Table
			var runs db.RunStore
			if dryRun {
				roster = app.Table.Clone()
			} else {
				runs = app.Runs
			}

			result, err := services.AddColumns(app.Ctx, roster, runs, &cfg, app.Logger, seed)
			if err != nil {
				return err
			}

			fmt.Printf("\nSeed: %d\n\n", result.Seed)
			for _, c := range result.Columns {
				fmt.Printf("%s (from %s): %d placed, %d collisions, %d repeat pairings",
					c.Name, c.SourceColumn, len(c.Outcome.Placements), len(c.Outcome.Collisions), c.RepeatPairings)
				if len(c.Warnings) > 0 {
					fmt.Printf(", %d malformed values", len(c.Warnings))
				}
				fmt.Println()

				for _, failure := range c.Outcome.Failures {
					fmt.Printf("  ✗ row %d (previous station %d): %v\n", failure.Item, failure.Group, failure.Err)
				}
			}
			fmt.Println()

			if dryRun {
				fmt.Println("Dry run: roster not saved")
				return nil
			}

			if err := app.SaveTable(output); err != nil {
				return fmt.Errorf("failed to save roster: %w", err)
			}

			fmt.Printf("✓ Added %d columns\n", len(result.Columns))
			if failures := result.Failures(); failures > 0 {
				fmt.Printf("⚠️  %d rows could not be placed and were written as 0\n", failures)
			}

			return nil
		},
	}

	cmd.Flags().Int("count", 0, "Number of columns to add (defaults to columns.count)")
	cmd.Flags().Int64("seed", 0, "Seed for random decisions (defaults to allocation.seed, then the clock)")
	cmd.Flags().Bool("dry-run", false, "Run without saving the roster or recording runs")
	cmd.Flags().String("output", "", "CSV output path (defaults to csv.outputPath)")

	return cmd
}
