package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danyan90/TA/pkg/core/allocator"
	"github.com/danyan90/TA/pkg/core/codec"
	"github.com/danyan90/TA/pkg/core/services"
)

// ShowColumnCmd creates the showColumn command
func ShowColumnCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "showColumn [index]",
		Short: "Show the station groups of a column (defaults to the last column)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index := -1
			if len(args) > 0 {
				var err error
				index, err = strconv.Atoi(args[0])
				if err != nil || index < 0 {
					return fmt.Errorf("index must be a non-negative integer, got: %s", args[0])
				}
			}

			mode, err := codec.ParseDecodeMode(app.Cfg.Allocation.DecodeMode)
			if err != nil {
				return err
			}

			summary, err := services.DescribeColumn(app.Table, index, codec.DecodeOptions{
				Stations: app.Cfg.Allocation.Stations,
				Mode:     mode,
			}, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s (column %d)\n\n", summary.Name, summary.Index)
			for _, station := range summary.Grouping.Keys() {
				items := summary.Grouping[station]
				if len(items) == 0 {
					continue
				}
				label := fmt.Sprintf("Station %d", station)
				if station == allocator.UnassignedStation {
					label = "Unassigned"
				}
				fmt.Printf("  %-12s %v\n", label, items)
			}

			if len(summary.Warnings) > 0 {
				fmt.Printf("\n⚠️  %d malformed values:\n", len(summary.Warnings))
				for _, w := range summary.Warnings {
					fmt.Printf("  row %d: %v (%s)\n", w.Row, w.Value, w.Reason)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
