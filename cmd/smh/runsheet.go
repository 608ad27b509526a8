package main

import (
	"context"
	"fmt"

	"github.com/smallbiznis/smh/internal/format"
	"github.com/spf13/cobra"
)

var runsheetCmd = &cobra.Command{
	Use:   "runsheet",
	Short: "Run sheet commands",
}

var runsheetShowFlags struct {
	date   string
	driver string
}

var runsheetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a driver's run sheet for a date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := runsheetShowFlags
		return withApp(cmd, func(ctx context.Context, d deps) error {
			sheet, ok := d.Resources.GetRunsheetBy(ctx, f.date, f.driver)
			if !ok {
				return fmt.Errorf("no run sheet for driver %s on %s", f.driver, f.date)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run sheet %s, shift %s, %s\n", sheet.ID, sheet.ShiftID, format.DateStringAU(sheet.Date))
			for i, job := range sheet.Jobs {
				fmt.Fprintf(out, "%2d. %s  %s → %s  %dp/%ds  %s\n",
					i, job.ID, job.Pickup, job.Dropoff, job.Pallets, job.Spaces, job.BookingID)
			}
			return nil
		})
	},
}

var runsheetMoveFlags struct {
	from  string
	to    string
	job   string
	index int
}

var runsheetMoveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move a job between run sheets, or reorder within one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := runsheetMoveFlags
		return withApp(cmd, func(ctx context.Context, d deps) error {
			to := f.to
			if to == "" {
				to = f.from
			}
			if err := d.Resources.MoveJobBetweenRunsheets(ctx, f.from, to, f.job, f.index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "moved %s to shift %s at %d\n", f.job, to, f.index)
			return nil
		})
	},
}

func init() {
	runsheetShowCmd.Flags().StringVar(&runsheetShowFlags.date, "date", "", "shift date, YYYY-MM-DD")
	runsheetShowCmd.Flags().StringVar(&runsheetShowFlags.driver, "driver", "", "driver id")
	_ = runsheetShowCmd.MarkFlagRequired("date")
	_ = runsheetShowCmd.MarkFlagRequired("driver")

	runsheetMoveCmd.Flags().StringVar(&runsheetMoveFlags.from, "from", "", "source shift id")
	runsheetMoveCmd.Flags().StringVar(&runsheetMoveFlags.to, "to", "", "destination shift id, defaults to the source")
	runsheetMoveCmd.Flags().StringVar(&runsheetMoveFlags.job, "job", "", "job id")
	runsheetMoveCmd.Flags().IntVar(&runsheetMoveFlags.index, "index", 0, "position on the destination sheet")
	_ = runsheetMoveCmd.MarkFlagRequired("from")
	_ = runsheetMoveCmd.MarkFlagRequired("job")

	runsheetCmd.AddCommand(runsheetShowCmd, runsheetMoveCmd)
}
