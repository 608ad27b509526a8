package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

const introText = `Welcome to SMH.

  smh bookings list            browse bookings
  smh bookings invoice --date  pool a day's work into draft invoices
  smh runsheet show            see a driver's run sheet
  smh invoices list            review invoices`

var introReset bool

var introCmd = &cobra.Command{
	Use:   "intro",
	Short: "Show the getting-started notes once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, d deps) error {
			if introReset {
				d.Intro.Reset(ctx)
			}
			if !d.Intro.ShouldShow(ctx) {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), introText)
			d.Intro.MarkShown(ctx)
			return nil
		})
	},
}

func init() {
	introCmd.Flags().BoolVar(&introReset, "reset", false, "show the notes again")
}
