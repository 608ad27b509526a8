package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smh",
	Short: "SMH transport operations back office",
	Long: `smh manages bookings, customers, fleet resources, run sheets and invoices.

Storage, logging and business settings come from the environment (.env is
read when present) and smh.yml.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(
		seedCmd,
		introCmd,
		bookingsCmd,
		invoicesCmd,
		runsheetCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
