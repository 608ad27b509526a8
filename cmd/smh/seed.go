package main

import (
	"context"
	"fmt"

	appdatadomain "github.com/smallbiznis/smh/internal/appdata/domain"
	invoicedomain "github.com/smallbiznis/smh/internal/invoice/domain"
	resourcedomain "github.com/smallbiznis/smh/internal/resource/domain"
	"github.com/smallbiznis/smh/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all stored data with the demo dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, d deps) error {
			d.Adapter.Save(ctx, appdatadomain.StorageKey, seed.AppData())
			d.Adapter.Save(ctx, resourcedomain.StorageKey, seed.Resources())
			d.Adapter.Save(ctx, invoicedomain.StorageKey, seed.Invoices())

			d.AppData.Reload(ctx)
			d.Resources.Reload(ctx)
			d.Invoices.Reload(ctx)

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d bookings, %d drivers, %d invoices\n",
				len(d.AppData.Bookings(ctx)),
				len(d.Resources.Drivers(ctx)),
				len(d.Invoices.Invoices(ctx)),
			)
			return nil
		})
	},
}
