package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	appdatadomain "github.com/smallbiznis/smh/internal/appdata/domain"
	"github.com/smallbiznis/smh/internal/format"
	"github.com/spf13/cobra"
)

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Booking commands",
}

var bookingsListFlags struct {
	status    string
	customer  string
	from      string
	to        string
	query     string
	view      string
	pageSize  int
	pageToken string
}

var bookingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookings, optionally filtered or through a saved view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := bookingsListFlags
		return withApp(cmd, func(ctx context.Context, d deps) error {
			filter := appdatadomain.BookingFilter{
				Status:     appdatadomain.BookingStatus(f.status),
				CustomerID: f.customer,
				DateFrom:   f.from,
				DateTo:     f.to,
				Query:      f.query,
			}
			if f.view != "" {
				found := false
				for _, v := range d.AppData.SavedViews(ctx) {
					if v.Name == f.view || v.ID == f.view {
						filter = v.Filter
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("saved view %q not found", f.view)
				}
			}

			resp, err := d.AppData.ListBookings(ctx, appdatadomain.ListBookingsRequest{
				Filter:    filter,
				PageSize:  f.pageSize,
				PageToken: f.pageToken,
			})
			if err != nil {
				return err
			}

			currency := d.Settings.Get().Format.Currency
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REF\tDATE\tCUSTOMER\tROUTE\tSTATUS\tDRIVER\tQTY\tVALUE")
			for _, b := range resp.Bookings {
				value := b.ComputeInvoiceTotal()
				if b.InvoiceTotal != nil {
					value = *b.InvoiceTotal
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s → %s\t%s\t%s\t%d %s\t%s\n",
					b.BookingRef,
					format.DateStringAU(b.Date),
					b.CustomerName,
					b.PickupSuburb, b.DropoffSuburb,
					b.Status,
					b.DriverName,
					b.Quantity(), b.RateBasis,
					format.Currency(value, currency),
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if resp.HasMore {
				fmt.Fprintf(cmd.OutOrStdout(), "\nnext page: --page-token %s\n", resp.NextPageToken)
			}
			return nil
		})
	},
}

var saveViewCmd = &cobra.Command{
	Use:   "save-view [name]",
	Short: "Save the list filters under a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := bookingsListFlags
		return withApp(cmd, func(ctx context.Context, d deps) error {
			view, err := d.AppData.SaveView(ctx, args[0], appdatadomain.BookingFilter{
				Status:     appdatadomain.BookingStatus(f.status),
				CustomerID: f.customer,
				DateFrom:   f.from,
				DateTo:     f.to,
				Query:      f.query,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved view %s (%s)\n", view.Name, view.ID)
			return nil
		})
	},
}

var invoiceDate string

var bookingsInvoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Pool a day's billable bookings into draft invoices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, d deps) error {
			touched, err := d.Billing.InvoiceBookings(ctx, invoiceDate)
			if err != nil {
				return err
			}
			if len(touched) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to invoice")
				return nil
			}
			currency := d.Settings.Get().Format.Currency
			for _, id := range touched {
				inv, err := d.Invoices.GetByID(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d lines  %s\n",
					inv.InvoiceNo, inv.Customer, len(inv.Lines), format.Currency(inv.Total, currency))
			}
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{bookingsListCmd, saveViewCmd} {
		c.Flags().StringVar(&bookingsListFlags.status, "status", "", "booking status")
		c.Flags().StringVar(&bookingsListFlags.customer, "customer", "", "customer id")
		c.Flags().StringVar(&bookingsListFlags.from, "from", "", "first date, YYYY-MM-DD")
		c.Flags().StringVar(&bookingsListFlags.to, "to", "", "last date, YYYY-MM-DD")
		c.Flags().StringVar(&bookingsListFlags.query, "query", "", "text search")
	}
	bookingsListCmd.Flags().StringVar(&bookingsListFlags.view, "view", "", "saved view name or id")
	bookingsListCmd.Flags().IntVar(&bookingsListFlags.pageSize, "page-size", 20, "bookings per page")
	bookingsListCmd.Flags().StringVar(&bookingsListFlags.pageToken, "page-token", "", "token from a previous page")

	bookingsInvoiceCmd.Flags().StringVar(&invoiceDate, "date", "", "booking date, YYYY-MM-DD")
	_ = bookingsInvoiceCmd.MarkFlagRequired("date")

	bookingsCmd.AddCommand(bookingsListCmd, saveViewCmd, bookingsInvoiceCmd)
}
