package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/smallbiznis/smh/internal/format"
	invoicedomain "github.com/smallbiznis/smh/internal/invoice/domain"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Invoice commands",
}

var includeArchived bool

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, d deps) error {
			currency := d.Settings.Get().Format.Currency
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMBER\tDATE\tCUSTOMER\tSTATUS\tSUBTOTAL\tTAX\tTOTAL")
			for _, inv := range d.Invoices.Invoices(ctx) {
				if inv.ArchivedAt != nil && !includeArchived {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					inv.ID,
					inv.InvoiceNo,
					format.DateStringAU(inv.Date),
					inv.Customer,
					inv.Status,
					format.Currency(inv.Subtotal, currency),
					format.Currency(inv.Tax, currency),
					format.Currency(inv.Total, currency),
				)
			}
			return w.Flush()
		})
	},
}

var invoicesNextNumberCmd = &cobra.Command{
	Use:   "next-number",
	Short: "Print the next invoice number for the current year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, d deps) error {
			fmt.Fprintln(cmd.OutOrStdout(), d.Invoices.NextInvoiceNo(ctx))
			return nil
		})
	},
}

var invoicesMarkCmd = &cobra.Command{
	Use:   "mark [invoice-id] [status]",
	Short: "Move an invoice to Draft, Confirmed, Delivered, Paid or Overdue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, d deps) error {
			inv, err := d.Invoices.MarkStatus(ctx, args[0], invoicedomain.InvoiceStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", inv.InvoiceNo, inv.Status)
			return nil
		})
	},
}

var invoicesArchiveCmd = &cobra.Command{
	Use:   "archive [invoice-id]",
	Short: "Hide an invoice from the default list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, d deps) error {
			inv, err := d.Invoices.Archive(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s archived\n", inv.InvoiceNo)
			return nil
		})
	},
}

func init() {
	invoicesListCmd.Flags().BoolVar(&includeArchived, "archived", false, "include archived invoices")
	invoicesCmd.AddCommand(invoicesListCmd, invoicesNextNumberCmd, invoicesMarkCmd, invoicesArchiveCmd)
}
