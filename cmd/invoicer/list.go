package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoicer/internal/application/billing"
	"github.com/jhoicas/invoicer/internal/application/dto"
	"github.com/jhoicas/invoicer/internal/domain"
)

func newListCmd(svc *services) *cobra.Command {
	var q dto.ListQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored invoices, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := svc.repository(ctx)
			if err != nil {
				return err
			}
			rows, err := billing.NewQueryUseCase(repo, svc.money).List(ctx, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No invoices found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMBER\tKIND\tCLIENT\tISSUED\tDUE\tTOTAL")
			for _, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Number, r.Kind, r.Client, r.IssueDate, r.DueDate, r.TotalText)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&q.Limit, "limit", "l", 10, "Maximum number of invoices")
	cmd.Flags().StringVarP(&q.Client, "client", "c", "", "Only invoices for this client")
	return cmd
}

func newViewCmd(svc *services) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show a stored invoice with its items and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("%w: invalid invoice id %q", domain.ErrInvalidInput, args[0])
			}
			ctx := cmd.Context()
			repo, err := svc.repository(ctx)
			if err != nil {
				return err
			}
			inv, err := billing.NewQueryUseCase(repo, svc.money).Get(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Invoice %s (#%d, %s)\n", inv.Number, inv.ID, inv.Kind)
			fmt.Fprintf(out, "Issued: %s   Due: %s\n", inv.IssueDate, inv.DueDate)
			fmt.Fprintf(out, "From:   %s\n", inv.Sender.Name)
			fmt.Fprintf(out, "To:     %s\n\n", inv.BillTo.Name)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "DESCRIPTION\tPERIOD\tQTY\tUNIT PRICE\tAMOUNT\t")
			for _, it := range inv.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
					it.Description, it.Period, strconv.FormatFloat(it.Qty, 'f', -1, 64),
					svc.money.Display(it.UnitPrice), svc.money.Display(it.Amount))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSubtotal:   %s\n", svc.money.Display(inv.Subtotal))
			fmt.Fprintf(out, "Tax (%s%%): %s\n", strconv.FormatFloat(inv.TaxRate, 'f', -1, 64), svc.money.Display(inv.Tax))
			fmt.Fprintf(out, "Total:      %s\n", svc.money.Display(inv.Total))
			fmt.Fprintf(out, "Amount due: %s\n", svc.money.Display(inv.AmountDue))
			if len(inv.Timesheets) > 0 {
				fmt.Fprintf(out, "\n%d time entries\n", len(inv.Timesheets))
			}
			return nil
		},
	}
}
