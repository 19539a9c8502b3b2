package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoicer/internal/application/billing"
	"github.com/jhoicas/invoicer/internal/application/dto"
)

func newCustomCmd(svc *services) *cobra.Command {
	var (
		client, itemsJSON, issueDate, dueDate, configPath, output string
		interactive                                               bool
	)

	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Create an invoice for a contract with manually entered items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := svc.repository(ctx)
			if err != nil {
				return err
			}
			uc := billing.NewCustomUseCase(svc.contracts(configPath), repo, svc.renderer(), svc.loc, time.Now, svc.log)

			var items []dto.ItemRequest
			if interactive {
				contract, err := uc.Contract(client)
				if err != nil {
					return err
				}
				items, err = billing.PromptItems(os.Stdin, cmd.OutOrStdout(), contract)
				if err != nil {
					return err
				}
			} else {
				items, err = billing.ParseItems(itemsJSON)
				if err != nil {
					return err
				}
			}

			res, err := uc.Execute(ctx, billing.CustomInput{
				Client:    client,
				Items:     items,
				IssueDate: issueDate,
				DueDate:   dueDate,
				OutputDir: svc.outputDir(output),
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Invoice ID:     %d\n", res.ID)
			fmt.Fprintf(out, "Invoice number: %s\n", res.Number)
			fmt.Fprintf(out, "Client:         %s\n", res.Client)
			fmt.Fprintf(out, "Total:          %s\n", svc.money.Display(res.Total))
			fmt.Fprintf(out, "Output:         %s\n", res.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&client, "client", "c", "", "Client name as it appears in the contracts file")
	cmd.Flags().StringVarP(&itemsJSON, "items", "i", "[]", `Items as JSON: [{"description":"...","qty":1,"unitPrice":100,"period":"..."}]`)
	cmd.Flags().StringVar(&issueDate, "issue-date", "", "Issue date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "Due date (YYYY-MM-DD, default: today + 30 days)")
	cmd.Flags().StringVar(&configPath, "config", "", "Contracts file (default: CONTRACTS_PATH)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default: OUTPUT_DIR)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for items on stdin")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}
