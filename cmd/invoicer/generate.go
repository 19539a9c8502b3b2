package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoicer/internal/application/billing"
)

func newGenerateCmd(svc *services) *cobra.Command {
	var month, client, configPath, output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one invoice per contract from the month's time entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			repo, err := svc.repository(ctx)
			if err != nil {
				return err
			}
			uc := billing.NewGenerateUseCase(
				svc.contracts(configPath), svc.toggl(), repo, svc.renderer(),
				svc.loc, time.Now, svc.log,
			)

			report, err := uc.Execute(ctx, billing.GenerateInput{
				Month:     month,
				Client:    client,
				OutputDir: svc.outputDir(output),
			})
			if report != nil {
				out := cmd.OutOrStdout()
				for _, g := range report.Generated {
					fmt.Fprintf(out, "Invoice %s for %s: %s (total %s)\n", g.Number, g.Client, g.Path, svc.money.Display(g.Total))
				}
				if len(report.Failed) > 0 {
					fmt.Fprintf(out, "%d invoice(s) generated, %d failed\n", len(report.Generated), len(report.Failed))
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to invoice (YYYY-MM, default: current month)")
	cmd.Flags().StringVarP(&client, "client", "c", "", "Only generate the invoice for this client")
	cmd.Flags().StringVar(&configPath, "config", "", "Contracts file (default: CONTRACTS_PATH)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default: OUTPUT_DIR)")
	return cmd
}
