package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	svc := &services{}
	err := newRootCmd(svc).ExecuteContext(ctx)
	svc.close()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(svc *services) *cobra.Command {
	root := &cobra.Command{
		Use:           "invoicer",
		Short:         "Generate PDF invoices from Toggl time entries and client contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return svc.init()
		},
	}
	root.AddCommand(
		newGenerateCmd(svc),
		newCustomCmd(svc),
		newListCmd(svc),
		newViewCmd(svc),
		newServeCmd(svc),
	)
	return root
}
