package main

import (
	"context"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// notifyContext is the command's context, cancelled on interrupt.
func notifyContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}
