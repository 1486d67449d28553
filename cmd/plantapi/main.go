package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "plantapi",
		Short:         "Turn PlantUML class diagrams into OpenAPI documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	a.bindFlags(rootCmd)

	rootCmd.AddCommand(newTransformCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newLintCmd(a))
	rootCmd.AddCommand(newDDLCmd(a))
	rootCmd.AddCommand(newEncodeCmd(a))
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newFixturesCmd(a))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
