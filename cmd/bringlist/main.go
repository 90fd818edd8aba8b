package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bringlist",
		Short: "Shared lists of items to bring for each child",
		Long: `bringlist serves the admin and public pages plus the JSON API for
managing an item catalog and per-child lists of items to bring.

Running without a subcommand is the same as "bringlist serve".
Configuration comes from the environment or a .env file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(newServeCmd(), newExportCmd(), newHashPasswordCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
