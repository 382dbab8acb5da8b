package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "devdesk",
		Short: "DevDesk - IT helpdesk tickets, knowledge base and asset register",
		Long: `DevDesk serves a small REST API and browser shell for helpdesk tickets,
knowledge-base articles and tracked assets. Running it without a subcommand
starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(SeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
