package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luminagems/gemstore/internal/cli"
	"github.com/luminagems/gemstore/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gemstore",
		Short: "Gemstore CLI - Storefront catalog search",
		Long: `Gemstore CLI provides commands to search and manage the gemstone catalog.

Environment variables:
  GEMSTORE_API_URL       API base URL (default: http://localhost:8080)
  GEMSTORE_ADMIN_TOKEN   Admin token for catalog management commands`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("admin-token", "", "Admin token (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.SuggestCmd())
	rootCmd.AddCommand(client.GetCmd())
	rootCmd.AddCommand(client.MediaCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
