package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luminagems/gemstore/internal/cli"
	"github.com/luminagems/gemstore/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gemstored",
		Short: "Gemstore daemon and CLI",
		Long:  "Gemstore daemon for running the storefront API server and managing exchange rates",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.RatesCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
