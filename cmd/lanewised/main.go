package main

import (
	"fmt"
	"os"

	"github.com/lanewise/lanewise/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lanewised",
		Short: "Lanewise daemon",
		Long:  "Lanewise daemon for running the company search API server",
	}

	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
