package main

import (
	"fmt"
	"os"

	"github.com/lanewise/lanewise/internal/cli/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lanewise",
		Short: "Lanewise CLI",
		Long:  "Command-line client for the lanewise company search API",
	}

	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		// Accept the un-hyphenated spellings people keep typing.
		switch name {
		case "apikey":
			name = "api-key"
		case "apiurl":
			name = "api-url"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.PersistentFlags().String("api-key", "", "API key (overrides LANEWISE_API_KEY)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides LANEWISE_API_URL)")
	rootCmd.PersistentFlags().BoolP("output", "o", false, "Output raw JSON")

	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.FiltersCmd())
	rootCmd.AddCommand(client.SaveCmd())
	rootCmd.AddCommand(client.SavedCmd())
	rootCmd.AddCommand(client.WatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
