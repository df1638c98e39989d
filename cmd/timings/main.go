package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "timings",
		Short: "Parse and summarize server timings reports",
		Long: `timings decodes a timings report (JSON, YAML, MessagePack or BSON),
materializes it into typed report objects and prints the heaviest handlers.`,
		Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ./timings.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log materialization details to stderr")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTypesCmd())
	return rootCmd
}
