// Package main provides the entry point for the corpreg CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "corpreg",
		Short:   "Fetch the national corporate registry and enrich legal names",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Pipeline settings YAML file")
	rootCmd.PersistentFlags().StringVar(&flagLegalForms, "legal-forms", "", "Legal-form token table YAML file")
	rootCmd.PersistentFlags().StringVar(&flagKanaDict, "kana-dict", "", "Reading dictionary YAML file")

	rootCmd.AddCommand(
		newRunCmd(),
		newFetchCmd(),
		newEnrichCmd(),
		newMergeCmd(),
		newReportCmd(),
		newCatalogCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
