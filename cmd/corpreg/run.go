package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/new-village/corpreg/internal/progress"
	"github.com/new-village/corpreg/pkg/corpreg"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

func newRunCmd() *cobra.Command {
	var (
		regionFlag string
		dateFlag   string
		outFlag    string
		dbFlag     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, assemble and enrich one region end to end",
		Long: `Run executes the full pipeline for one region selector: fetch every
record as of the reference date, write the raw dataset, derive the
enriched dataset, and merge both into the master database when one is
configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := registry.ParseRegion(regionFlag)
			if err != nil {
				return err
			}
			comp, err := loadComponents()
			if err != nil {
				return err
			}
			settings := comp.Settings
			if outFlag != "" {
				settings.OutputDir = outFlag
			}

			st, err := openStore(cmd.Context(), dbFlag, settings)
			if err != nil {
				return err
			}

			runner := corpreg.New(corpreg.Options{
				Fetcher:         newFetchClient(settings),
				Classifier:      comp.Classifier,
				Store:           st,
				OutputDir:       settings.OutputDir,
				FetchWorkers:    settings.FetchWorkers,
				EnrichWorkers:   settings.EnrichWorkers,
				ContinueOnError: settings.ContinueOnError,
				Progress:        progress.StepLogger("enrich", 10),
			})
			defer runner.Close()

			report, err := runner.Run(cmd.Context(), region, dateFlag)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s finished\n", report.RunID)
			fmt.Printf("  raw:      %s\n", report.Raw)
			fmt.Printf("  enriched: %s\n", report.Enriched)
			if len(report.FailedRegions) > 0 {
				fmt.Printf("  failed regions: %v\n", report.FailedRegions)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&regionFlag, "region", "ALL", "Region selector: prefecture code 01..47 or ALL")
	cmd.Flags().StringVar(&dateFlag, "date", time.Now().Format("2006-01-02"), "Reference date for the snapshot")
	cmd.Flags().StringVar(&outFlag, "out", "", "Output directory for the dataset files")
	cmd.Flags().StringVar(&dbFlag, "db", "", "Master SQLite database path")

	return cmd
}
