package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/new-village/corpreg/internal/progress"
	"github.com/new-village/corpreg/pkg/corpreg/dataset"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

func newEnrichCmd() *cobra.Command {
	var (
		regionFlag string
		dateFlag   string
		outFlag    string
		inFlag     string
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Derive the enriched dataset from an existing raw dataset",
		Long: `Enrich reads a raw dataset file, classifies every registered name into
entity type, brand name and katakana reading, and writes the enriched
dataset next to it. The input path is derived from --region and --date
unless --in names a file directly.`,
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

			rawPath := inFlag
			if rawPath == "" {
				rawPath = dataset.RawPath(settings.OutputDir, region, dateFlag)
			}
			outPath := dataset.EnrichedPath(settings.OutputDir, region, dateFlag)

			sum, err := dataset.Enrich(cmd.Context(), rawPath, outPath, comp.Classifier, dataset.EnrichOptions{
				Workers:  settings.EnrichWorkers,
				Progress: progress.StepLogger("enrich", 10),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&regionFlag, "region", "ALL", "Region selector: prefecture code 01..47 or ALL")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Execution date of the raw dataset")
	cmd.Flags().StringVar(&outFlag, "out", "", "Directory holding the dataset files")
	cmd.Flags().StringVar(&inFlag, "in", "", "Raw dataset file (overrides the derived path)")
	cmd.MarkFlagRequired("date")

	return cmd
}
