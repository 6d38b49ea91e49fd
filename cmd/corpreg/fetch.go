package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/new-village/corpreg/pkg/corpreg/dataset"
	"github.com/new-village/corpreg/pkg/corpreg/fetch"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

func newFetchCmd() *cobra.Command {
	var (
		regionFlag string
		dateFlag   string
		outFlag    string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one region's records into a raw dataset file",
		Args:  cobra.NoArgs,
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

			writer, err := dataset.NewRawWriter(settings.OutputDir, region, dateFlag)
			if err != nil {
				return err
			}
			client := newFetchClient(settings)

			if region.IsAll() {
				err = client.FetchAll(cmd.Context(), dateFlag, fetch.FetchAllOptions{
					Workers:         settings.FetchWorkers,
					ContinueOnError: settings.ContinueOnError,
				}, writer.Add)
				var multi *fetch.MultiRegionError
				if errors.As(err, &multi) {
					log.Printf("Fetch completed with %d failed region(s): %v",
						len(multi.FailedRegions()), multi.FailedRegions())
					err = nil
				}
			} else {
				err = client.FetchRegion(cmd.Context(), region, dateFlag, writer.Add)
			}
			if err != nil {
				writer.Close()
				return err
			}

			sum, err := writer.Close()
			if err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&regionFlag, "region", "ALL", "Region selector: prefecture code 01..47 or ALL")
	cmd.Flags().StringVar(&dateFlag, "date", time.Now().Format("2006-01-02"), "Reference date for the snapshot")
	cmd.Flags().StringVar(&outFlag, "out", "", "Output directory for the dataset file")

	return cmd
}
