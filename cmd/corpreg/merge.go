package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/new-village/corpreg/pkg/corpreg/dataset"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

func newMergeCmd() *cobra.Command {
	var (
		inFlag string
		dbFlag string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge a raw dataset file into the master database",
		Long: `Merge loads a raw dataset file and folds it into the accumulating
master database. Rows already present for the same corporate number and
update date are left untouched; new rows are inserted and then
classified so the enrichment columns stay complete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := loadComponents()
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), dbFlag, comp.Settings)
			if err != nil {
				return err
			}
			if st == nil {
				return fmt.Errorf("no database configured: pass --db or set database_path in settings")
			}
			defer st.Close()

			records, err := dataset.ReadRaw(inFlag)
			if err != nil {
				return err
			}

			stats, err := st.MergeSnapshot(cmd.Context(), records)
			if err != nil {
				return err
			}

			enriched := make([]registry.Enriched, len(records))
			for i, rec := range records {
				enriched[i] = dataset.EnrichRecord(comp.Classifier, rec)
			}
			updated, err := st.UpdateEnrichment(cmd.Context(), enriched)
			if err != nil {
				return err
			}

			fmt.Printf("Merged %d new record(s) into master (%d total), %d enrichment row(s) updated\n",
				stats.Inserted, stats.Total, updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&inFlag, "in", "", "Raw dataset file to merge")
	cmd.Flags().StringVar(&dbFlag, "db", "", "Master SQLite database path")
	cmd.MarkFlagRequired("in")

	return cmd
}
