package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		dbFlag   string
		runsFlag int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report data-quality findings from the master database",
		Long: `Report lists the rows a downstream consumer should treat with care:
names carrying the gaiji placeholder, current non-government rows where
no legal form was recognized, and the count of estimated readings. It
also prints the most recent pipeline runs.`,
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

			ctx := cmd.Context()

			irregular, err := st.IrregularNames(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Names with gaiji placeholder: %d\n", len(irregular))
			for _, row := range irregular {
				fmt.Printf("  %s  %s  image=%s\n", row.CorporateNumber, row.Name, row.NameImageID)
			}

			unclassified, err := st.UnclassifiedRows(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Rows without a recognized legal form: %d\n", len(unclassified))
			for _, row := range unclassified {
				fmt.Printf("  %s  %s  brand=%s\n", row.CorporateNumber, row.Name, row.BrandName)
			}

			lowRel, err := st.LowReliabilityCount(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Estimated readings (reliability=1): %d\n", lowRel)

			runs, err := st.Runs(ctx, runsFlag)
			if err != nil {
				return err
			}
			fmt.Printf("Recent runs: %d\n", len(runs))
			for _, run := range runs {
				fmt.Printf("  %s  region=%s date=%s raw=%d enriched=%d started=%s\n",
					run.ID, run.Region, run.Date, run.RawRows, run.EnrichedRows,
					run.StartedAt.Format("2006-01-02T15:04:05Z"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbFlag, "db", "", "Master SQLite database path")
	cmd.Flags().IntVar(&runsFlag, "runs", 10, "Number of recent runs to list")

	return cmd
}
