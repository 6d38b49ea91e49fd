package main

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/new-village/corpreg/pkg/corpreg/fetch"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

func newCatalogCmd() *cobra.Command {
	var urlFlag string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the per-prefecture archives on the download index page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := loadComponents()
			if err != nil {
				return err
			}
			indexURL := urlFlag
			if indexURL == "" {
				indexURL = comp.Settings.CatalogURL
			}
			if indexURL == "" {
				return fmt.Errorf("no catalog index URL: pass --url or set catalog_url in settings")
			}

			client := &http.Client{Timeout: 30 * time.Second}
			links, err := fetch.DiscoverCatalog(cmd.Context(), client, indexURL)
			if err != nil {
				return err
			}

			regions := make([]registry.Region, 0, len(links))
			for region := range links {
				regions = append(regions, region)
			}
			sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
			for _, region := range regions {
				fmt.Printf("%s  %s  %s\n", region, region.Name(), links[region])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Download index page URL (overrides settings)")

	return cmd
}
