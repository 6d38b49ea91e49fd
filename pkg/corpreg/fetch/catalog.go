package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"golang.org/x/net/html"

	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// catalogFilePattern matches published per-prefecture data files, whose
// names end in the two-digit prefecture code (e.g. 01_hokkaido_all_20260801.zip
// or plain 13.csv).
var catalogFilePattern = regexp.MustCompile(`(?:^|[_/])(\d{2})[_.][^/]*(?:zip|csv)$`)

// DiscoverCatalog fetches the published download index page and returns
// the per-region data file links found on it. The registry also publishes
// its monthly snapshots as static files; this lets the pipeline locate
// them without a configured API endpoint.
func DiscoverCatalog(ctx context.Context, client *http.Client, indexURL string) (map[registry.Region]string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog index: HTTP %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse catalog index: %w", err)
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, err
	}

	links := make(map[registry.Region]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if m := catalogFilePattern.FindStringSubmatch(attr.Val); m != nil {
					if region, err := registry.ParseRegion(m[1]); err == nil {
						if ref, err := base.Parse(attr.Val); err == nil {
							// First link per region wins.
							if _, ok := links[region]; !ok {
								links[region] = ref.String()
							}
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}
