package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/new-village/corpreg/pkg/corpreg/internalerr"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// allRegionsServer serves one single-record page per region and fails the
// regions listed in broken.
func allRegionsServer(t *testing.T, broken map[string]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		region := r.URL.Query().Get("prefecture")
		if broken[region] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		pageNo, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var records []registry.Record
		if pageNo == 1 {
			records = []registry.Record{{
				CorporateNumber: fmt.Sprintf("%s-000001", region),
				Name:            "株式会社サンプル",
			}}
		}
		json.NewEncoder(w).Encode(page{DivideNumber: pageNo, DivideSize: 1, Records: records})
	}))
}

func TestFetchAllCoversEveryRegion(t *testing.T) {
	srv := allRegionsServer(t, nil)
	defer srv.Close()

	c := testClient(srv.URL)
	seen := make(map[string]bool)
	err := c.FetchAll(context.Background(), "2026-08-01", FetchAllOptions{Workers: 8}, func(rec registry.Record) error {
		seen[rec.CorporateNumber] = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 47 {
		t.Errorf("saw %d records, want one per prefecture (47)", len(seen))
	}
}

func TestFetchAllAbortsOnFailure(t *testing.T) {
	srv := allRegionsServer(t, map[string]bool{"27": true})
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:    srv.URL,
		RateLimit:  rate.Inf,
		Backoff:    time.Millisecond,
		MaxRetries: 1,
	})
	err := c.FetchAll(context.Background(), "2026-08-01", FetchAllOptions{Workers: 4}, func(registry.Record) error {
		return nil
	})
	if !errors.Is(err, internalerr.ErrRegionFailed) {
		t.Errorf("err = %v, want ErrRegionFailed", err)
	}
}

func TestFetchAllContinueOnErrorReportsFailures(t *testing.T) {
	srv := allRegionsServer(t, map[string]bool{"13": true, "27": true})
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:    srv.URL,
		RateLimit:  rate.Inf,
		Backoff:    time.Millisecond,
		MaxRetries: 1,
	})
	count := 0
	err := c.FetchAll(context.Background(), "2026-08-01", FetchAllOptions{Workers: 4, ContinueOnError: true}, func(registry.Record) error {
		count++
		return nil
	})

	var multi *MultiRegionError
	if !errors.As(err, &multi) {
		t.Fatalf("err = %v, want MultiRegionError", err)
	}
	failed := multi.FailedRegions()
	if len(failed) != 2 || failed[0] != "13" || failed[1] != "27" {
		t.Errorf("FailedRegions = %v, want [13 27]", failed)
	}
	// The healthy 45 regions must still be complete.
	if count != 45 {
		t.Errorf("yielded %d records, want 45", count)
	}
}

func TestFetchAllYieldErrorStopsFetch(t *testing.T) {
	srv := allRegionsServer(t, nil)
	defer srv.Close()

	sentinel := errors.New("writer broke")
	c := testClient(srv.URL)
	err := c.FetchAll(context.Background(), "2026-08-01", FetchAllOptions{Workers: 4}, func(registry.Record) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want sentinel yield error", err)
	}
}
