package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/new-village/corpreg/pkg/corpreg/internalerr"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// pagedServer serves a fixed number of records per region, split into
// pages of the given sizes.
func pagedServer(t *testing.T, sizes []int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		region := r.URL.Query().Get("prefecture")
		pageNo, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if pageNo < 1 || pageNo > len(sizes) {
			json.NewEncoder(w).Encode(page{DivideNumber: pageNo, DivideSize: len(sizes)})
			return
		}

		offset := 0
		for _, n := range sizes[:pageNo-1] {
			offset += n
		}
		records := make([]registry.Record, sizes[pageNo-1])
		for i := range records {
			records[i] = registry.Record{
				CorporateNumber: fmt.Sprintf("%s-%06d", region, offset+i),
				Name:            "株式会社サンプル",
			}
		}
		json.NewEncoder(w).Encode(page{
			DivideNumber: pageNo,
			DivideSize:   len(sizes),
			Records:      records,
		})
	}))
}

func testClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:   baseURL,
		RateLimit: rate.Inf,
		Backoff:   time.Millisecond,
	})
}

func TestFetchRegionPagination(t *testing.T) {
	srv := pagedServer(t, []int{100, 100, 37})
	defer srv.Close()

	c := testClient(srv.URL)
	var got []registry.Record
	err := c.FetchRegion(context.Background(), "13", "2026-08-01", func(rec registry.Record) error {
		got = append(got, rec)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 237 {
		t.Errorf("got %d records, want 237", len(got))
	}
	if got[0].CorporateNumber != "13-000000" {
		t.Errorf("first record = %q", got[0].CorporateNumber)
	}
	if got[236].CorporateNumber != "13-000236" {
		t.Errorf("last record = %q", got[236].CorporateNumber)
	}
}

func TestFetchRegionStopsOnEmptyPage(t *testing.T) {
	// A server that reports no divide_size must still terminate on the
	// first empty page.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNo, _ := strconv.Atoi(r.URL.Query().Get("page"))
		var records []registry.Record
		if pageNo == 1 {
			records = []registry.Record{{CorporateNumber: "0001"}}
		}
		json.NewEncoder(w).Encode(page{Records: records})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	count := 0
	err := c.FetchRegion(context.Background(), "01", "2026-08-01", func(registry.Record) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("got %d records, want 1", count)
	}
}

func TestFetchRegionRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(page{
			DivideNumber: 1,
			DivideSize:   1,
			Records:      []registry.Record{{CorporateNumber: "0001"}},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	count := 0
	err := c.FetchRegion(context.Background(), "01", "2026-08-01", func(registry.Record) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("got %d records, want 1", count)
	}
	if calls.Load() != 3 {
		t.Errorf("server saw %d calls, want 3", calls.Load())
	}
}

func TestFetchRegionExhaustedRetriesFailRegion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.FetchRegion(context.Background(), "01", "2026-08-01", func(registry.Record) error {
		t.Fatal("yield must not be called")
		return nil
	})
	if !errors.Is(err, internalerr.ErrRegionFailed) {
		t.Errorf("err = %v, want ErrRegionFailed", err)
	}
}

func TestFetchRegionPermanentErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.FetchRegion(context.Background(), "01", "2026-08-01", func(registry.Record) error { return nil })
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls.Load() != 1 {
		t.Errorf("server saw %d calls, want 1 (no retries on 4xx)", calls.Load())
	}
}
