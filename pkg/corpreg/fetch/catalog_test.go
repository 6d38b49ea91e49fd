package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDiscoverCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/files/01_hokkaido_all_20260801.zip">Hokkaido</a>
			<a href="/files/13_tokyo_all_20260801.zip">Tokyo</a>
			<a href="47.csv">Okinawa</a>
			<a href="/files/all_20260801.zip">Nationwide archive</a>
			<a href="/notes.html">Release notes</a>
		</body></html>`)
	}))
	defer srv.Close()

	links, err := DiscoverCatalog(context.Background(), nil, srv.URL+"/index.html")
	if err != nil {
		t.Fatal(err)
	}

	if len(links) != 3 {
		t.Fatalf("got %d links, want 3: %v", len(links), links)
	}
	if !strings.HasSuffix(links["01"], "/files/01_hokkaido_all_20260801.zip") {
		t.Errorf("links[01] = %q", links["01"])
	}
	if !strings.HasSuffix(links["13"], "/files/13_tokyo_all_20260801.zip") {
		t.Errorf("links[13] = %q", links["13"])
	}
	// Relative links resolve against the index URL.
	if !strings.HasSuffix(links["47"], "/47.csv") {
		t.Errorf("links[47] = %q", links["47"])
	}
}

func TestDiscoverCatalogHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := DiscoverCatalog(context.Background(), nil, srv.URL); err == nil {
		t.Fatal("expected an error for a missing index page")
	}
}
