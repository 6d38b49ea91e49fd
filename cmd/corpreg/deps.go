package main

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/new-village/corpreg/pkg/corpreg/config"
	"github.com/new-village/corpreg/pkg/corpreg/fetch"
	"github.com/new-village/corpreg/pkg/corpreg/store"
	"github.com/new-village/corpreg/pkg/corpreg/store/sqlite"
)

// Values of the persistent configuration flags, shared by every
// subcommand.
var (
	flagSettings   string
	flagLegalForms string
	flagKanaDict   string
)

// loadComponents resolves the configuration flags into a classifier and
// pipeline settings, falling back to the built-in tables when the flags
// are unset.
func loadComponents() (*config.Components, error) {
	loader := &config.Loader{
		LegalFormsPath: flagLegalForms,
		KanaDictPath:   flagKanaDict,
		SettingsPath:   flagSettings,
	}
	return loader.Load()
}

// newFetchClient builds the registry fetch client from loaded settings.
func newFetchClient(s *config.Settings) *fetch.Client {
	return fetch.NewClient(fetch.ClientConfig{
		BaseURL:    s.BaseURL,
		RateLimit:  rate.Limit(s.RatePerSecond),
		PageSize:   s.PageSize,
		MaxRetries: s.MaxRetries,
		Backoff:    s.RetryBackoff(),
	})
}

// openStore opens the master SQLite store at the flag-provided path, or
// the settings-provided path when the flag is empty. Returns nil when
// neither names a database, meaning the run skips persistence.
func openStore(ctx context.Context, flagPath string, s *config.Settings) (store.Store, error) {
	path := flagPath
	if path == "" {
		path = s.DatabasePath
	}
	if path == "" {
		return nil, nil
	}
	return sqlite.OpenSQLite(ctx, path)
}
