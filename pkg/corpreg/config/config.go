package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/new-village/corpreg/pkg/corpreg/internalerr"
)

// LegalFormTable is the YAML shape of the legal-form token table.
type LegalFormTable struct {
	Forms []LegalFormEntry `yaml:"forms"`
}

// LegalFormEntry is one token-table row.
type LegalFormEntry struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// LoadLegalForms loads the legal-form token table from a YAML file.
func LoadLegalForms(path string) (*LegalFormTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var table LegalFormTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	for _, f := range table.Forms {
		if f.Canonical == "" {
			return nil, fmt.Errorf("%w: legal form with empty canonical token", internalerr.ErrInvalidConfig)
		}
	}

	return &table, nil
}

// KanaDictFile is the YAML shape of the reading dictionary.
type KanaDictFile struct {
	Readings map[string]string `yaml:"readings"`
}

// LoadKanaDict loads the reading dictionary from a YAML file.
func LoadKanaDict(path string) (*KanaDictFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dict KanaDictFile
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, err
	}

	return &dict, nil
}

// Settings holds pipeline tuning knobs loaded from YAML. Zero values are
// replaced with defaults by ApplyDefaults.
type Settings struct {
	BaseURL         string  `yaml:"base_url"`
	CatalogURL      string  `yaml:"catalog_url"`
	OutputDir       string  `yaml:"output_dir"`
	DatabasePath    string  `yaml:"database_path"`
	PageSize        int     `yaml:"page_size"`
	RatePerSecond   float64 `yaml:"rate_per_second"`
	MaxRetries      int     `yaml:"max_retries"`
	RetryBackoffMS  int     `yaml:"retry_backoff_ms"`
	FetchWorkers    int     `yaml:"fetch_workers"`
	EnrichWorkers   int     `yaml:"enrich_workers"`
	ContinueOnError bool    `yaml:"continue_on_error"`
}

// RetryBackoff returns the configured initial backoff as a duration.
func (s *Settings) RetryBackoff() time.Duration {
	return time.Duration(s.RetryBackoffMS) * time.Millisecond
}

// LoadSettings loads pipeline settings from a YAML file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.ApplyDefaults()

	return &s, nil
}

// ApplyDefaults fills unset fields with working defaults.
func (s *Settings) ApplyDefaults() {
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	if s.PageSize == 0 {
		s.PageSize = 100
	}
	if s.RatePerSecond == 0 {
		s.RatePerSecond = 2
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = 3
	}
	if s.RetryBackoffMS == 0 {
		s.RetryBackoffMS = 500
	}
	if s.FetchWorkers == 0 {
		s.FetchWorkers = 4
	}
	if s.EnrichWorkers == 0 {
		s.EnrichWorkers = 4
	}
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.ApplyDefaults()
	return s
}
