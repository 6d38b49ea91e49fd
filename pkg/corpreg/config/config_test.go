package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/new-village/corpreg/pkg/corpreg/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLegalForms(t *testing.T) {
	path := writeFile(t, "forms.yaml", `
forms:
  - canonical: 株式会社
    variants: ["(株)", "㈱"]
  - canonical: 合同会社
`)

	table, err := LoadLegalForms(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Forms) != 2 {
		t.Fatalf("got %d forms, want 2", len(table.Forms))
	}
	if table.Forms[0].Canonical != "株式会社" {
		t.Errorf("Canonical = %q", table.Forms[0].Canonical)
	}
	if len(table.Forms[0].Variants) != 2 {
		t.Errorf("Variants = %v", table.Forms[0].Variants)
	}
}

func TestLoadLegalFormsEmptyCanonical(t *testing.T) {
	path := writeFile(t, "forms.yaml", `
forms:
  - variants: ["(株)"]
`)

	_, err := LoadLegalForms(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadKanaDict(t *testing.T) {
	path := writeFile(t, "dict.yaml", `
readings:
  商事: ショウジ
  工業: コウギョウ
`)

	dict, err := LoadKanaDict(path)
	if err != nil {
		t.Fatal(err)
	}
	if dict.Readings["商事"] != "ショウジ" {
		t.Errorf("Readings[商事] = %q", dict.Readings["商事"])
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
base_url: http://example.com/api
page_size: 50
`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.BaseURL != "http://example.com/api" {
		t.Errorf("BaseURL = %q", s.BaseURL)
	}
	if s.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", s.PageSize)
	}
	// Unset fields pick up defaults.
	if s.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", s.MaxRetries)
	}
	if s.RetryBackoff() != 500*time.Millisecond {
		t.Errorf("RetryBackoff = %v", s.RetryBackoff())
	}
}

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{}

	comp, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if comp.Classifier == nil {
		t.Fatal("Classifier is nil")
	}

	// The built-in table must classify the canonical example.
	res := comp.Classifier.Classify("株式会社サンプル")
	if res.EntityType != "株式会社" || res.BrandName != "サンプル" {
		t.Errorf("default classifier gave %+v", res)
	}
}

func TestLoaderCustomTable(t *testing.T) {
	formsPath := writeFile(t, "forms.yaml", `
forms:
  - canonical: 株式会社
`)
	dictPath := writeFile(t, "dict.yaml", `
readings:
  試験: シケン
`)

	loader := Loader{LegalFormsPath: formsPath, KanaDictPath: dictPath}
	comp, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}

	res := comp.Classifier.Classify("株式会社試験")
	if res.BrandKana != "シケン" {
		t.Errorf("BrandKana = %q, want シケン", res.BrandKana)
	}
	// 合同会社 is absent from the custom table.
	res = comp.Classifier.Classify("サンプル合同会社")
	if res.EntityType != "unknown" {
		t.Errorf("EntityType = %q, want unknown", res.EntityType)
	}
}
