package config

import (
	"fmt"

	"github.com/new-village/corpreg/pkg/corpreg/parse"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	LegalFormsPath string
	KanaDictPath   string
	SettingsPath   string
}

// Components holds all loaded configuration components
type Components struct {
	Classifier *parse.Classifier
	Settings   *Settings
}

// Load reads all configuration files and returns initialized components.
// Omitted paths fall back to the built-in legal-form table, reading
// dictionary and default settings.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	forms := parse.DefaultLegalForms()
	if l.LegalFormsPath != "" {
		table, err := LoadLegalForms(l.LegalFormsPath)
		if err != nil {
			return nil, fmt.Errorf("load legal forms: %w", err)
		}
		forms = make([]parse.LegalForm, len(table.Forms))
		for i, f := range table.Forms {
			forms[i] = parse.LegalForm{Canonical: f.Canonical, Variants: f.Variants}
		}
	}

	dict := parse.DefaultKanaDict()
	if l.KanaDictPath != "" {
		file, err := LoadKanaDict(l.KanaDictPath)
		if err != nil {
			return nil, fmt.Errorf("load kana dictionary: %w", err)
		}
		dict = parse.KanaDict(file.Readings)
	}

	comp.Classifier = parse.NewClassifier(forms, dict)

	comp.Settings = DefaultSettings()
	if l.SettingsPath != "" {
		settings, err := LoadSettings(l.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		comp.Settings = settings
	}

	return comp, nil
}
