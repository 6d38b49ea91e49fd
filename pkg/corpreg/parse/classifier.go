package parse

// EntityTypeUnknown is reported when no legal-form token matches a name.
const EntityTypeUnknown = "unknown"

// Result is the structured decomposition of one registered legal name.
type Result struct {
	EntityType string
	BrandName  string
	BrandKana  string
}

// Classifier turns a free-text registered name into entity type, brand
// name and an estimated katakana reading. It is a pure function of its
// immutable tables and safe for concurrent use.
type Classifier struct {
	matcher *LegalFormMatcher
	kana    *KanaEstimator
}

// NewClassifier builds a classifier over the given legal-form table and
// reading dictionary. Nil arguments select the built-in defaults.
func NewClassifier(forms []LegalForm, dict KanaDict) *Classifier {
	if forms == nil {
		forms = DefaultLegalForms()
	}
	if dict == nil {
		dict = DefaultKanaDict()
	}
	return &Classifier{
		matcher: NewLegalFormMatcher(forms),
		kana:    NewKanaEstimator(dict),
	}
}

// Classify never fails: names with no matching legal-form token degrade to
// EntityTypeUnknown with the normalized original as brand name, and names
// with no derivable reading get an empty kana field.
func (c *Classifier) Classify(name string) Result {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Result{EntityType: EntityTypeUnknown}
	}

	res := Result{EntityType: EntityTypeUnknown, BrandName: normalized}
	if m, ok := c.matcher.Match(normalized); ok {
		res.EntityType = m.Canonical
		res.BrandName = c.matcher.StripAll(normalized, m)
	}
	res.BrandKana = c.kana.Estimate(res.BrandName)
	return res
}
