package analyzer

import "fmt"

// CharFilter is a character filter applied before tokenization.
type CharFilter string

// Character filters supported by the index handler.
const (
	ICUNormalizer CharFilter = "icu_normalizer"
)

// Tokenizer splits text into tokens.
type Tokenizer string

// Tokenizers supported by the index handler.
const (
	KuromojiTokenizer Tokenizer = "kuromoji_tokenizer"
	ICUTokenizer      Tokenizer = "icu_tokenizer"
)

// TokenFilter is a filter applied to tokens after tokenization.
type TokenFilter string

// Token filters supported by the index handler.
const (
	KuromojiBaseForm     TokenFilter = "kuromoji_baseform"
	KuromojiPartOfSpeech TokenFilter = "kuromoji_part_of_speech"
	KuromojiStemmer      TokenFilter = "kuromoji_stemmer"
	CJKWidth             TokenFilter = "cjk_width"
	JaStop               TokenFilter = "ja_stop"
	Lowercase            TokenFilter = "lowercase"
	ICUFolding           TokenFilter = "icu_folding"
)

// IsValid checks if the character filter is supported.
func (f CharFilter) IsValid() bool { return f == ICUNormalizer }

// IsValid checks if the tokenizer is supported.
func (t Tokenizer) IsValid() bool {
	return t == KuromojiTokenizer || t == ICUTokenizer
}

// IsValid checks if the token filter is supported.
func (f TokenFilter) IsValid() bool {
	switch f {
	case KuromojiBaseForm, KuromojiPartOfSpeech, KuromojiStemmer,
		CJKWidth, JaStop, Lowercase, ICUFolding:
		return true
	}
	return false
}

// Analyzer is an immutable value object describing a custom text analyzer:
// ordered character filters, a single tokenizer, and ordered token filters.
// The zero value means "no analyzer configured".
type Analyzer struct {
	charFilters  []CharFilter
	tokenizer    Tokenizer
	tokenFilters []TokenFilter
}

// New validates and creates an Analyzer. A tokenizer is required; filters are
// optional but each must be from the supported set. Filter order is preserved.
func New(charFilters []CharFilter, tokenizer Tokenizer, tokenFilters []TokenFilter) (Analyzer, error) {
	if tokenizer == "" {
		return Analyzer{}, fmt.Errorf("analyzer tokenizer is required")
	}
	if !tokenizer.IsValid() {
		return Analyzer{}, fmt.Errorf("unsupported tokenizer %q", tokenizer)
	}
	for _, cf := range charFilters {
		if !cf.IsValid() {
			return Analyzer{}, fmt.Errorf("unsupported character filter %q", cf)
		}
	}
	for _, tf := range tokenFilters {
		if !tf.IsValid() {
			return Analyzer{}, fmt.Errorf("unsupported token filter %q", tf)
		}
	}
	return Analyzer{
		charFilters:  append([]CharFilter(nil), charFilters...),
		tokenizer:    tokenizer,
		tokenFilters: append([]TokenFilter(nil), tokenFilters...),
	}, nil
}

// Reconstruct creates an Analyzer without validation (storage hydration).
func Reconstruct(charFilters []CharFilter, tokenizer Tokenizer, tokenFilters []TokenFilter) Analyzer {
	return Analyzer{charFilters: charFilters, tokenizer: tokenizer, tokenFilters: tokenFilters}
}

// IsZero reports whether no analyzer is configured.
func (a Analyzer) IsZero() bool { return a.tokenizer == "" }

// CharFilters returns the ordered character filters.
func (a Analyzer) CharFilters() []CharFilter { return a.charFilters }

// Tokenizer returns the tokenizer.
func (a Analyzer) Tokenizer() Tokenizer { return a.tokenizer }

// TokenFilters returns the ordered token filters.
func (a Analyzer) TokenFilters() []TokenFilter { return a.tokenFilters }
