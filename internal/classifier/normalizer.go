package classifier

import (
	"regexp"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// nonLetter deletes everything that is not an ASCII letter or whitespace.
// Removal, not substitution: "can't" becomes "cant", never "can t".
var nonLetter = regexp.MustCompile(`[^a-zA-Z\s]`)

// Normalizer reduces raw ticket text to the canonical token stream the
// vectorizer vocabulary was fit on. The cleanup must stay in lockstep with
// the training pipeline; changing any step invalidates loaded artifacts.
type Normalizer struct {
	lemmatizer *golem.Lemmatizer
}

// NewNormalizer constructs a normalizer, loading the English lemma
// dictionary once.
func NewNormalizer() (*Normalizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return &Normalizer{lemmatizer: lemmatizer}, nil
}

// Normalize strips non-letters, lowercases, drops stopwords and lemmatizes
// the remaining tokens, joining them with single spaces. Output contains
// only [a-z] and spaces. An input with no surviving tokens normalizes to
// the empty string, which downstream accepts as the zero vector.
func (n *Normalizer) Normalize(text string) string {
	cleaned := nonLetter.ReplaceAllString(text, "")
	cleaned = strings.ToLower(cleaned)

	words := strings.Fields(cleaned)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := stopwords[word]; stop {
			continue
		}
		kept = append(kept, n.lemmatizer.Lemma(word))
	}
	return strings.Join(kept, " ")
}
