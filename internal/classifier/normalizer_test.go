package classifier

import (
	"strings"
	"testing"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer()
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n
}

func TestNormalize_StripsNonLetters(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize("Can't login!! Error 404 @ 9am")
	if strings.ContainsAny(got, "0123456789!@'") {
		t.Fatalf("normalized text contains non-letters: %q", got)
	}
	// apostrophe is deleted, not replaced: adjoining letters concatenate
	if !strings.Contains(got, "cant") {
		t.Fatalf("expected 'cant' in %q", got)
	}
}

func TestNormalize_HyphenMergesTokens(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize("printer not-working")
	if !strings.Contains(got, "notworking") {
		t.Fatalf("expected hyphen removal to merge tokens, got %q", got)
	}
}

func TestNormalize_LowercasesAndDropsStopwords(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize("The Server IS Unreachable")
	if got != "server unreachable" {
		t.Fatalf("got %q, want %q", got, "server unreachable")
	}
}

func TestNormalize_Lemmatizes(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize("printers issues errors")
	for _, want := range []string{"printer", "issue", "error"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected lemma %q in %q", want, got)
		}
	}
	for _, plural := range []string{"printers", "issues", "errors"} {
		if strings.Contains(got, plural) {
			t.Fatalf("unexpected unlemmatized token %q in %q", plural, got)
		}
	}
}

func TestNormalize_PunctuationInvariance(t *testing.T) {
	n := newTestNormalizer(t)

	plain := n.Normalize("email not working")
	noisy := n.Normalize("Email, not working.")
	if plain != noisy {
		t.Fatalf("punctuation-only variants diverged: %q vs %q", plain, noisy)
	}
	// "not" is a stopword, so neither form keeps it
	for _, token := range strings.Fields(plain) {
		if token == "not" {
			t.Fatalf("stopword survived: %q", plain)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer(t)

	inputs := []string{
		"The network printer is offline and showing connection errors",
		"URGENT!!! server down",
		"billing invoice overcharged",
		"",
	}
	for _, input := range inputs {
		once := n.Normalize(input)
		twice := n.Normalize(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalize_EmptyResults(t *testing.T) {
	n := newTestNormalizer(t)

	for _, input := range []string{"", "   ", "123 456 !!!", "the and is"} {
		if got := n.Normalize(input); got != "" {
			t.Fatalf("Normalize(%q) = %q, want empty", input, got)
		}
	}
}

func TestNormalize_OutputAlphabet(t *testing.T) {
	n := newTestNormalizer(t)

	got := n.Normalize("Wi-Fi café überproblem: STILL broken?!")
	for _, r := range got {
		if (r < 'a' || r > 'z') && r != ' ' {
			t.Fatalf("unexpected rune %q in %q", r, got)
		}
	}
}
