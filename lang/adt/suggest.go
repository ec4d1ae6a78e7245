package adt

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// MaxSuggestions bounds the candidates returned by [Suggest].
const MaxSuggestions = 3

// Suggest returns up to [MaxSuggestions] candidates that fuzzily match name,
// best first.
func Suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		// Retry with the first rune only, to catch misspelled tails.
		_, size := utf8.DecodeRuneInString(name)
		matches = fuzzy.Find(name[:size], candidates)
	}

	out := make([]string, 0, MaxSuggestions)
	for _, m := range matches {
		if m.Str == name {
			continue
		}

		out = append(out, m.Str)
		if len(out) == MaxSuggestions {
			break
		}
	}

	return out
}

// DidYouMean formats suggestions as a message suffix, or returns "".
func DidYouMean(name string, candidates []string) string {
	s := Suggest(name, candidates)
	if len(s) == 0 {
		return ""
	}

	return " (did you mean " + strings.Join(s, ", ") + "?)"
}
