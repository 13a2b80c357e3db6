// Package textprep provides tokenization and stop-word removal for article
// text. It is independent of the collection pipeline and is exposed through
// the tokenize command.
package textprep

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// stopWords is the standard English stop-word list.
var stopWords = func() map[string]struct{} {
	list := []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"your", "yours", "yourself", "yourselves", "he", "him", "his",
		"himself", "she", "her", "hers", "herself", "it", "its", "itself",
		"they", "them", "their", "theirs", "themselves", "what", "which",
		"who", "whom", "this", "that", "these", "those", "am", "is", "are",
		"was", "were", "be", "been", "being", "have", "has", "had", "having",
		"do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
		"or", "because", "as", "until", "while", "of", "at", "by", "for",
		"with", "about", "against", "between", "into", "through", "during",
		"before", "after", "above", "below", "to", "from", "up", "down",
		"in", "out", "on", "off", "over", "under", "again", "further",
		"then", "once", "here", "there", "when", "where", "why", "how",
		"all", "any", "both", "each", "few", "more", "most", "other",
		"some", "such", "no", "nor", "not", "only", "own", "same", "so",
		"than", "too", "very", "s", "t", "can", "will", "just", "don",
		"should", "now",
	}

	set := make(map[string]struct{}, len(list))
	for _, w := range list {
		set[w] = struct{}{}
	}

	return set
}()

// Tokenize lowercases text, segments it into words on Unicode boundaries,
// strips punctuation and removes English stop words.
func Tokenize(text string) []string {
	var tokens []string

	segments := words.FromString(strings.ToLower(text))

	for segments.Next() {
		token := stripPunct(segments.Value())
		if token == "" {
			continue
		}

		if _, skip := stopWords[token]; skip {
			continue
		}

		tokens = append(tokens, token)
	}

	return tokens
}

// IsStopWord reports whether the lowercased word is an English stop word.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]

	return ok
}

// stripPunct removes punctuation and symbol runes. A token that was pure
// punctuation or whitespace collapses to the empty string.
func stripPunct(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) {
			return -1
		}

		return r
	}, token)
}
