// Package normalize converts raw content items into cleaned, resolution-ready
// documents and provides the shared text primitives (sentence splitting,
// surface normalization, tokenization) used by the resolver.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	tokenRe      = regexp.MustCompile(`[a-z0-9']+`)

	foldCaser = cases.Fold()
)

// CleanText collapses whitespace, strips control characters and folds smart
// quotes and dashes to their ASCII forms.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder

	b.Grow(len(text))

	for _, r := range text {
		switch r {
		case '“', '”':
			b.WriteRune('"')
		case '‘', '’':
			b.WriteRune('\'')
		case '–', '—':
			b.WriteRune('-')
		default:
			if unicode.IsControl(r) && r != '\n' && r != '\t' {
				continue
			}

			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(b.String(), " "))
}

// Surface normalizes a surface form for index lookup and queue grouping:
// Unicode NFKC, case folding, whitespace collapsing.
func Surface(s string) string {
	s = norm.NFKC.String(s)
	s = foldCaser.String(s)

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// FoldRune maps one rune through the same NFKC case fold Surface applies,
// keeping whitespace intact. Folds may expand (one rune to several bytes).
func FoldRune(r rune) string {
	return foldCaser.String(norm.NFKC.String(string(r)))
}

// Tokens returns the lowercase word tokens of a text.
func Tokens(text string) []string {
	return tokenRe.FindAllString(Surface(text), -1)
}

// TokenSet returns the distinct tokens of a text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(text) {
		set[tok] = struct{}{}
	}

	return set
}

// SplitSentences splits text into sentences on terminal punctuation followed
// by whitespace. Deterministic by construction; resolution depends on stable
// sentence indices.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string

	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Consume a run of terminators, then require whitespace to split.
		j := i
		for j+1 < len(runes) && (runes[j+1] == '.' || runes[j+1] == '!' || runes[j+1] == '?') {
			j++
		}

		if j+1 >= len(runes) || unicode.IsSpace(runes[j+1]) {
			s := strings.TrimSpace(string(runes[start : j+1]))
			if s != "" {
				sentences = append(sentences, s)
			}

			start = j + 1
		}

		i = j
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}

var pronounRe = regexp.MustCompile(`\b(they|them|their|theirs|he|him|his|she|her|hers)\b`)

// HasPronoun reports whether a sentence contains a third-person pronoun
// eligible for implicit attribution.
func HasPronoun(sentence string) bool {
	return pronounRe.MatchString(strings.ToLower(sentence))
}

// Truncate shortens s to at most max runes.
func Truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	return string(runes[:maxRunes])
}
