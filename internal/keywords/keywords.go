// Package keywords derives stock-media search terms from a narration script.
//
// Extraction is a pure frequency heuristic: tokenize, drop stopwords and
// short tokens, rank by occurrence count with first-appearance order breaking
// ties. No I/O happens here; the background resolver decides what to do with
// the result.
package keywords

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultMax is the keyword budget used when callers pass a non-positive max.
const DefaultMax = 5

const minTokenRunes = 4

// Extract returns up to max search keywords for the given text, ranked by
// frequency with ties broken by first occurrence. Empty or stopword-only
// input yields an empty slice.
func Extract(text string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	type stat struct {
		word  string
		count int
		first int
	}

	stats := make(map[string]*stat, len(tokens))
	order := make([]*stat, 0, len(tokens))
	for i, token := range tokens {
		if s, ok := stats[token]; ok {
			s.count++
			continue
		}
		s := &stat{word: token, count: 1, first: i}
		stats[token] = s
		order = append(order, s)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if len(order) > max {
		order = order[:max]
	}
	out := make([]string, len(order))
	for i, s := range order {
		out[i] = s.word
	}
	return out
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := fields[:0]
	for _, field := range fields {
		if len([]rune(field)) < minTokenRunes {
			continue
		}
		if _, ok := stopwords[field]; ok {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
