// Package scan resolves OCR-derived text from a photographed card into
// card search results. OCR output is noisy, so several query strings are
// derived from the text and tried in priority order against the card
// search service; the first non-empty result set wins.
package scan

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/cards"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scryfall"
)

// ErrNoMatch is returned when none of the candidate queries produced results.
var ErrNoMatch = errors.New("no cards matched the scanned text")

// Searcher is the slice of the Scryfall client the resolver uses.
type Searcher interface {
	SearchCards(ctx context.Context, query string) (*scryfall.SearchResult, error)
}

// Resolver turns scanned text into candidate card matches.
type Resolver struct {
	searcher Searcher
}

// NewResolver creates a scan resolver backed by the given searcher.
func NewResolver(searcher Searcher) *Resolver {
	return &Resolver{searcher: searcher}
}

// Result holds the matches for a scan plus the candidate query that
// produced them, so the client can show what was actually searched.
type Result struct {
	Query string                `json:"query"`
	Cards []cards.CanonicalCard `json:"cards"`
}

// Resolve tries each candidate query in order and returns the first one
// with matches. A "no results" answer from the service just moves on to
// the next candidate; other errors abort the scan.
func (r *Resolver) Resolve(ctx context.Context, ocrText string) (*Result, error) {
	for _, query := range Candidates(ocrText) {
		result, err := r.searcher.SearchCards(ctx, query)
		if err != nil {
			if scryfall.IsNotFound(err) {
				continue
			}
			return nil, err
		}

		if len(result.Data) == 0 {
			continue
		}

		matches := make([]cards.CanonicalCard, 0, len(result.Data))
		for i := range result.Data {
			matches = append(matches, cards.Normalize(&result.Data[i]))
		}

		return &Result{Query: query, Cards: matches}, nil
	}

	return nil, ErrNoMatch
}

var nonNameChars = regexp.MustCompile(`[^A-Za-z' \-]+`)

// Candidates derives the ordered query strings tried for a piece of OCR
// text: the cleaned first line, the cleaned full text, its first three
// words, and finally the longest single word. Duplicates and empties are
// dropped, order preserved.
func Candidates(ocrText string) []string {
	firstLine := ocrText
	if idx := strings.IndexByte(ocrText, '\n'); idx >= 0 {
		firstLine = ocrText[:idx]
	}

	cleanedFirst := cleanQuery(firstLine)
	cleanedFull := cleanQuery(ocrText)

	raw := []string{cleanedFirst, cleanedFull}

	words := strings.Fields(cleanedFull)
	if len(words) > 3 {
		raw = append(raw, strings.Join(words[:3], " "))
	}

	longest := ""
	for _, word := range words {
		if len(word) > len(longest) {
			longest = word
		}
	}
	if len(longest) >= 4 {
		raw = append(raw, longest)
	}

	var out []string
	seen := make(map[string]bool)
	for _, q := range raw {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}

	return out
}

// cleanQuery strips characters OCR tends to hallucinate (mana symbols,
// punctuation, digits) and collapses whitespace.
func cleanQuery(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = nonNameChars.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
