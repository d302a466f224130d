// Package deck implements the deck list import/export pipeline: parsing
// free-text lists, reconciling them against persisted deck state, and
// serializing deck state back to text.
package deck

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFormat marks a line that does not match the "<qty> <name>" shape.
var ErrInvalidFormat = errors.New("invalid format")

// lineRegex matches "4 Lightning Bolt": a leading positive integer,
// whitespace, then the card name.
var lineRegex = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// Line is one non-blank, non-comment line of a deck list.
type Line struct {
	Number   int    // 1-based line number in the original input
	Raw      string // trimmed original text, kept for failure reporting
	Quantity int
	CardName string
	Err      error // non-nil when the line failed to parse
}

// Parse splits a deck list into lines. Blank lines and comments ("//" or
// "#") are skipped silently. A malformed line is returned with Err set and
// never aborts the rest of the parse.
func Parse(input string) []Line {
	var out []Line

	for i, raw := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		line := Line{Number: i + 1, Raw: trimmed}

		matches := lineRegex.FindStringSubmatch(trimmed)
		if matches == nil {
			line.Err = ErrInvalidFormat
			out = append(out, line)
			continue
		}

		quantity, err := strconv.Atoi(matches[1])
		if err != nil || quantity < 1 {
			line.Err = ErrInvalidFormat
			out = append(out, line)
			continue
		}

		line.Quantity = quantity
		line.CardName = strings.TrimSpace(matches[2])
		out = append(out, line)
	}

	return out
}
