package ingestion_engine

import (
	"fmt"
	"strings"

	"github.com/markdave123-py/paperdigest/internal/models"
)

// separators are tried in priority order when looking for a natural cut.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune(" "),
}

// Chunk splits text into ordered chunks of at most maxChars runes.
//
// maxChars:     hard upper bound per chunk.
// overlapChars: each chunk after the first starts exactly overlapChars runes before the previous one ended.
//
// Cuts prefer a separator inside the last tenth of the window and fall back to a hard cut at maxChars.
// Dropping the first overlapChars runes of every chunk after the first and concatenating yields text again.
func Chunk(text string, maxChars, overlapChars int) ([]models.TextChunk, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("chunk: max chars must be positive, got %d", maxChars)
	}
	if overlapChars < 0 || overlapChars >= maxChars {
		return nil, fmt.Errorf("chunk: overlap must be in [0, %d), got %d", maxChars, overlapChars)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	var chunks []models.TextChunk
	start := 0
	for {
		end := len(runes)
		if end-start > maxChars {
			end = cutPoint(runes, start, maxChars, overlapChars)
		}

		chunks = append(chunks, models.TextChunk{
			Index:     len(chunks),
			Content:   string(runes[start:end]),
			CharCount: end - start,
		})

		if end == len(runes) {
			return chunks, nil
		}
		start = end - overlapChars
	}
}

// cutPoint returns the exclusive end of the chunk starting at start.
// The result is always in (start+overlapChars, start+maxChars], so every chunk makes progress.
func cutPoint(runes []rune, start, maxChars, overlapChars int) int {
	limit := start + maxChars
	floor := max(limit-max(1, maxChars/10), start+overlapChars+1)
	if floor >= limit {
		return limit
	}

	for _, sep := range separators {
		for i := limit - len(sep); i >= floor; i-- {
			if hasRunesAt(runes, i, sep) {
				return i + len(sep)
			}
		}
	}
	return limit
}

func hasRunesAt(runes []rune, at int, sep []rune) bool {
	if at+len(sep) > len(runes) {
		return false
	}
	for j, r := range sep {
		if runes[at+j] != r {
			return false
		}
	}
	return true
}

// FlattenPages joins page texts in order, separated by a blank line. Blank pages are skipped.
func FlattenPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(p)
	}
	return b.String()
}
