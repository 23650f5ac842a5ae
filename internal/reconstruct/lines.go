package reconstruct

import (
	"regexp"
	"sort"

	"github.com/bindery/bindery/internal/bookdoc"
)

// AssembleLines groups tokens into horizontal lines by vertical proximity.
// Tokens are sorted by their top coordinate; a token within tolerance of
// the previous token joins the current line, otherwise it opens a new one.
// The extractor already orders tokens left-to-right within a visual row,
// so no horizontal sort is reapplied here.
func AssembleLines(tokens []bookdoc.Token, tolerance float64) []bookdoc.Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]bookdoc.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Top < sorted[j].Top
	})

	var lines []bookdoc.Line
	current := []bookdoc.Token{sorted[0]}
	lastTop := sorted[0].Top

	for _, tok := range sorted[1:] {
		if tok.Top-lastTop < tolerance {
			current = append(current, tok)
		} else {
			lines = append(lines, bookdoc.Line{Tokens: current})
			current = []bookdoc.Token{tok}
		}
		lastTop = tok.Top
	}
	lines = append(lines, bookdoc.Line{Tokens: current})
	return lines
}

var hyphenBreakRE = regexp.MustCompile(`(\w)-\s+(\w)`)

// RepairHyphenation joins words split by a line-break hyphen: a hyphen
// followed by whitespace between two word characters is deleted. Repeats
// until stable so that chained breaks resolve and the repair is idempotent.
func RepairHyphenation(text string) string {
	for {
		repaired := hyphenBreakRE.ReplaceAllString(text, "$1$2")
		if repaired == text {
			return text
		}
		text = repaired
	}
}
