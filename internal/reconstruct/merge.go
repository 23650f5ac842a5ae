package reconstruct

import (
	"fmt"
	"unicode"

	"github.com/bindery/bindery/internal/bookdoc"
)

// Page breaks interleave footnotes with body text, so a paragraph torn in
// half by a page boundary reappears as a fresh paragraph unit right after
// a footnote, beginning mid-sentence. A paragraph that directly follows a
// footnote and opens with a lowercase letter is judged such a continuation
// and folded back into the nearest prior paragraph. The heuristic can
// misfire on paragraphs that legitimately open lowercase (quoted
// fragments); that false positive is accepted.

// MergeContinuations folds continuation fragments within a single ordered
// unit sequence (one chapter's worth, or one flattened document). A merged
// fragment's text is appended to the surviving paragraph and its id is
// recorded in that paragraph's notes; the fragment is dropped from the
// output. A fragment with no prior paragraph is kept standalone.
func MergeContinuations(units []*bookdoc.Unit) []*bookdoc.Unit {
	if len(units) < 2 {
		return units
	}

	merged := make([]*bookdoc.Unit, 0, len(units))
	for i, u := range units {
		if i > 0 && isContinuation(units[i-1], u) {
			if target := lastParagraph(merged); target != nil {
				absorb(target, u)
				continue
			}
		}
		merged = append(merged, u)
	}
	return merged
}

// MergePages applies the same fold across an ordered page sequence,
// mutating pages in place. The surviving paragraph may live on an earlier
// page than the fragment it absorbs.
func MergePages(pages []*bookdoc.Page) {
	var lastPara *bookdoc.Unit
	var prev *bookdoc.Unit

	for _, page := range pages {
		kept := page.Units[:0]
		for _, u := range page.Units {
			if prev != nil && isContinuation(prev, u) && lastPara != nil {
				absorb(lastPara, u)
				prev = u
				continue
			}
			kept = append(kept, u)
			if u.Type == bookdoc.UnitParagraph {
				lastPara = u
			}
			prev = u
		}
		page.Units = kept
	}
}

// isContinuation checks adjacency in the original reading order: a
// paragraph immediately preceded by a footnote, opening lowercase.
func isContinuation(prev, cur *bookdoc.Unit) bool {
	if prev.Type != bookdoc.UnitFootnote || cur.Type != bookdoc.UnitParagraph {
		return false
	}
	for _, r := range cur.SourceText {
		return unicode.IsLower(r)
	}
	return false
}

func absorb(target, fragment *bookdoc.Unit) {
	target.SourceText += " " + fragment.SourceText
	target.Note = append(target.Note, fmt.Sprintf("combined by id%d", fragment.ID))
}

func lastParagraph(units []*bookdoc.Unit) *bookdoc.Unit {
	for i := len(units) - 1; i >= 0; i-- {
		if units[i].Type == bookdoc.UnitParagraph {
			return units[i]
		}
	}
	return nil
}
