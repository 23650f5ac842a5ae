package reconstruct

import (
	"strings"
	"unicode"

	"github.com/bindery/bindery/internal/bookdoc"
)

// SegmentParagraphs groups the body lines of one page into paragraph
// units. The first paragraph on a page starts at the left margin, so an
// indented line while the first paragraph is open means a second paragraph
// has begun. After that, an unindented line opens a new paragraph only
// when it reads like one: it starts uppercase and carries more than two
// words, which keeps short unindented continuation fragments attached.
// A vertical gap larger than cfg.ParagraphGap also forces a boundary.
//
// Hyphenation repair runs per line before accumulation, so boundary
// decisions see the original indentation but corrected text.
func SegmentParagraphs(lines []bookdoc.Line, cfg Config) []*bookdoc.Unit {
	cfg = cfg.normalize()

	var units []*bookdoc.Unit
	var buffer []string
	firstPara := true
	lastTop := -1.0

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		units = append(units, &bookdoc.Unit{
			Type:       bookdoc.UnitParagraph,
			SourceText: strings.Join(buffer, " "),
		})
		buffer = nil
	}

	for _, line := range lines {
		if len(line.Tokens) == 0 {
			continue
		}
		text := RepairHyphenation(line.Text())
		indent := line.Indent()
		top := line.TopY()

		newPara := false
		if firstPara {
			if indent > cfg.IndentThreshold {
				newPara = true
				firstPara = false
			}
		} else if indent <= cfg.IndentThreshold && startsUpper(text) && wordCount(text) > 2 {
			newPara = true
		}
		if lastTop >= 0 && top-lastTop > cfg.ParagraphGap {
			newPara = true
		}

		if newPara {
			flush()
		}
		buffer = append(buffer, text)
		lastTop = top
	}
	flush()
	return units
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
