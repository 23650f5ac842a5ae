package textparse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bindery/bindery/internal/bookdoc"
	"github.com/bindery/bindery/internal/reconstruct"
)

// Plain-text book transcriptions carry no positional data, so structure is
// recovered from line patterns instead: a CHAPTER marker line opens a
// chapter, the next non-empty line is its title, and within a chapter each
// non-empty line is one unit. A line opening with an integer and
// whitespace is a footnote; everything else is a paragraph.

var (
	chapterMarkerRE = regexp.MustCompile(`^CHAPTER\s+(\w+)\s*$`)
	footnoteLineRE  = regexp.MustCompile(`^(\d+)\s+(.+)$`)
)

// ParseChapters splits decoded text into chapters and builds each
// chapter's content units. Text before the first CHAPTER marker is front
// matter and is discarded; input with no markers yields no chapters.
func ParseChapters(text string) []*bookdoc.Chapter {
	lines := strings.Split(text, "\n")

	var chapters []*bookdoc.Chapter
	var body []string

	flush := func(ch *bookdoc.Chapter) {
		if ch == nil {
			return
		}
		ch.Units = BuildChapterUnits(body)
		chapters = append(chapters, ch)
	}

	var current *bookdoc.Chapter
	titlePending := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if m := chapterMarkerRE.FindStringSubmatch(line); m != nil {
			flush(current)
			current = &bookdoc.Chapter{Number: m[1]}
			body = nil
			titlePending = true
			continue
		}
		if current == nil {
			continue
		}
		if titlePending {
			if line == "" {
				continue
			}
			current.Title = line
			titlePending = false
			continue
		}
		body = append(body, line)
	}
	flush(current)

	return chapters
}

// BuildChapterUnits turns one chapter's body lines into classified units
// with ids assigned in order, then folds page-boundary continuations.
func BuildChapterUnits(lines []string) []*bookdoc.Unit {
	var units []*bookdoc.Unit
	id := 1

	add := func(u *bookdoc.Unit) {
		u.ID = id
		id++
		units = append(units, u)
	}

	first := nextNonEmpty(lines, 0)
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		// A chapter's opening paragraph prints its first letter as a
		// drop cap, which the transcription leaves on a line of its own.
		// Blank lines after the title may precede it.
		if i == first && isDropCap(line) {
			if next := nextNonEmpty(lines, i+1); next >= 0 {
				add(&bookdoc.Unit{
					Type:       bookdoc.UnitParagraph,
					SourceText: line + strings.TrimSpace(lines[next]),
				})
				i = next
				continue
			}
		}

		if m := footnoteLineRE.FindStringSubmatch(line); m != nil {
			add(&bookdoc.Unit{
				Type:       bookdoc.UnitFootnote,
				OriginalID: m[1],
				SourceText: strings.TrimSpace(m[2]),
			})
			continue
		}

		add(&bookdoc.Unit{
			Type:       bookdoc.UnitParagraph,
			SourceText: line,
		})
	}

	return reconstruct.MergeContinuations(units)
}

func isDropCap(line string) bool {
	r := []rune(line)
	return len(r) == 1 && unicode.IsUpper(r[0])
}

func nextNonEmpty(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}
