package reconstruct

import (
	"regexp"
	"strings"

	"github.com/bindery/bindery/internal/bookdoc"
)

// ArtifactPolicy decides whether a footnote marker is really a
// continuation artifact of an earlier footnote — a page number or year
// misread as a fresh marker when a footnote wraps past the bottom margin.
// The mapping is data-specific, so it is supplied per document rather
// than baked into the assembler.
type ArtifactPolicy interface {
	// ParentOf returns the marker of the footnote this id continues,
	// or false when id is a genuine footnote of its own.
	ParentOf(id string) (string, bool)
}

// AllowList is the simplest ArtifactPolicy: an explicit artifact-to-parent
// marker mapping. A nil or empty list folds nothing.
type AllowList map[string]string

func (a AllowList) ParentOf(id string) (string, bool) {
	parent, ok := a[id]
	return parent, ok
}

var footnoteOpenRE = regexp.MustCompile(`^(\d+)\s*(.*)$`)

// AssembleFootnotes groups the footnote-band lines of one page into
// discrete footnote units. A leading integer opens a new footnote with
// that integer as its printed marker; a line without one continues the
// open footnote if it sits within cfg.FootnoteReach of the footnote's
// opening line, bounding how far a wrapped continuation may drift.
func AssembleFootnotes(lines []bookdoc.Line, cfg Config, policy ArtifactPolicy) []*bookdoc.Unit {
	cfg = cfg.normalize()

	type openFootnote struct {
		id      string
		content []string
		startY  float64
	}

	var notes []openFootnote
	var current *openFootnote

	for _, line := range lines {
		if len(line.Tokens) == 0 {
			continue
		}
		text := RepairHyphenation(line.Text())
		if text == "" {
			continue
		}

		if m := footnoteOpenRE.FindStringSubmatch(text); m != nil {
			if current != nil {
				notes = append(notes, *current)
			}
			current = &openFootnote{id: m[1], startY: line.TopY()}
			if rest := strings.TrimSpace(m[2]); rest != "" {
				current.content = append(current.content, rest)
			}
			continue
		}

		if current != nil && line.TopY()-current.startY < cfg.FootnoteReach {
			current.content = append(current.content, text)
		}
		// A continuation too far from the opening line is assumed to
		// belong to a different, unmarked footnote and is dropped from
		// this one rather than misattached.
	}
	if current != nil {
		notes = append(notes, *current)
	}

	var units []*bookdoc.Unit
	for _, n := range notes {
		text := strings.Join(n.content, " ")
		if parentID, ok := artifactParent(policy, n.id); ok {
			if parent := lastFootnoteWithID(units, parentID); parent != nil {
				parent.SourceText += " " + text
				continue
			}
		}
		units = append(units, &bookdoc.Unit{
			Type:       bookdoc.UnitFootnote,
			OriginalID: n.id,
			SourceText: text,
		})
	}
	return units
}

func artifactParent(policy ArtifactPolicy, id string) (string, bool) {
	if policy == nil {
		return "", false
	}
	return policy.ParentOf(id)
}

func lastFootnoteWithID(units []*bookdoc.Unit, originalID string) *bookdoc.Unit {
	for i := len(units) - 1; i >= 0; i-- {
		if units[i].OriginalID == originalID {
			return units[i]
		}
	}
	return nil
}
