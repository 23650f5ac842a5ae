package render

import (
	"fmt"
	"strings"

	"github.com/bindery/bindery/internal/bookdoc"
)

// Markdown renders the document as readable Markdown. Chapter and page
// titles become headings, footnotes become footnote definitions keyed by
// their printed marker, and running heads are dropped since they carry no
// content of their own.
func Markdown(doc *bookdoc.Document) string {
	var sb strings.Builder

	if doc.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", doc.Title)
	}

	for _, ch := range doc.Chapters {
		switch {
		case ch.Title != "":
			fmt.Fprintf(&sb, "## %s\n\n", ch.Title)
		case ch.Number != "":
			fmt.Fprintf(&sb, "## Chapter %s\n\n", ch.Number)
		}
		writeUnits(&sb, ch.Units)
	}

	for _, p := range doc.Pages {
		writeUnits(&sb, p.Units)
	}

	return sb.String()
}

func writeUnits(sb *strings.Builder, units []*bookdoc.Unit) {
	for _, u := range units {
		switch u.Type {
		case bookdoc.UnitTitle:
			fmt.Fprintf(sb, "## %s\n\n", u.SourceText)
		case bookdoc.UnitParagraph:
			text := u.SourceText
			if u.AzureTranslation != "" {
				text += "\n\n> " + u.AzureTranslation
			}
			fmt.Fprintf(sb, "%s\n\n", text)
		case bookdoc.UnitFootnote:
			fmt.Fprintf(sb, "[^%s]: %s\n\n", footnoteKey(u), u.SourceText)
		case bookdoc.UnitHeader:
			// Running heads are navigation noise in linear output.
		}
	}
}

func footnoteKey(u *bookdoc.Unit) string {
	if u.OriginalID != "" {
		return u.OriginalID
	}
	return fmt.Sprintf("%d", u.ID)
}
