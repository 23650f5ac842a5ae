package parser

import (
	"io"

	"github.com/bindery/bindery/internal/bookdoc"
	"github.com/bindery/bindery/internal/textparse"
)

// TextParser handles plain text book transcriptions.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*bookdoc.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text, _ := textparse.DecodeText(data)
	doc := &bookdoc.Document{
		Title:    baseTitle(filename),
		Chapters: textparse.ParseChapters(text),
	}

	// A transcription without chapter markers still gets its line-pattern
	// classification, as a single unnumbered chapter.
	if len(doc.Chapters) == 0 {
		if units := textparse.BuildChapterUnits(splitLines(text)); len(units) > 0 {
			doc.Chapters = []*bookdoc.Chapter{{Units: units}}
		}
	}

	return doc, nil
}
