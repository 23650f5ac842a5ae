package bookdoc

import "strings"

// Token is one positioned word as produced by the PDF text extractor.
// Coordinates are in page units with the origin at the top-left corner.
type Token struct {
	Text     string
	X0       float64 // Left edge.
	Top      float64 // Top edge.
	Bottom   float64 // Bottom edge.
	FontSize float64 // 0 when the extractor could not determine it.
	FontName string
}

// Line is an ordered run of tokens sharing an approximate vertical position.
// Lines are never mutated after assembly.
type Line struct {
	Tokens []Token
}

// Text joins the line's tokens with single spaces in token order.
func (l Line) Text() string {
	var sb strings.Builder
	for i, t := range l.Tokens {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Indent is the left edge of the line's first token.
func (l Line) Indent() float64 {
	if len(l.Tokens) == 0 {
		return 0
	}
	return l.Tokens[0].X0
}

// TopY is the vertical position of the line's first token.
func (l Line) TopY() float64 {
	if len(l.Tokens) == 0 {
		return 0
	}
	return l.Tokens[0].Top
}

// UnitType tags a content unit as one of the four roles the
// reconstruction recognizes.
type UnitType string

const (
	UnitTitle     UnitType = "title"
	UnitHeader    UnitType = "header"
	UnitParagraph UnitType = "paragraph"
	UnitFootnote  UnitType = "footnote"
)

// Unit is one classified, contiguous piece of document content.
// OriginalID is set only for footnotes (the printed marker); it is assigned
// at creation and never changes. Note records cross-boundary merges: each
// entry names a unit id whose text was folded into this one.
type Unit struct {
	ID         int      `json:"id"`
	Type       UnitType `json:"type"`
	SourceText string   `json:"source_text"`
	OriginalID string   `json:"original_id,omitempty"`
	Note       []string `json:"note,omitempty"`

	AzureTranslation string `json:"azure_translation,omitempty"`
}

// Page is one physical page's ordered content units (token-stream path).
type Page struct {
	PageNumber int     `json:"page_number"`
	Units      []*Unit `json:"content_units"`
}

// Chapter is one chapter's ordered content units (plain-text path).
// Number is the word or numeral following the CHAPTER keyword.
type Chapter struct {
	Number string  `json:"chapter"`
	Title  string  `json:"title"`
	Units  []*Unit `json:"content_units"`
}

// Document is the reconstruction output: either a page sequence or a
// chapter sequence, depending on the input path.
type Document struct {
	Title    string     `json:"title,omitempty"`
	Pages    []*Page    `json:"pages,omitempty"`
	Chapters []*Chapter `json:"chapters,omitempty"`
}

// AllUnits returns every content unit in reading order.
func (d *Document) AllUnits() []*Unit {
	var units []*Unit
	for _, p := range d.Pages {
		units = append(units, p.Units...)
	}
	for _, c := range d.Chapters {
		units = append(units, c.Units...)
	}
	return units
}

// Empty reports whether the document contains no content units at all.
func (d *Document) Empty() bool {
	return len(d.AllUnits()) == 0
}
