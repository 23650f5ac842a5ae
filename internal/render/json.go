package render

import (
	"encoding/json"

	"github.com/bindery/bindery/internal/bookdoc"
)

// JSON renders the document as a bare array, two-space indented: the
// chapter list for text-derived documents, the page list otherwise. The
// array form is the interchange format downstream translation tooling
// consumes.
func JSON(doc *bookdoc.Document) ([]byte, error) {
	if len(doc.Chapters) > 0 {
		return json.MarshalIndent(doc.Chapters, "", "  ")
	}
	if doc.Pages == nil {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(doc.Pages, "", "  ")
}
