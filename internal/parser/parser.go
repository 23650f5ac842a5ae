package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bindery/bindery/internal/bookdoc"
	"github.com/bindery/bindery/internal/reconstruct"
	"github.com/bindery/bindery/internal/textparse"
)

// Parser converts raw document bytes into a reconstructed Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*bookdoc.Document, error)
}

// Options carries the settings a parser may need. Only the PDF path uses
// the layout config and artifact policy; the page range is honored by any
// format that has a page notion.
type Options struct {
	Layout reconstruct.Config
	Policy reconstruct.ArtifactPolicy

	// 1-based inclusive page range; zero means unbounded on that side.
	StartPage int
	EndPage   int
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{Options: opts}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// chapterBuilder accumulates block text under the most recent heading for
// the structured formats (markdown, docx, html). Each heading opens a new
// chapter numbered by position; text before the first heading goes into an
// unnumbered leading chapter.
type chapterBuilder struct {
	chapters []*bookdoc.Chapter
	current  *bookdoc.Chapter
	blocks   []string
}

func (b *chapterBuilder) open(title string) {
	b.close()
	b.current = &bookdoc.Chapter{
		Number: fmt.Sprintf("%d", len(b.chapters)+1),
		Title:  title,
	}
}

func (b *chapterBuilder) add(block string) {
	// Wrapped source lines inside one block collapse to a single line so
	// the line-pattern rules see the block whole.
	block = strings.Join(strings.Fields(block), " ")
	if block == "" {
		return
	}
	if b.current == nil {
		b.current = &bookdoc.Chapter{}
	}
	b.blocks = append(b.blocks, block)
}

func (b *chapterBuilder) close() {
	if b.current == nil {
		return
	}
	b.current.Units = textparse.BuildChapterUnits(b.blocks)
	if b.current.Title != "" || len(b.current.Units) > 0 {
		b.chapters = append(b.chapters, b.current)
	}
	b.current = nil
	b.blocks = nil
}

func (b *chapterBuilder) finish() []*bookdoc.Chapter {
	b.close()
	return b.chapters
}
