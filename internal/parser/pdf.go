package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"unicode"

	"github.com/bindery/bindery/internal/bookdoc"
	"github.com/bindery/bindery/internal/reconstruct"
	"github.com/bindery/bindery/internal/textparse"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser extracts positioned tokens page by page and hands them to the
// layout reconstruction. When the Go library cannot read the file it can
// fall back to pdftotext, which loses positions; that path goes through
// the plain-text chapter parser instead.
type PDFParser struct {
	Options           Options
	FallbackPdftotext bool
}

const defaultPageHeight = 792 // US Letter in points.

func (p *PDFParser) Parse(r io.Reader, filename string) (*bookdoc.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "bindery-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, err := p.reconstructFromTokens(tmpPath, filename)
	if err != nil && p.FallbackPdftotext {
		return p.parsePdftotext(tmpPath, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return doc, nil
}

func (p *PDFParser) reconstructFromTokens(path, filename string) (*bookdoc.Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start, end := pageRange(p.Options, reader.NumPage())

	var pages []reconstruct.TokenPage
	for i := start; i <= end; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		height := mediaBoxHeight(page.V)
		pages = append(pages, reconstruct.TokenPage{
			Number: i,
			Tokens: wordTokens(page.Content().Text, height),
		})
	}

	return &bookdoc.Document{
		Title: baseTitle(filename),
		Pages: reconstruct.BuildDocument(pages, p.Options.Layout, p.Options.Policy),
	}, nil
}

func (p *PDFParser) parsePdftotext(path, filename string) (*bookdoc.Document, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	text, _ := textparse.DecodeText(out)
	return &bookdoc.Document{
		Title:    baseTitle(filename),
		Chapters: textparse.ParseChapters(text),
	}, nil
}

func pageRange(opts Options, numPages int) (int, int) {
	start, end := opts.StartPage, opts.EndPage
	if start < 1 {
		start = 1
	}
	if end < 1 || end > numPages {
		end = numPages
	}
	return start, end
}

// mediaBoxHeight resolves the page height, walking up the page tree since
// MediaBox is inheritable.
func mediaBoxHeight(v pdflib.Value) float64 {
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); mb.Kind() == pdflib.Array && mb.Len() == 4 {
			if h := mb.Index(3).Float64() - mb.Index(1).Float64(); h > 0 {
				return h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}

// wordTokens regroups the extractor's glyph-level fragments into word
// tokens. Fragments sharing a baseline are merged into one word while each
// one starts where the previous ended, within a slack proportional to the
// font size; a larger gap, a font change, or a whitespace fragment starts
// a new word. PDF y grows upward from the bottom edge, so positions are
// flipped to the top-left origin the reconstruction expects.
func wordTokens(texts []pdflib.Text, pageHeight float64) []bookdoc.Token {
	frags := make([]pdflib.Text, len(texts))
	copy(frags, texts)
	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].Y != frags[j].Y {
			return frags[i].Y > frags[j].Y
		}
		return frags[i].X < frags[j].X
	})

	var toks []bookdoc.Token
	var word *bookdoc.Token
	var endX, lastY float64

	flush := func() {
		if word != nil && word.Text != "" {
			toks = append(toks, *word)
		}
		word = nil
	}

	for _, fr := range frags {
		if isBlank(fr.S) {
			flush()
			continue
		}
		slack := fr.FontSize * 0.3
		if slack <= 0 {
			slack = 1
		}
		sameWord := word != nil &&
			fr.Y == lastY &&
			fr.Font == word.FontName &&
			fr.X-endX <= slack

		if sameWord {
			word.Text += fr.S
		} else {
			flush()
			word = &bookdoc.Token{
				Text:     fr.S,
				X0:       fr.X,
				Top:      pageHeight - fr.Y - fr.FontSize,
				Bottom:   pageHeight - fr.Y,
				FontSize: fr.FontSize,
				FontName: fr.Font,
			}
		}
		endX = fr.X + fr.W
		lastY = fr.Y
	}
	flush()
	return toks
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
