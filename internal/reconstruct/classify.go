package reconstruct

import (
	"sort"
	"strings"

	"github.com/bindery/bindery/internal/bookdoc"
)

// classified holds one page's lines after role assignment. Roles are
// provisional: the segmenter and assembler stages decide unit boundaries.
type classified struct {
	titles    []bookdoc.Line
	header    []bookdoc.Token
	body      []bookdoc.Line
	footnotes []bookdoc.Line
}

// classifyPage assigns every token a provisional role from its vertical
// band and the page's font tiers, then assembles the role groups into
// lines. With an empty profile only the position bands decide.
func classifyPage(tokens []bookdoc.Token, prof Profile, cfg Config) classified {
	var titleToks, headerToks, bodyToks, footToks []bookdoc.Token

	for _, tok := range tokens {
		if strings.TrimSpace(tok.Text) == "" {
			continue
		}
		switch {
		case tok.Top > cfg.FootnoteBand:
			// Footnote numerals render smaller than footnote body text, so
			// the bottom band claims every size tier.
			footToks = append(footToks, tok)
		case !prof.Empty() && tok.Top < cfg.TitleBand && prof.IsHeaderSize(tok.FontSize):
			titleToks = append(titleToks, tok)
		case tok.Top < cfg.HeaderBand && (prof.Empty() || prof.IsFootnoteSize(tok.FontSize)):
			// Running head: page number and chapter name in a face well
			// below body size. Body-size strays in the top band are noise.
			headerToks = append(headerToks, tok)
		case tok.Top > cfg.BodyTop && tok.Top < cfg.BodyBottom:
			if marker, ok := refMarker(tok, prof, cfg); ok {
				// Superscript footnote references stay inline as a
				// bracketed marker instead of becoming their own unit.
				tok.Text = marker
				bodyToks = append(bodyToks, tok)
				continue
			}
			if prof.Empty() || prof.IsBodySize(tok.FontSize) {
				bodyToks = append(bodyToks, tok)
			}
		}
	}

	cls := classified{
		header:    sortByX(headerToks),
		body:      bodyToks2Lines(bodyToks, cfg),
		footnotes: AssembleLines(footToks, cfg.LineTolerance),
	}

	// Title bands can interleave columns, so each title line is re-sorted
	// into source x-order before its words are joined.
	for _, line := range AssembleLines(titleToks, cfg.LineTolerance) {
		cls.titles = append(cls.titles, bookdoc.Line{Tokens: sortByX(line.Tokens)})
	}
	return cls
}

func bodyToks2Lines(tokens []bookdoc.Token, cfg Config) []bookdoc.Line {
	return AssembleLines(tokens, cfg.LineTolerance)
}

// refMarker recognizes a superscript footnote-reference token inside the
// body band: a 1-2 digit numeral rendered well below body size.
func refMarker(tok bookdoc.Token, prof Profile, cfg Config) (string, bool) {
	if prof.Empty() || tok.FontSize <= 0 {
		return "", false
	}
	if len(tok.Text) == 0 || len(tok.Text) > 2 {
		return "", false
	}
	for _, r := range tok.Text {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	if !prof.IsFootnoteSize(tok.FontSize) || tok.FontSize >= prof.BodySize-cfg.SizeTolerance {
		return "", false
	}
	return "[" + tok.Text + "]", true
}

func sortByX(tokens []bookdoc.Token) []bookdoc.Token {
	out := make([]bookdoc.Token, len(tokens))
	copy(out, tokens)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].X0 < out[j].X0
	})
	return out
}
