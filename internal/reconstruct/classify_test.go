package reconstruct

import (
	"testing"

	"github.com/bindery/bindery/internal/bookdoc"
)

// wordsAt lays out one word per token along a line, 30 units apart.
func wordsAt(top, x0, size float64, words ...string) []bookdoc.Token {
	toks := make([]bookdoc.Token, 0, len(words))
	for i, w := range words {
		toks = append(toks, bookdoc.Token{
			Text:     w,
			X0:       x0 + float64(i)*30,
			Top:      top,
			Bottom:   top + size,
			FontSize: size,
		})
	}
	return toks
}

// threeTierPage returns footnote tokens so a page always has a bottom
// cluster; tests append title and body tokens on top of it.
func footnoteTokens() []bookdoc.Token {
	return wordsAt(470, 72, 8, "9", "Foo", "bar", "baz")
}

func TestClassifyPage_TitleJoinedAcrossNearYPositions(t *testing.T) {
	// Three header-tier tokens at y positions within 1 unit of each other
	// form a single title, joined in source x-order.
	var toks []bookdoc.Token
	toks = append(toks, bookdoc.Token{Text: "ORIGINS", X0: 260, Top: 100.9, FontSize: 14})
	toks = append(toks, bookdoc.Token{Text: "THE", X0: 200, Top: 100, FontSize: 14})
	toks = append(toks, bookdoc.Token{Text: "OF", X0: 235, Top: 100.5, FontSize: 14})
	toks = append(toks, wordsAt(150, 72, 10.5, "Body", "text", "here")...)
	toks = append(toks, footnoteTokens()...)

	cfg := DefaultConfig()
	prof := ProfilePage(toks, cfg.SizeTolerance)
	cls := classifyPage(toks, prof, cfg)

	if len(cls.titles) != 1 {
		t.Fatalf("expected 1 title line, got %d", len(cls.titles))
	}
	if got := cls.titles[0].Text(); got != "THE OF ORIGINS" {
		t.Errorf("expected title joined in x-order, got %q", got)
	}
}

func TestClassifyPage_BottomBandClaimsAllSizes(t *testing.T) {
	// A footnote numeral renders smaller than the footnote body text but
	// must land in the same role.
	toks := wordsAt(100, 200, 14, "CHAPTER", "TWO")
	toks = append(toks, wordsAt(150, 72, 10.5, "Body", "copy", "line")...)
	toks = append(toks, bookdoc.Token{Text: "12", X0: 72, Top: 470, FontSize: 6})
	toks = append(toks, wordsAt(470.5, 90, 8, "See", "above")...)

	cfg := DefaultConfig()
	prof := ProfilePage(toks, cfg.SizeTolerance)
	cls := classifyPage(toks, prof, cfg)

	if len(cls.footnotes) != 1 {
		t.Fatalf("expected 1 footnote line, got %d", len(cls.footnotes))
	}
	if got := cls.footnotes[0].Text(); got != "12 See above" {
		t.Errorf("expected footnote line %q, got %q", "12 See above", got)
	}
}

func TestClassifyPage_BodySizeStrayInTopBandDiscarded(t *testing.T) {
	// A body-size token drifting into the running-head band is layout
	// noise, not a header: the head face sits well below body size.
	var toks []bookdoc.Token
	toks = append(toks, bookdoc.Token{Text: "stray", X0: 72, Top: 60, FontSize: 10.5})
	toks = append(toks, wordsAt(150, 72, 10.5, "Body", "text", "here")...)
	toks = append(toks, wordsAt(100, 200, 18, "CHAPTER", "TWO")...)
	toks = append(toks, wordsAt(470, 72, 6.5, "1", "note")...)

	cfg := DefaultConfig()
	prof := ProfilePage(toks, cfg.SizeTolerance)
	if prof.Buckets() != 3 {
		t.Fatalf("expected 3 size tiers, got %d", prof.Buckets())
	}
	cls := classifyPage(toks, prof, cfg)

	if got := (bookdoc.Line{Tokens: cls.header}).Text(); got != "" {
		t.Errorf("expected no header tokens, got %q", got)
	}
	for _, line := range cls.body {
		for _, tok := range line.Tokens {
			if tok.Text == "stray" {
				t.Errorf("stray token leaked into body: %q", line.Text())
			}
		}
	}
}

func TestClassifyPage_SmallFaceInTopBandIsHeader(t *testing.T) {
	var toks []bookdoc.Token
	toks = append(toks, wordsAt(40, 72, 6.5, "14", "NATIONALISM")...)
	toks = append(toks, wordsAt(150, 72, 10.5, "Body", "text", "here")...)
	toks = append(toks, wordsAt(100, 200, 18, "CHAPTER", "TWO")...)

	cfg := DefaultConfig()
	prof := ProfilePage(toks, cfg.SizeTolerance)
	cls := classifyPage(toks, prof, cfg)

	if got := (bookdoc.Line{Tokens: cls.header}).Text(); got != "14 NATIONALISM" {
		t.Errorf("expected header %q, got %q", "14 NATIONALISM", got)
	}
}

func TestClassifyPage_RefMarkerStaysInline(t *testing.T) {
	// A tiny superscript numeral inside the body band becomes a bracketed
	// inline marker, not a separate unit.
	toks := wordsAt(100, 200, 14, "CHAPTER", "TWO")
	toks = append(toks, wordsAt(150, 72, 10.5, "as", "argued", "before")...)
	toks = append(toks, bookdoc.Token{Text: "7", X0: 165, Top: 149.5, FontSize: 6})
	toks = append(toks, footnoteTokens()...)

	cfg := DefaultConfig()
	prof := ProfilePage(toks, cfg.SizeTolerance)
	cls := classifyPage(toks, prof, cfg)

	if len(cls.body) != 1 {
		t.Fatalf("expected 1 body line, got %d", len(cls.body))
	}
	found := false
	for _, tok := range cls.body[0].Tokens {
		if tok.Text == "[7]" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected inline [7] marker in body line, got %q", cls.body[0].Text())
	}
}

func TestClassifyPage_EmptyProfileFallsBackToBands(t *testing.T) {
	// No font sizes at all: position-only classification still separates
	// running head, body, and footnotes.
	var toks []bookdoc.Token
	toks = append(toks, bookdoc.Token{Text: "14", X0: 72, Top: 40})
	toks = append(toks, bookdoc.Token{Text: "CHAPTER", X0: 110, Top: 40.5})
	toks = append(toks, bookdoc.Token{Text: "Body", X0: 72, Top: 150})
	toks = append(toks, bookdoc.Token{Text: "1", X0: 72, Top: 470})
	toks = append(toks, bookdoc.Token{Text: "note", X0: 85, Top: 470.5})

	cfg := DefaultConfig()
	prof := ProfilePage(toks, cfg.SizeTolerance)
	if !prof.Empty() {
		t.Fatal("expected empty profile")
	}
	cls := classifyPage(toks, prof, cfg)

	if len(cls.titles) != 0 {
		t.Errorf("expected no titles without size data, got %d", len(cls.titles))
	}
	if got := (bookdoc.Line{Tokens: cls.header}).Text(); got != "14 CHAPTER" {
		t.Errorf("expected header %q, got %q", "14 CHAPTER", got)
	}
	if len(cls.body) != 1 || cls.body[0].Text() != "Body" {
		t.Errorf("expected single body line %q, got %v", "Body", cls.body)
	}
	if len(cls.footnotes) != 1 || cls.footnotes[0].Text() != "1 note" {
		t.Errorf("expected footnote line %q, got %v", "1 note", cls.footnotes)
	}
}

func TestBuildPage_HeaderSuppressedWhenTitlePresent(t *testing.T) {
	var toks []bookdoc.Token
	toks = append(toks, wordsAt(100, 200, 14, "DEFINING", "NATIONALISM")...)
	toks = append(toks, wordsAt(40, 72, 8, "14", "running", "head")...)
	toks = append(toks, wordsAt(150, 72, 10.5, "Body", "text", "continues")...)

	units := BuildPage(toks, DefaultConfig(), nil)

	for _, u := range units {
		if u.Type == bookdoc.UnitHeader {
			t.Errorf("expected running head suppressed on a title page, got %q", u.SourceText)
		}
	}
	if len(units) == 0 || units[0].Type != bookdoc.UnitTitle {
		t.Fatalf("expected leading title unit, got %+v", units)
	}
}

func TestBuildPage_EmptyTokenList(t *testing.T) {
	if units := BuildPage(nil, DefaultConfig(), nil); len(units) != 0 {
		t.Errorf("expected no units for empty page, got %d", len(units))
	}
}
