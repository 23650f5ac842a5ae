package reconstruct

import (
	"github.com/bindery/bindery/internal/bookdoc"
)

// TokenPage is one page of extractor output: ordered positioned tokens.
type TokenPage struct {
	Number int
	Tokens []bookdoc.Token
}

// BuildPage runs the per-page stages — font profiling, line assembly,
// classification, paragraph segmentation, footnote assembly — over one
// page's tokens. Units come back in reading order without ids; the
// document pass owns the id counter.
func BuildPage(tokens []bookdoc.Token, cfg Config, policy ArtifactPolicy) []*bookdoc.Unit {
	cfg = cfg.normalize()
	if len(tokens) == 0 {
		return nil
	}

	prof := ProfilePage(tokens, cfg.SizeTolerance)
	cls := classifyPage(tokens, prof, cfg)

	var units []*bookdoc.Unit
	for _, line := range cls.titles {
		text := line.Text()
		if text == "" {
			continue
		}
		units = append(units, &bookdoc.Unit{
			Type:       bookdoc.UnitTitle,
			SourceText: text,
		})
	}

	// A page that opens a chapter has no running head worth keeping; the
	// header is emitted only when no title was found.
	if len(cls.titles) == 0 && len(cls.header) > 0 {
		header := bookdoc.Line{Tokens: cls.header}
		if text := header.Text(); text != "" {
			units = append(units, &bookdoc.Unit{
				Type:       bookdoc.UnitHeader,
				SourceText: text,
			})
		}
	}

	units = append(units, SegmentParagraphs(cls.body, cfg)...)
	units = append(units, AssembleFootnotes(cls.footnotes, cfg, policy)...)
	return units
}

// BuildDocument runs the full reconstruction over an ordered page
// sequence. Pages are independent, so with cfg.Workers > 1 they are
// classified in parallel and collected back into page order; the id pass
// and the cross-boundary merger are inherently sequential and always run
// as a single pass over the ordered result.
func BuildDocument(pages []TokenPage, cfg Config, policy ArtifactPolicy) []*bookdoc.Page {
	cfg = cfg.normalize()

	unitsByPage := make([][]*bookdoc.Unit, len(pages))
	if cfg.Workers <= 1 || len(pages) < 2 {
		for i, p := range pages {
			unitsByPage[i] = BuildPage(p.Tokens, cfg, policy)
		}
	} else {
		sem := make(chan struct{}, cfg.Workers)
		done := make(chan struct{})
		for i, p := range pages {
			sem <- struct{}{}
			go func(i int, toks []bookdoc.Token) {
				defer func() {
					<-sem
					done <- struct{}{}
				}()
				unitsByPage[i] = BuildPage(toks, cfg, policy)
			}(i, p.Tokens)
		}
		for range pages {
			<-done
		}
	}

	// Single-writer id counter over the page-ordered units, so ids are
	// strictly increasing in reading order.
	out := make([]*bookdoc.Page, 0, len(pages))
	id := 1
	for i, p := range pages {
		page := &bookdoc.Page{PageNumber: p.Number}
		for _, u := range unitsByPage[i] {
			u.ID = id
			id++
			page.Units = append(page.Units, u)
		}
		out = append(out, page)
	}

	MergePages(out)
	return out
}
