package reconstruct

import (
	"reflect"
	"testing"

	"github.com/bindery/bindery/internal/bookdoc"
)

// twoPageBook is a chapter opening whose last paragraph runs off page 1,
// past a footnote, and resumes at the top of page 2.
func twoPageBook() []TokenPage {
	var p1 []bookdoc.Token
	p1 = append(p1, wordsAt(100, 200, 14, "CHAPTER", "ONE")...)
	p1 = append(p1, wordsAt(250, 110, 10.5, "The", "idea", "of", "the", "nation", "spread")...)
	p1 = append(p1, wordsAt(265, 72, 10.5, "slowly", "at", "first,", "then", "all", "at")...)
	p1 = append(p1, wordsAt(470, 72, 8, "9", "On", "the", "earliest", "uses.")...)

	var p2 []bookdoc.Token
	p2 = append(p2, wordsAt(250, 72, 10.5, "once,", "across", "the", "continent.")...)
	p2 = append(p2, wordsAt(280, 110, 10.5, "A", "second", "paragraph", "follows.")...)

	return []TokenPage{
		{Number: 1, Tokens: p1},
		{Number: 2, Tokens: p2},
	}
}

func TestBuildDocument_CrossPageMerge(t *testing.T) {
	pages := BuildDocument(twoPageBook(), DefaultConfig(), nil)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}

	p1 := pages[0]
	if len(p1.Units) != 3 {
		t.Fatalf("expected title, paragraph, footnote on page 1, got %d units", len(p1.Units))
	}
	if p1.Units[0].Type != bookdoc.UnitTitle || p1.Units[0].SourceText != "CHAPTER ONE" {
		t.Errorf("unexpected title unit: %+v", p1.Units[0])
	}
	wantPara := "The idea of the nation spread slowly at first, then all at once, across the continent."
	if p1.Units[1].Type != bookdoc.UnitParagraph || p1.Units[1].SourceText != wantPara {
		t.Errorf("expected merged paragraph %q, got %q", wantPara, p1.Units[1].SourceText)
	}
	if len(p1.Units[1].Note) != 1 || p1.Units[1].Note[0] != "combined by id4" {
		t.Errorf("expected merge note, got %v", p1.Units[1].Note)
	}
	if p1.Units[2].Type != bookdoc.UnitFootnote || p1.Units[2].OriginalID != "9" {
		t.Errorf("unexpected footnote unit: %+v", p1.Units[2])
	}

	p2 := pages[1]
	if len(p2.Units) != 1 {
		t.Fatalf("expected fragment removed from page 2, got %d units", len(p2.Units))
	}
	if p2.Units[0].SourceText != "A second paragraph follows." {
		t.Errorf("unexpected page 2 unit: %q", p2.Units[0].SourceText)
	}
}

func TestBuildDocument_IDsStrictlyIncreasing(t *testing.T) {
	pages := BuildDocument(twoPageBook(), DefaultConfig(), nil)
	last := 0
	for _, page := range pages {
		for _, u := range page.Units {
			if u.ID <= last {
				t.Fatalf("ids not strictly increasing: %d after %d", u.ID, last)
			}
			last = u.ID
		}
	}
}

func TestBuildDocument_ParallelMatchesSerial(t *testing.T) {
	serialCfg := DefaultConfig()
	serialCfg.Workers = 1
	parallelCfg := DefaultConfig()
	parallelCfg.Workers = 4

	serial := BuildDocument(twoPageBook(), serialCfg, nil)
	parallel := BuildDocument(twoPageBook(), parallelCfg, nil)

	if !reflect.DeepEqual(serial, parallel) {
		t.Errorf("parallel reconstruction diverged from serial:\n%+v\nvs\n%+v", serial, parallel)
	}
}

func TestBuildDocument_EmptyPages(t *testing.T) {
	pages := BuildDocument([]TokenPage{{Number: 1}, {Number: 2}}, DefaultConfig(), nil)
	if len(pages) != 2 {
		t.Fatalf("expected page shells preserved, got %d", len(pages))
	}
	for _, p := range pages {
		if len(p.Units) != 0 {
			t.Errorf("expected no units on page %d, got %d", p.PageNumber, len(p.Units))
		}
	}
}
