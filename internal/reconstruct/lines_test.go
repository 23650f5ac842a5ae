package reconstruct

import (
	"testing"

	"github.com/bindery/bindery/internal/bookdoc"
)

func TestAssembleLines_GroupsByVerticalProximity(t *testing.T) {
	toks := []bookdoc.Token{
		{Text: "one", X0: 72, Top: 100},
		{Text: "line", X0: 110, Top: 100.8},
		{Text: "second", X0: 72, Top: 115},
		{Text: "line", X0: 130, Top: 115.5},
	}
	lines := AssembleLines(toks, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text() != "one line" {
		t.Errorf("expected first line %q, got %q", "one line", lines[0].Text())
	}
	if lines[1].Text() != "second line" {
		t.Errorf("expected second line %q, got %q", "second line", lines[1].Text())
	}
}

func TestAssembleLines_SortsByTop(t *testing.T) {
	// Tokens arrive out of vertical order.
	toks := []bookdoc.Token{
		{Text: "lower", Top: 200},
		{Text: "upper", Top: 100},
	}
	lines := AssembleLines(toks, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text() != "upper" {
		t.Errorf("expected topmost line first, got %q", lines[0].Text())
	}
}

func TestAssembleLines_Empty(t *testing.T) {
	if lines := AssembleLines(nil, 2); lines != nil {
		t.Errorf("expected nil for empty input, got %v", lines)
	}
}

func TestAssembleLines_ExactToleranceSplits(t *testing.T) {
	// The tolerance is exclusive: a gap of exactly 2 starts a new line.
	toks := []bookdoc.Token{
		{Text: "a", Top: 100},
		{Text: "b", Top: 102},
	}
	lines := AssembleLines(toks, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at exact tolerance, got %d", len(lines))
	}
}

func TestRepairHyphenation(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"develop- ment", "development"},
		{"a clean line", "a clean line"},
		{"two split- words join- ed", "two splitwords joined"},
		{"trailing hyphen-", "trailing hyphen-"},
		{"- leading", "- leading"},
		{"chain- ed- break", "chainedbreak"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := RepairHyphenation(tc.in); got != tc.want {
			t.Errorf("RepairHyphenation(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRepairHyphenation_Idempotent(t *testing.T) {
	inputs := []string{
		"develop- ment",
		"chain- ed- break",
		"already clean text",
	}
	for _, in := range inputs {
		once := RepairHyphenation(in)
		twice := RepairHyphenation(once)
		if once != twice {
			t.Errorf("repair not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
