package textparse

import (
	"strings"
	"testing"
)

func TestDecodeText_UTF8Passthrough(t *testing.T) {
	in := "Déjà vu — plain UTF-8."
	text, enc := DecodeText([]byte(in))
	if enc != "utf-8" {
		t.Errorf("expected utf-8, got %q", enc)
	}
	if text != in {
		t.Errorf("expected passthrough, got %q", text)
	}
}

func TestDecodeText_Windows1252SmartQuotes(t *testing.T) {
	// 0x93/0x94 are curly quotes in windows-1252 and invalid UTF-8.
	in := []byte{'s', 'a', 'i', 'd', ' ', 0x93, 'n', 'o', 0x94}
	text, enc := DecodeText(in)
	if enc != "windows-1252" {
		t.Errorf("expected windows-1252, got %q", enc)
	}
	if text != "said “no”" {
		t.Errorf("unexpected decoded text %q", text)
	}
}

func TestDecodeText_Latin1AccentedBytes(t *testing.T) {
	// 0xE9 is é in both legacy charmaps; the decoded text must carry it.
	in := []byte{'c', 'a', 'f', 0xE9}
	text, _ := DecodeText(in)
	if !strings.HasSuffix(text, "é") {
		t.Errorf("expected accented character decoded, got %q", text)
	}
}

func TestDecodeText_Empty(t *testing.T) {
	text, enc := DecodeText(nil)
	if text != "" || enc != "utf-8" {
		t.Errorf("expected empty utf-8 result, got %q %q", text, enc)
	}
}
