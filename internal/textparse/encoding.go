package textparse

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Scanned books arrive in whatever encoding the OCR software emitted.
// DecodeText tries UTF-8 first, then a short list of legacy single-byte
// encodings, and falls back to stripping invalid bytes so parsing never
// fails outright on a bad file.
func DecodeText(data []byte) (text string, encoding string) {
	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	trials := []struct {
		name string
		cm   *charmap.Charmap
	}{
		{"windows-1252", charmap.Windows1252},
		{"iso-8859-1", charmap.ISO8859_1},
	}
	for _, tr := range trials {
		decoded, err := tr.cm.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		s := string(decoded)
		// The decoder substitutes U+FFFD for bytes the charmap does not
		// define; treat that as a failed trial.
		if strings.ContainsRune(s, utf8.RuneError) {
			continue
		}
		return s, tr.name
	}

	return strings.ToValidUTF8(string(data), ""), "utf-8"
}
