package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a UTF-8 BOM and applies Unicode NFC normalization to the
// raw source buffer before lexing begins. Lexically equivalent source
// produces an identical token stream regardless of input encoding variant
// ("café" in NFC vs. NFD tokenizes the same way).
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}

// normalizeString applies NFC to an already-extracted string value (an
// identifier or a string/char literal body), since values assembled by
// concatenating escape-decoded runes can drift from the source buffer's own
// normalization.
func normalizeString(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
