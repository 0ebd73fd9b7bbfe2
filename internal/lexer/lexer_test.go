package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(t []Token) []Kind {
	out := make([]Kind, len(t))
	for i, tok := range t {
		out[i] = tok.Kind
	}
	return out
}

func TestMaximalMunchOperators(t *testing.T) {
	toks, err := Tokenize([]byte("a |> b >> c << d :: e := f"), "t.vf")
	require.Nil(t, err)
	got := kinds(toks)
	want := []Kind{IDENT, PIPEGT, IDENT, RSHIFT2, IDENT, LSHIFT2, IDENT, DCOLON, IDENT, COLONEQ, IDENT, EOF}
	assert.Equal(t, want, got)
}

func TestNewlinesArePreservedAsTokens(t *testing.T) {
	toks, err := Tokenize([]byte("let x = 1\nlet y = 2"), "t.vf")
	require.Nil(t, err)
	var newlines int
	for _, tok := range toks {
		if tok.Kind == NEWLINE {
			newlines++
		}
	}
	assert.Equal(t, 1, newlines)
}

func TestNestedBlockComments(t *testing.T) {
	toks, err := Tokenize([]byte("/* outer /* inner */ still-comment */ 42"), "t.vf")
	require.Nil(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, INT, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Literal)
}

func TestUnterminatedBlockCommentErrorsAtOpeningLocation(t *testing.T) {
	_, err := Tokenize([]byte("1 + /* never closed"), "t.vf")
	require.NotNil(t, err)
	assert.Equal(t, 5, err.Diagnostic.Pos.Column)
}

func TestNumberForms(t *testing.T) {
	cases := []struct {
		src  string
		kind Kind
	}{
		{"0x1F", INT},
		{"0b101", INT},
		{"007", INT},
		{"3.14", FLOAT},
		{"1e10", FLOAT},
		{"1.5e-3", FLOAT},
	}
	for _, c := range cases {
		toks, err := Tokenize([]byte(c.src), "t.vf")
		require.Nil(t, err, c.src)
		require.Equal(t, c.kind, toks[0].Kind, c.src)
		assert.Equal(t, c.src, toks[0].Literal)
	}
}

func TestScientificNotationMissingExponentDigitsIsAnError(t *testing.T) {
	_, err := Tokenize([]byte("1e"), "t.vf")
	require.NotNil(t, err)
}

func TestStringEscapes(t *testing.T) {
	toks, err := Tokenize([]byte(`"a\nb\u{1F600}\x41"`), "t.vf")
	require.Nil(t, err)
	require.Equal(t, STRING, toks[0].Kind)
	assert.Contains(t, toks[0].Literal, "\n")
	assert.Contains(t, toks[0].Literal, "A")
}

func TestMultilineString(t *testing.T) {
	toks, err := Tokenize([]byte("\"\"\"line one\nline two\"\"\""), "t.vf")
	require.Nil(t, err)
	require.Equal(t, STRING, toks[0].Kind)
	assert.Equal(t, "line one\nline two", toks[0].Literal)
}

func TestUnknownEscapeIsAnError(t *testing.T) {
	_, err := Tokenize([]byte(`"\q"`), "t.vf")
	require.NotNil(t, err)
}

func TestNFCNormalizationMakesEquivalentSpellingsIdentical(t *testing.T) {
	nfc := []byte("café") // é precomposed
	nfd := []byte("café") // e + combining acute
	tNFC, err1 := Tokenize(nfc, "a.vf")
	tNFD, err2 := Tokenize(nfd, "b.vf")
	require.Nil(t, err1)
	require.Nil(t, err2)
	require.Len(t, tNFC, 2)
	require.Len(t, tNFD, 2)
	assert.Equal(t, tNFC[0].Literal, tNFD[0].Literal)
}

func TestKeywordVsIdentifier(t *testing.T) {
	toks, err := Tokenize([]byte("let letter = true"), "t.vf")
	require.Nil(t, err)
	assert.Equal(t, LET, toks[0].Kind)
	assert.Equal(t, IDENT, toks[1].Kind)
	assert.Equal(t, BOOL, toks[3].Kind)
}

func TestReservedKeywordsAreTokenizedAsReserved(t *testing.T) {
	toks, err := Tokenize([]byte("async await trait impl where do yield return"), "t.vf")
	require.Nil(t, err)
	for _, k := range []Kind{ASYNC, AWAIT, TRAIT, IMPL, WHERE, DO, YIELD, RETURN} {
		assert.True(t, IsReserved(k))
		_ = k
	}
	assert.Equal(t, ASYNC, toks[0].Kind)
}
