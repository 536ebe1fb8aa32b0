package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlang/aethc/internal/token"
)

func TestTokenizeEndsInEof(t *testing.T) {
	for _, src := range []string{"", "fn main() {}", "// just a comment\n", "   \t\n  "} {
		toks := Tokenize(src, 0)
		require.NotEmpty(t, toks)
		assert.Equal(t, token.Eof, toks[len(toks)-1].Kind)
	}
}

func TestKeywordsPromoteFromIdent(t *testing.T) {
	toks := Tokenize("fn own ref mut shared pure effect requires ensures invariant extern static union volatile notakeyword", 0)
	kinds := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	for i := 0; i < len(toks)-2; i++ {
		assert.Equal(t, token.Keyword, toks[i].Kind, "token %d (%q) should be a keyword", i, toks[i].Lit)
	}
	assert.Equal(t, token.Ident, toks[len(toks)-2].Kind)
}

func TestIntegerAndFloatLiterals(t *testing.T) {
	toks := Tokenize("1_000 0xFF 3.14 2.5e10 2.5e", 0)
	require.GreaterOrEqual(t, len(toks), 5)
	assert.Equal(t, token.IntLit, toks[0].Kind)
	assert.Equal(t, "1000", toks[0].Lit)
	assert.Equal(t, token.IntLit, toks[1].Kind)
	assert.Equal(t, "0xFF", toks[1].Lit)
	assert.Equal(t, token.FloatLit, toks[2].Kind)
	assert.Equal(t, "3.14", toks[2].Lit)
	assert.Equal(t, token.FloatLit, toks[3].Kind)
	assert.Equal(t, "2.5e10", toks[3].Lit)
	// "2.5e" without trailing digits after 'e' should not consume 'e'.
	assert.Equal(t, token.FloatLit, toks[4].Kind)
	assert.Equal(t, "2.5", toks[4].Lit)
}

func TestStringEscapesAndUnterminated(t *testing.T) {
	toks := Tokenize(`"a\nb\tc\\\"d\q"` + "\n\"unterminated", 0)
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.StringLit, toks[0].Kind)
	assert.Equal(t, "a\nb\tc\\\"dq", toks[0].Lit)
	assert.Equal(t, token.StringLit, toks[1].Kind)
	assert.Equal(t, "unterminated", toks[1].Lit)
}

func TestCharVsLifetime(t *testing.T) {
	toks := Tokenize("'a' 'static 'x", 0)
	assert.Equal(t, token.CharLit, toks[0].Kind)
	assert.Equal(t, token.Lifetime, toks[1].Kind)
	assert.Equal(t, "static", toks[1].Lit)
	assert.Equal(t, token.Lifetime, toks[2].Kind)
	assert.Equal(t, "x", toks[2].Lit)
}

func TestOperatorLongestMatch(t *testing.T) {
	toks := Tokenize("- -> -= = == => < <= << > >= >> & && | || . .. ... : :: + += * *= / /=", 0)
	want := []string{
		"-", "->", "-=", "=", "==", "=>", "<", "<=", "<<", ">", ">=", ">>",
		"&", "&&", "|", "||", ".", "..", "...", ":", "::", "+", "+=", "*", "*=", "/", "/=",
	}
	require.Len(t, toks, len(want)+1)
	for i, w := range want {
		assert.Equal(t, w, toks[i].Lit, "token %d", i)
	}
}

func TestNestedBlockComments(t *testing.T) {
	toks := Tokenize("/* outer /* inner */ still-outer */ fn", 0)
	require.Len(t, toks, 2)
	assert.Equal(t, "fn", toks[0].Lit)
}

func TestUnknownCharacterNeverAborts(t *testing.T) {
	toks := Tokenize("fn \x01 main", 0)
	require.Len(t, toks, 4)
	assert.Equal(t, token.Unknown, toks[1].Kind)
	assert.Equal(t, rune(1), toks[1].Ch)
}

func TestSpansCoverLexemes(t *testing.T) {
	src := "fn main"
	toks := Tokenize(src, 7)
	assert.Equal(t, "fn", src[toks[0].Span.Start:toks[0].Span.End])
	assert.Equal(t, "main", src[toks[1].Span.Start:toks[1].Span.End])
	assert.Equal(t, 7, toks[0].Span.File)
}
