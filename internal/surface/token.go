// Package surface implements the indentation-sensitive front dialect:
// a Python-like lexer/parser pair plus a transpiler that lowers the
// resulting AST to primary-syntax source text.
package surface

// Kind tags a surface-dialect token.
type Kind int

const (
	Eof Kind = iota
	Indent
	Dedent
	Newline

	Def
	Return
	If
	Elif
	Else
	While
	For
	In
	Pass
	Break
	Continue
	Comptime

	Ident
	Int
	Float
	Str

	Plus
	Minus
	Star
	Slash
	Percent
	Eq
	EqEq
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	AndAnd
	OrOr
	Arrow
	Colon
	Comma
	Dot
	LParen
	RParen
	LBracket
	RBracket

	Unknown
)

var keywords = map[string]Kind{
	"def":        Def,
	"return":     Return,
	"if":         If,
	"elif":       Elif,
	"else":       Else,
	"while":      While,
	"for":        For,
	"in":         In,
	"pass":       Pass,
	"break":      Break,
	"continue":   Continue,
	"@comptime":  Comptime,
}

// Token is one lexeme plus its source position, carrying whichever of
// the literal fields its Kind needs.
type Token struct {
	Kind   Kind
	Text   string
	IntVal int64
	FltVal float64
	Line   int
	Col    int
}
