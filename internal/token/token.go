// Package token defines the lexeme taxonomy shared by the primary
// lexer and the parser.
package token

import "github.com/aetherlang/aethc/internal/span"

// Kind tags a token's lexical category.
type Kind int

const (
	Eof Kind = iota
	Unknown

	Ident
	IntLit
	FloatLit
	StringLit
	CharLit
	Lifetime

	Keyword
	Operator
	Punct
)

func (k Kind) String() string {
	switch k {
	case Eof:
		return "eof"
	case Unknown:
		return "unknown"
	case Ident:
		return "identifier"
	case IntLit:
		return "integer"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case CharLit:
		return "char"
	case Lifetime:
		return "lifetime"
	case Keyword:
		return "keyword"
	case Operator:
		return "operator"
	case Punct:
		return "punctuator"
	default:
		return "?"
	}
}

// Token is a tagged lexeme with its source span. Lit holds the exact
// source text for identifiers, literals, keywords, operators, and
// punctuators; Ch holds the literal rune for Unknown tokens.
type Token struct {
	Kind Kind
	Lit  string
	Span span.Span
	Ch   rune
}

// Keywords is the closed keyword set (63 names), including ownership
// (own/ref/mut/shared), effect (pure/effect), contract
// (requires/ensures/invariant), and system
// (extern/static/union/volatile) keywords.
var Keywords = map[string]bool{
	"fn": true, "let": true, "mut": true, "return": true, "break": true,
	"continue": true, "if": true, "else": true, "match": true, "loop": true,
	"while": true, "for": true, "in": true, "struct": true, "enum": true,
	"impl": true, "interface": true, "trait": true, "const": true,
	"static": true, "extern": true, "union": true, "type": true,
	"module": true, "use": true, "macro": true, "pub": true,
	"own": true, "ref": true, "shared": true,
	"pure": true, "effect": true,
	"requires": true, "ensures": true, "invariant": true,
	"true": true, "false": true,
	"as": true, "unsafe": true, "asm": true,
	"volatile": true, "self": true, "Self": true,
	"out": true, "inout": true, "clobber": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "usize": true,
	"f32": true, "f64": true, "bool": true, "char": true, "str": true,
	"never": true, "void": true,
}

// LookupIdent returns Keyword if lit is a reserved word, otherwise
// Ident.
func LookupIdent(lit string) Kind {
	if Keywords[lit] {
		return Keyword
	}
	return Ident
}
