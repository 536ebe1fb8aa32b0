// Package lexer implements the primary-syntax scanner.
//
// The lexer never aborts: unrecognized characters become Unknown
// tokens carrying the offending rune, and scanning always terminates
// in a single Eof token.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aetherlang/aethc/internal/span"
	"github.com/aetherlang/aethc/internal/token"
)

// Lexer scans UTF-8 source text for a single file.
type Lexer struct {
	src    string
	file   int
	pos    int // byte offset of the next unread byte
	tokens []token.Token
}

// New creates a Lexer over src, tagging every produced span with
// file.
func New(src string, file int) *Lexer {
	return &Lexer{src: src, file: file}
}

// Tokenize scans the entire input and returns the finite ordered
// token list, always ending in Eof.
func Tokenize(src string, file int) []token.Token {
	l := New(src, file)
	for {
		tok := l.next()
		l.tokens = append(l.tokens, tok)
		if tok.Kind == token.Eof {
			break
		}
	}
	return l.tokens
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	return b
}

func (l *Lexer) mkSpan(start int) span.Span {
	return span.New(start, l.pos, l.file)
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// skipWhitespaceAndComments consumes spaces, tabs, CR/LF, line
// comments, and nestable block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		b := l.peekByte()
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.pos++
		case b == '/' && l.peekByteAt(1) == '/':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.pos++
			}
		case b == '/' && l.peekByteAt(1) == '*':
			l.pos += 2
			depth := 1
			for l.pos < len(l.src) && depth > 0 {
				if l.peekByte() == '/' && l.peekByteAt(1) == '*' {
					depth++
					l.pos += 2
				} else if l.peekByte() == '*' && l.peekByteAt(1) == '/' {
					depth--
					l.pos += 2
				} else {
					l.pos++
				}
			}
		default:
			return
		}
	}
}

func (l *Lexer) next() token.Token {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.Eof, Span: l.mkSpan(l.pos)}
	}

	start := l.pos
	b := l.peekByte()

	switch {
	case isIdentStart(b):
		return l.lexIdent(start)
	case isDigit(b):
		return l.lexNumber(start)
	case b == '"':
		return l.lexString(start)
	case b == '\'':
		return l.lexCharOrLifetime(start)
	default:
		return l.lexOperator(start)
	}
}

func (l *Lexer) lexIdent(start int) token.Token {
	for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
		l.pos++
	}
	lit := l.src[start:l.pos]
	return token.Token{Kind: token.LookupIdent(lit), Lit: lit, Span: l.mkSpan(start)}
}

func (l *Lexer) lexNumber(start int) token.Token {
	isHex := false
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		isHex = true
		l.pos += 2
		for l.pos < len(l.src) && (isHexDigit(l.peekByte()) || l.peekByte() == '_') {
			l.pos++
		}
	} else {
		for l.pos < len(l.src) && (isDigit(l.peekByte()) || l.peekByte() == '_') {
			l.pos++
		}
	}

	isFloat := false
	if !isHex && l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		isFloat = true
		l.pos++ // consume '.'
		for l.pos < len(l.src) && (isDigit(l.peekByte()) || l.peekByte() == '_') {
			l.pos++
		}
		if l.peekByte() == 'e' || l.peekByte() == 'E' {
			save := l.pos
			l.pos++
			if l.peekByte() == '+' || l.peekByte() == '-' {
				l.pos++
			}
			if isDigit(l.peekByte()) {
				for l.pos < len(l.src) && isDigit(l.peekByte()) {
					l.pos++
				}
			} else {
				l.pos = save
			}
		}
	}

	raw := l.src[start:l.pos]
	lit := strings.ReplaceAll(raw, "_", "")
	kind := token.IntLit
	if isFloat {
		kind = token.FloatLit
	}
	return token.Token{Kind: kind, Lit: lit, Span: l.mkSpan(start)}
}

func (l *Lexer) lexString(start int) token.Token {
	l.pos++ // consume opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		b := l.peekByte()
		if b == '"' {
			l.pos++
			return token.Token{Kind: token.StringLit, Lit: sb.String(), Span: l.mkSpan(start)}
		}
		if b == '\n' {
			// Unterminated string: stop at newline.
			break
		}
		if b == '\\' && l.pos+1 < len(l.src) {
			esc := l.peekByteAt(1)
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(esc)
			}
			l.pos += 2
			continue
		}
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		sb.WriteRune(r)
		l.pos += size
	}
	return token.Token{Kind: token.StringLit, Lit: sb.String(), Span: l.mkSpan(start)}
}

func (l *Lexer) lexCharOrLifetime(start int) token.Token {
	l.pos++ // consume opening quote

	if l.pos < len(l.src) && isIdentStart(l.peekByte()) {
		save := l.pos
		for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
			l.pos++
		}
		if l.peekByte() == '\'' {
			// A single identifier char followed by a closing quote is a
			// char literal, not a lifetime.
			if l.pos-save == 1 {
				ch, _ := utf8.DecodeRuneInString(l.src[save:l.pos])
				l.pos++ // consume closing quote
				return token.Token{Kind: token.CharLit, Lit: string(ch), Span: l.mkSpan(start), Ch: ch}
			}
			// Multi-character content between quotes: the text between
			// the quotes becomes a lifetime token's text (both quotes are
			// consumed, neither is kept); this shape does not occur for
			// valid input.
			l.pos++
			return token.Token{Kind: token.Lifetime, Lit: l.src[start+1 : l.pos-1], Span: l.mkSpan(start)}
		}
		return token.Token{Kind: token.Lifetime, Lit: l.src[start+1 : l.pos], Span: l.mkSpan(start)}
	}

	// Plain char literal: 'x' or an escape.
	if l.peekByte() == '\\' {
		escStart := l.pos
		l.pos += 2
		var ch rune
		switch l.src[escStart+1] {
		case 'n':
			ch = '\n'
		case 'r':
			ch = '\r'
		case 't':
			ch = '\t'
		case '\\':
			ch = '\\'
		case '\'':
			ch = '\''
		case '0':
			ch = 0
		default:
			ch = rune(l.src[escStart+1])
		}
		if l.peekByte() == '\'' {
			l.pos++
		}
		return token.Token{Kind: token.CharLit, Lit: string(ch), Span: l.mkSpan(start), Ch: ch}
	}

	var ch rune
	if l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		ch = r
		l.pos += size
	}
	if l.peekByte() == '\'' {
		l.pos++
	}
	return token.Token{Kind: token.CharLit, Lit: string(ch), Span: l.mkSpan(start), Ch: ch}
}

// twoCharOps/threeCharOps are checked longest-match-first.
var threeCharOps = []string{"...", "..=", "<<=", ">>="}
var twoCharOps = []string{
	"->", "=>", "==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "::",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "..",
}

func (l *Lexer) lexOperator(start int) token.Token {
	rest := l.src[l.pos:]
	for _, op := range threeCharOps {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return token.Token{Kind: token.Operator, Lit: op, Span: l.mkSpan(start)}
		}
	}
	for _, op := range twoCharOps {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return token.Token{Kind: token.Operator, Lit: op, Span: l.mkSpan(start)}
		}
	}

	b := l.advance()
	switch b {
	case '+', '-', '*', '/', '%', '=', '<', '>', '&', '|', '^', '!', '~', '?', '.', ':':
		return token.Token{Kind: token.Operator, Lit: string(b), Span: l.mkSpan(start)}
	case '(', ')', '{', '}', '[', ']', ',', ';', '@', '#':
		return token.Token{Kind: token.Punct, Lit: string(b), Span: l.mkSpan(start)}
	default:
		r, size := utf8.DecodeRuneInString(l.src[start:])
		if size > 1 {
			l.pos = start + size
		}
		if !unicode.IsPrint(r) {
			r = rune(b)
		}
		return token.Token{Kind: token.Unknown, Ch: r, Span: l.mkSpan(start)}
	}
}
