package parser

import (
	"strconv"

	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/span"
	"github.com/aetherlang/aethc/internal/token"
)

// precedence table: lower binds looser. Assignment is
// right-associative; everything else is left-associative.
var binPrec = map[string]int{
	"=": 1, "+=": 1, "-=": 1, "*=": 1, "/=": 1, "%=": 1,
	"&=": 1, "|=": 1, "^=": 1, "<<=": 1, ">>=": 1,
	"||": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"==": 7, "!=": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8,
	"<<": 9, ">>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	}
	return false
}

// parseExpr parses a full expression, allowing struct literals.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(1)
}

// parseExprNoStruct parses an expression in a context where a
// following `{` must be read as a block, not a struct literal (if /
// while / for / match subjects).
func (p *Parser) parseExprNoStruct() ast.Expr {
	save := p.noStruct
	p.noStruct = true
	x := p.parseBinary(1)
	p.noStruct = save
	return x
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseCast()
	for {
		op, ok := p.peekBinOp()
		if !ok {
			break
		}
		prec, known := binPrec[op]
		if !known || prec < minPrec {
			break
		}
		opTok := p.advance()
		var right ast.Expr
		if isAssignOp(op) {
			right = p.parseBinary(prec) // right-associative
		} else {
			right = p.parseBinary(prec + 1)
		}
		left = &ast.Binary{
			Base: ast.Base{Span: span.Merge(left.Spanned(), right.Spanned())},
			Op:   ast.BinOp(op), Left: left, Right: right,
		}
		_ = opTok
	}
	return left
}

// peekBinOp reports the current token's operator literal if it names
// a binary/assignment operator, without consuming it.
func (p *Parser) peekBinOp() (string, bool) {
	c := p.cur()
	if c.Kind != token.Operator {
		return "", false
	}
	if _, ok := binPrec[c.Lit]; ok {
		return c.Lit, true
	}
	return "", false
}

// parseCast handles the `expr as T` postfix-ish cast, which binds
// tighter than any binary operator but looser than unary/postfix.
func (p *Parser) parseCast() ast.Expr {
	x := p.parseUnary()
	for p.atLit("as") {
		p.advance()
		typ := p.parseType()
		x = &ast.Cast{Base: ast.Base{Span: span.Merge(x.Spanned(), typ.Spanned())}, X: x, Type: typ}
	}
	return x
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur().Span
	switch {
	case p.atLit("-"), p.atLit("!"), p.atLit("~"):
		op := p.advance().Lit
		x := p.parseUnary()
		return &ast.Unary{Base: ast.Base{Span: span.Merge(start, x.Spanned())}, Op: ast.Operand(op), X: x}
	case p.atLit("&"):
		p.advance()
		mut := false
		if p.atLit("mut") {
			p.advance()
			mut = true
		}
		x := p.parseUnary()
		return &ast.Ref{Base: ast.Base{Span: span.Merge(start, x.Spanned())}, Mut: mut, X: x}
	case p.atLit("*"):
		p.advance()
		x := p.parseUnary()
		return &ast.Deref{Base: ast.Base{Span: span.Merge(start, x.Spanned())}, X: x}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses call/index/field/method/try suffixes, which
// bind tighter than every other operator.
func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch {
		case p.atLit("."):
			p.advance()
			name := p.expectIdent()
			if p.atLit("(") {
				args := p.parseArgList()
				end := p.peekLastConsumedSpan()
				x = &ast.MethodCall{Base: ast.Base{Span: span.Merge(x.Spanned(), end)}, Recv: x, Name: name.Lit, Args: args}
			} else {
				x = &ast.Field{Base: ast.Base{Span: span.Merge(x.Spanned(), name.Span)}, X: x, Name: name.Lit}
			}
		case p.atLit("("):
			args := p.parseArgList()
			end := p.peekLastConsumedSpan()
			x = &ast.Call{Base: ast.Base{Span: span.Merge(x.Spanned(), end)}, Callee: x, Args: args}
		case p.atLit("["):
			p.advance()
			idx := p.parseExpr()
			end := p.expectLit("]")
			x = &ast.Index{Base: ast.Base{Span: span.Merge(x.Spanned(), end.Span)}, X: x, Idx: idx}
		case p.atLit("?"):
			end := p.advance()
			x = &ast.Try{Base: ast.Base{Span: span.Merge(x.Spanned(), end.Span)}, X: x}
		case p.atLit("..") || p.atLit("..="):
			inclusive := p.cur().Lit == "..="
			p.advance()
			var rend ast.Expr
			if !p.atStmtEndLike() {
				rend = p.parseCast()
			}
			end := x.Spanned()
			if rend != nil {
				end = rend.Spanned()
			}
			x = &ast.Range{Base: ast.Base{Span: span.Merge(x.Spanned(), end)}, Start: x, End: rend, Inclusive: inclusive}
		default:
			return x
		}
	}
}

// atStmtEndLike reports whether the current token plausibly ends a
// range expression's right-hand side (used since a range may be
// open-ended, e.g. `i..`).
func (p *Parser) atStmtEndLike() bool {
	return p.atLit(";") || p.atLit(")") || p.atLit("]") || p.atLit("}") || p.atLit(",") || p.atKind(token.Eof) ||
		(p.noStruct && p.atLit("{"))
}

// peekLastConsumedSpan returns the span of the most recently consumed
// token, used to close off call/method-call spans after parseArgList.
func (p *Parser) peekLastConsumedSpan() span.Span {
	if p.pos == 0 {
		return p.toks[0].Span
	}
	return p.toks[p.pos-1].Span
}

func (p *Parser) parseArgList() []ast.Expr {
	p.expectLit("(")
	var args []ast.Expr
	for !p.atLit(")") {
		args = append(args, p.parseExpr())
		if p.atLit(",") {
			p.advance()
		} else {
			break
		}
	}
	p.expectLit(")")
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur().Span
	switch {
	case p.atKind(token.IntLit):
		t := p.advance()
		n, _ := strconv.ParseInt(t.Lit, 0, 64)
		return &ast.Literal{Base: ast.Base{Span: t.Span}, Kind: ast.LitInt, Int: n}
	case p.atKind(token.FloatLit):
		t := p.advance()
		f, _ := strconv.ParseFloat(t.Lit, 64)
		return &ast.Literal{Base: ast.Base{Span: t.Span}, Kind: ast.LitFloat, Flt: f}
	case p.atKind(token.StringLit):
		t := p.advance()
		return &ast.Literal{Base: ast.Base{Span: t.Span}, Kind: ast.LitString, Str: t.Lit}
	case p.atKind(token.CharLit):
		t := p.advance()
		var r rune
		for _, c := range t.Lit {
			r = c
			break
		}
		return &ast.Literal{Base: ast.Base{Span: t.Span}, Kind: ast.LitChar, Chr: r}
	case p.atLit("true"):
		t := p.advance()
		return &ast.Literal{Base: ast.Base{Span: t.Span}, Kind: ast.LitBool, Bool: true}
	case p.atLit("false"):
		t := p.advance()
		return &ast.Literal{Base: ast.Base{Span: t.Span}, Kind: ast.LitBool, Bool: false}
	case p.atLit("if"):
		return p.parseIf()
	case p.atLit("match"):
		return p.parseMatch()
	case p.atLit("loop"):
		return p.parseLoop()
	case p.atLit("while"):
		return p.parseWhile()
	case p.atLit("for"):
		return p.parseFor()
	case p.atLit("unsafe"):
		return p.parseUnsafe()
	case p.atLit("asm"):
		return p.parseAsm()
	case p.atLit("{"):
		return p.parseBlock()
	case p.atLit("("):
		p.advance()
		if p.atLit(")") {
			end := p.advance()
			return &ast.TupleLit{Base: ast.Base{Span: span.Merge(start, end.Span)}}
		}
		first := p.parseExpr()
		if p.atLit(",") {
			elems := []ast.Expr{first}
			for p.atLit(",") {
				p.advance()
				if p.atLit(")") {
					break
				}
				elems = append(elems, p.parseExpr())
			}
			end := p.expectLit(")")
			return &ast.TupleLit{Base: ast.Base{Span: span.Merge(start, end.Span)}, Elems: elems}
		}
		p.expectLit(")")
		return first
	case p.atLit("["):
		p.advance()
		var elems []ast.Expr
		for !p.atLit("]") {
			elems = append(elems, p.parseExpr())
			if p.atLit(",") {
				p.advance()
			} else {
				break
			}
		}
		end := p.expectLit("]")
		return &ast.ArrayLit{Base: ast.Base{Span: span.Merge(start, end.Span)}, Elems: elems}
	case p.atLit("|"):
		return p.parseClosure()
	case p.atLit("self"):
		t := p.advance()
		return &ast.Ident{Base: ast.Base{Span: t.Span}, Name: t.Lit}
	case p.atKind(token.Ident):
		return p.parseIdentOrStructLit()
	default:
		p.bail(diag.KindMissingExpr, p.cur().Span, "expected an expression, got %q", p.cur().Lit)
		return nil
	}
}

// parseIdentOrStructLit parses a bare identifier, a `a::b::c` path, or
// a `Name { field: expr, ... }` struct literal. Struct literals are
// suppressed in no-struct contexts (if/while/for/match subjects) so
// `if x {` parses `{` as the block.
func (p *Parser) parseIdentOrStructLit() ast.Expr {
	first := p.advance()
	if p.atLit("::") {
		segs := []string{first.Lit}
		end := first.Span
		for p.atLit("::") {
			p.advance()
			seg := p.expectIdent()
			segs = append(segs, seg.Lit)
			end = seg.Span
		}
		path := &ast.Path{Base: ast.Base{Span: span.Merge(first.Span, end)}, Segments: segs}
		if p.atLit("{") && !p.noStruct {
			return p.parseStructLitBody(path.Span, segs[len(segs)-1])
		}
		return path
	}
	if p.atLit("{") && !p.noStruct {
		return p.parseStructLitBody(first.Span, first.Lit)
	}
	return &ast.Ident{Base: ast.Base{Span: first.Span}, Name: first.Lit}
}

func (p *Parser) parseStructLitBody(nameSpan span.Span, name string) *ast.StructLit {
	p.expectLit("{")
	var fields []ast.FieldInit
	for !p.atLit("}") {
		fstart := p.cur().Span
		fname := p.expectIdent()
		var val ast.Expr
		if p.atLit(":") {
			p.advance()
			val = p.parseExpr()
		} else {
			val = &ast.Ident{Base: ast.Base{Span: fname.Span}, Name: fname.Lit}
		}
		fields = append(fields, ast.FieldInit{Name: fname.Lit, Expr: val, Span: span.Merge(fstart, val.Spanned())})
		if p.atLit(",") {
			p.advance()
		}
	}
	end := p.expectLit("}")
	return &ast.StructLit{Base: ast.Base{Span: span.Merge(nameSpan, end.Span)}, Name: name, Fields: fields}
}

// parseClosure parses `|params| [-> T] expr`.
func (p *Parser) parseClosure() *ast.Closure {
	start := p.expectLit("|")
	var params []ast.Param
	for !p.atLit("|") {
		pstart := p.cur().Span
		name := p.expectIdent()
		var typ ast.Type
		if p.atLit(":") {
			p.advance()
			typ = p.parseType()
		}
		end := name.Span
		if typ != nil {
			end = typ.Spanned()
		}
		params = append(params, ast.Param{Name: name.Lit, Type: typ, Span: span.Merge(pstart, end)})
		if p.atLit(",") {
			p.advance()
		} else {
			break
		}
	}
	p.expectLit("|")
	var ret ast.Type
	if p.atLit("->") {
		p.advance()
		ret = p.parseType()
	}
	body := p.parseExpr()
	return &ast.Closure{Base: ast.Base{Span: span.Merge(start.Span, body.Spanned())}, Params: params, Return: ret, Body: body}
}
