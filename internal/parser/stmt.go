package parser

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/span"
	"github.com/aetherlang/aethc/internal/token"
)

// exprNeedsSemi reports whether the block/control-flow expression
// forms can stand alone as a statement without a trailing `;` when
// followed directly by another statement (matching the common
// block-expression convention: if/match/loop/while/for/unsafe bodies
// don't require one).
func exprNeedsSemi(x ast.Expr) bool {
	switch x.(type) {
	case *ast.If, *ast.Match, *ast.Loop, *ast.While, *ast.For, *ast.Unsafe, *ast.Block:
		return false
	default:
		return true
	}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.expectLit("{")
	var stmts []ast.Stmt
	for !p.atLit("}") {
		stmts = append(stmts, p.parseStmt())
	}
	end := p.expectLit("}")
	return &ast.Block{Base: ast.Base{Span: span.Merge(start.Span, end.Span)}, Stmts: stmts}
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur().Span
	switch {
	case p.atLit(";"):
		end := p.advance()
		return &ast.Empty{Base: ast.Base{Span: span.Merge(start, end.Span)}}
	case p.atLit("let"):
		return p.parseLet()
	case p.atLit("return"):
		p.advance()
		var val ast.Expr
		if !p.atLit(";") && !p.atLit("}") {
			val = p.parseExpr()
		}
		end := p.cur().Span
		if p.atLit(";") {
			end = p.advance().Span
		}
		return &ast.Return{Base: ast.Base{Span: span.Merge(start, end)}, Value: val}
	case p.atLit("break"):
		p.advance()
		end := p.cur().Span
		if p.atLit(";") {
			end = p.advance().Span
		}
		return &ast.Break{Base: ast.Base{Span: span.Merge(start, end)}}
	case p.atLit("continue"):
		p.advance()
		end := p.cur().Span
		if p.atLit(";") {
			end = p.advance().Span
		}
		return &ast.Continue{Base: ast.Base{Span: span.Merge(start, end)}}
	default:
		x := p.parseExpr()
		end := x.Spanned()
		if p.atLit(";") {
			end = p.advance().Span
		} else if exprNeedsSemi(x) && !p.atLit("}") {
			p.bail(diag.KindUnexpectedToken, p.cur().Span, "expected ';' after expression statement, got %q", p.cur().Lit)
		}
		return &ast.ExprStmt{Base: ast.Base{Span: span.Merge(start, end)}, X: x}
	}
}

func (p *Parser) parseLet() *ast.Let {
	start := p.expectLit("let")
	mut := false
	if p.atLit("mut") {
		p.advance()
		mut = true
	}
	name := p.expectIdent()
	var typ ast.Type
	if p.atLit(":") {
		p.advance()
		typ = p.parseType()
	}
	var init ast.Expr
	if p.atLit("=") {
		p.advance()
		init = p.parseExpr()
	}
	end := p.cur().Span
	if p.atLit(";") {
		end = p.advance().Span
	}
	return &ast.Let{Base: ast.Base{Span: span.Merge(start.Span, end)}, Name: name.Lit, Mut: mut, Type: typ, Init: init}
}

// parseIf parses the `if cond { ... } else ...` expression,
// desugaring `else if` into a nested *If.
func (p *Parser) parseIf() *ast.If {
	start := p.expectLit("if")
	cond := p.parseExprNoStruct()
	then := p.parseBlock()
	var elseExpr ast.Expr
	end := then.Span
	if p.atLit("else") {
		p.advance()
		if p.atLit("if") {
			elseExpr = p.parseIf()
		} else {
			elseExpr = p.parseBlock()
		}
		end = elseExpr.Spanned()
	}
	return &ast.If{Base: ast.Base{Span: span.Merge(start.Span, end)}, Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseMatch() *ast.Match {
	start := p.expectLit("match")
	subject := p.parseExprNoStruct()
	p.expectLit("{")
	var arms []ast.MatchArm
	for !p.atLit("}") {
		astart := p.cur().Span
		pat := p.parseExpr()
		var guard ast.Expr
		if p.atLit("if") {
			p.advance()
			guard = p.parseExpr()
		}
		p.expectLit("=>")
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: span.Merge(astart, body.Spanned())})
		if p.atLit(",") {
			p.advance()
		}
	}
	end := p.expectLit("}")
	return &ast.Match{Base: ast.Base{Span: span.Merge(start.Span, end.Span)}, Subject: subject, Arms: arms}
}

func (p *Parser) parseLoop() *ast.Loop {
	start := p.expectLit("loop")
	body := p.parseBlock()
	return &ast.Loop{Base: ast.Base{Span: span.Merge(start.Span, body.Span)}, Body: body}
}

func (p *Parser) parseWhile() *ast.While {
	start := p.expectLit("while")
	cond := p.parseExprNoStruct()
	body := p.parseBlock()
	return &ast.While{Base: ast.Base{Span: span.Merge(start.Span, body.Span)}, Cond: cond, Body: body}
}

func (p *Parser) parseFor() *ast.For {
	start := p.expectLit("for")
	binder := p.expectIdent()
	p.expectLit("in")
	iter := p.parseExprNoStruct()
	body := p.parseBlock()
	return &ast.For{Base: ast.Base{Span: span.Merge(start.Span, body.Span)}, Binder: binder.Lit, Iter: iter, Body: body}
}

func (p *Parser) parseUnsafe() *ast.Unsafe {
	start := p.expectLit("unsafe")
	var reason, verifier string
	if p.atLit("(") {
		p.advance()
		for !p.atLit(")") {
			key := p.expectIdent().Lit
			p.expectLit("=")
			val := p.advance().Lit
			switch key {
			case "reason":
				reason = val
			case "verifier":
				verifier = val
			}
			if p.atLit(",") {
				p.advance()
			}
		}
		p.advance()
	}
	body := p.parseBlock()
	return &ast.Unsafe{Base: ast.Base{Span: span.Merge(start.Span, body.Span)}, Reason: reason, Verifier: verifier, Body: body}
}

// parseAsm parses `asm!("template", operand, ...)`.
func (p *Parser) parseAsm() *ast.Asm {
	start := p.expectLit("asm")
	p.expectLit("!")
	p.expectLit("(")
	template := ""
	if p.atKind(token.StringLit) {
		template = p.advance().Lit
	}
	var operands []ast.AsmOperand
	for p.atLit(",") {
		p.advance()
		if p.atLit(")") {
			break
		}
		ostart := p.cur().Span
		kind := ast.AsmIn
		switch {
		case p.atLit("out"):
			kind = ast.AsmOut
			p.advance()
		case p.atLit("inout"):
			kind = ast.AsmInOut
			p.advance()
		case p.atLit("clobber"):
			kind = ast.AsmClobber
			p.advance()
		case p.atLit("in"):
			p.advance()
		}
		constraint := ""
		end := ostart
		if p.atKind(token.StringLit) {
			ctok := p.advance()
			constraint = ctok.Lit
			end = ctok.Span
		}
		var expr ast.Expr
		if kind != ast.AsmClobber && p.atLit("(") {
			p.advance()
			expr = p.parseExpr()
			end = p.expectLit(")").Span
		}
		operands = append(operands, ast.AsmOperand{Kind: kind, Constraint: constraint, Expr: expr, Span: span.Merge(ostart, end)})
	}
	end := p.expectLit(")")
	return &ast.Asm{Base: ast.Base{Span: span.Merge(start.Span, end.Span)}, Template: template, Operands: operands}
}
