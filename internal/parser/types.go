package parser

import (
	"strconv"

	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/span"
	"github.com/aetherlang/aethc/internal/token"
)

// parseType parses the type grammar rooted at: ownership prefix
// (own/shared) | pointer *T | reference &[mut] [lifetime] T |
// array [T; N] | slice [T] | tuple (T,...) | unit () | named
// (possibly with generic arguments <T,U>).
func (p *Parser) parseType() ast.Type {
	start := p.cur().Span

	switch {
	case p.atLit("own"):
		p.advance()
		return &ast.OwnedType{Base: ast.Base{Span: start}, Ownership: ast.OwnOwn, Elem: p.parseType()}
	case p.atLit("shared"):
		p.advance()
		return &ast.OwnedType{Base: ast.Base{Span: start}, Ownership: ast.OwnShared, Elem: p.parseType()}
	case p.atLit("volatile"):
		p.advance()
		return &ast.VolatileType{Base: ast.Base{Span: start}, Elem: p.parseType()}
	case p.atLit("*"):
		p.advance()
		elem := p.parseType()
		return &ast.PointerType{Base: ast.Base{Span: span.Merge(start, elem.Spanned())}, Elem: elem}
	case p.atLit("&"):
		p.advance()
		mut := false
		if p.atLit("mut") {
			p.advance()
			mut = true
		}
		lifetime := ""
		if p.atKind(token.Lifetime) {
			lifetime = p.advance().Lit
		}
		elem := p.parseType()
		return &ast.ReferenceType{
			Base: ast.Base{Span: span.Merge(start, elem.Spanned())}, Mut: mut,
			Lifetime: lifetime, Elem: elem,
		}
	case p.atLit("["):
		p.advance()
		elem := p.parseType()
		if p.atLit(";") {
			p.advance()
			sizeTok := p.cur()
			if sizeTok.Kind != token.IntLit {
				p.bail(diag.KindMissingArraySize, sizeTok.Span, "expected array size")
			}
			p.advance()
			n, _ := strconv.ParseInt(sizeTok.Lit, 0, 64)
			end := p.expectLit("]")
			return &ast.ArrayType{Base: ast.Base{Span: span.Merge(start, end.Span)}, Elem: elem, Size: n}
		}
		end := p.expectLit("]")
		return &ast.SliceType{Base: ast.Base{Span: span.Merge(start, end.Span)}, Elem: elem}
	case p.atLit("("):
		p.advance()
		if p.atLit(")") {
			end := p.advance()
			return &ast.UnitType{Base: ast.Base{Span: span.Merge(start, end.Span)}}
		}
		var elems []ast.Type
		elems = append(elems, p.parseType())
		for p.atLit(",") {
			p.advance()
			if p.atLit(")") {
				break
			}
			elems = append(elems, p.parseType())
		}
		end := p.expectLit(")")
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TupleType{Base: ast.Base{Span: span.Merge(start, end.Span)}, Elems: elems}
	case p.atLit("fn"):
		p.advance()
		p.expectLit("(")
		var params []ast.Type
		for !p.atLit(")") {
			params = append(params, p.parseType())
			if p.atLit(",") {
				p.advance()
			} else {
				break
			}
		}
		end := p.expectLit(")")
		var ret ast.Type
		if p.atLit("->") {
			p.advance()
			ret = p.parseType()
			end = token.Token{Span: ret.Spanned()}
		}
		return &ast.FunctionType{Base: ast.Base{Span: span.Merge(start, end.Span)}, Params: params, Return: ret}
	case p.atLit("never"):
		end := p.advance()
		return &ast.NeverType{Base: ast.Base{Span: span.Merge(start, end.Span)}}
	case p.atKind(token.Ident) && p.cur().Lit == "_":
		end := p.advance()
		return &ast.InferredType{Base: ast.Base{Span: span.Merge(start, end.Span)}}
	case p.atKind(token.Ident) || p.atKind(token.Keyword):
		name := p.advance()
		nt := &ast.NamedType{Base: ast.Base{Span: name.Span}, Name: name.Lit}
		if p.atLit("<") {
			p.advance()
			for !p.atLit(">") {
				nt.Args = append(nt.Args, p.parseType())
				if p.atLit(",") {
					p.advance()
				} else {
					break
				}
			}
			end := p.expectLit(">")
			nt.Span = span.Merge(nt.Span, end.Span)
		}
		return nt
	default:
		p.bail(diag.KindMissingType, p.cur().Span, "expected a type, got %q", p.cur().Lit)
		return nil
	}
}
