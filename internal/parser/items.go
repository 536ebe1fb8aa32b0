package parser

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/span"
	"github.com/aetherlang/aethc/internal/token"
)

// parseAttrs collects `#[name(args)]` attributes preceding an item.
func (p *Parser) parseAttrs() []ast.Attribute {
	var attrs []ast.Attribute
	for p.atLit("#") {
		p.advance()
		p.expectLit("[")
		name := p.expectIdent().Lit
		var args []string
		if p.atLit("(") {
			p.advance()
			for !p.atLit(")") {
				args = append(args, p.advance().Lit)
				if p.atLit(",") {
					p.advance()
				}
			}
			p.advance()
		}
		p.expectLit("]")
		attrs = append(attrs, ast.Attribute{Name: name, Args: args})
	}
	return attrs
}

func reprFromAttrs(attrs []ast.Attribute) ast.Repr {
	for _, a := range attrs {
		if a.Name == "repr" {
			for _, arg := range a.Args {
				switch arg {
				case "packed":
					return ast.ReprPacked
				case "C":
					return ast.ReprTransparent
				}
			}
		}
	}
	return ast.ReprDefault
}

func (p *Parser) parseItem() ast.Item {
	attrs := p.parseAttrs()
	start := p.cur().Span

	public := false
	if p.atLit("pub") {
		p.advance()
		public = true
	}

	switch {
	case p.atLit("fn"):
		return p.parseFunction(start, public, attrs)
	case p.atLit("struct"):
		return p.parseStruct(start, public, attrs)
	case p.atLit("enum"):
		return p.parseEnum(start, public)
	case p.atLit("impl"):
		return p.parseImpl(start)
	case p.atLit("interface") || p.atLit("trait"):
		return p.parseInterface(start)
	case p.atLit("const"):
		return p.parseConst(start)
	case p.atLit("static"):
		return p.parseStatic(start)
	case p.atLit("extern"):
		return p.parseExternBlock(start)
	case p.atLit("union"):
		return p.parseUnion(start)
	case p.atLit("type"):
		return p.parseTypeAlias(start)
	case p.atLit("module"):
		return p.parseModule(start)
	case p.atLit("use"):
		return p.parseUse(start)
	case p.atLit("macro"):
		return p.parseMacro(start)
	default:
		p.bail(diag.KindUnexpectedToken, p.cur().Span, "unexpected token: expected item, got %q", p.cur().Lit)
		return nil
	}
}

func (p *Parser) parseTypeParams() []ast.TypeParam {
	var tps []ast.TypeParam
	if p.atLit("<") {
		p.advance()
		for !p.atLit(">") {
			t := p.expectIdent()
			tps = append(tps, ast.TypeParam{Name: t.Lit, Span: t.Span})
			if p.atLit(",") {
				p.advance()
			} else {
				break
			}
		}
		p.expectLit(">")
	}
	return tps
}

func (p *Parser) parseParam() ast.Param {
	start := p.cur().Span
	ownership := ast.OwnNone
	switch {
	case p.atLit("own"):
		ownership = ast.OwnOwn
		p.advance()
	case p.atLit("ref"):
		ownership = ast.OwnRef
		p.advance()
	case p.atLit("mut"):
		ownership = ast.OwnMut
		p.advance()
	case p.atLit("shared"):
		ownership = ast.OwnShared
		p.advance()
	}
	if p.atLit("self") {
		name := p.advance()
		return ast.Param{Name: name.Lit, Ownership: ownership, Span: span.Merge(start, name.Span)}
	}
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
	return ast.Param{Name: name.Lit, Ownership: ownership, Type: typ, Span: span.Merge(start, end)}
}

func (p *Parser) parseParamList() []ast.Param {
	p.expectLit("(")
	var params []ast.Param
	for !p.atLit(")") {
		params = append(params, p.parseParam())
		if p.atLit(",") {
			p.advance()
		} else {
			break
		}
	}
	p.expectLit(")")
	return params
}

// parseContracts parses a `[requires ..., ensures ..., invariant ...]`
// block; clauses are separated by optional commas.
func (p *Parser) parseContracts() []ast.Contract {
	p.expectLit("[")
	var contracts []ast.Contract
	for !p.atLit("]") {
		cstart := p.cur().Span
		var kind ast.ContractKind
		switch {
		case p.atLit("requires"):
			kind = ast.Requires
		case p.atLit("ensures"):
			kind = ast.Ensures
		case p.atLit("invariant"):
			kind = ast.Invariant
		default:
			p.bail(diag.KindUnexpectedToken, p.cur().Span, "expected requires/ensures/invariant, got %q", p.cur().Lit)
		}
		p.advance()
		expr := p.parseExpr()
		contracts = append(contracts, ast.Contract{Kind: kind, Expr: expr, Span: span.Merge(cstart, expr.Spanned())})
		if p.atLit(",") {
			p.advance()
		}
	}
	p.expectLit("]")
	return contracts
}

// parseEffects parses the optional `pure | effect[e1,e2,...]` suffix
// of a function signature.
func (p *Parser) parseEffects() ast.EffectSet {
	switch {
	case p.atLit("pure"):
		p.advance()
		return ast.EffectSet{Pure: true, Declared: true}
	case p.atLit("effect"):
		p.advance()
		var effs []ast.Effect
		if p.atLit("[") {
			p.advance()
			for !p.atLit("]") {
				effs = append(effs, ast.Effect(p.advance().Lit))
				if p.atLit(",") {
					p.advance()
				}
			}
			p.advance()
		}
		return ast.EffectSet{Effects: effs, Declared: true}
	default:
		return ast.EffectSet{}
	}
}

func (p *Parser) parseFunction(start span.Span, public bool, attrs []ast.Attribute) *ast.Function {
	p.expectLit("fn")
	name := p.expectIdent()
	typeParams := p.parseTypeParams()
	params := p.parseParamList()
	var ret ast.Type
	if p.atLit("->") {
		p.advance()
		ret = p.parseType()
	}
	var contracts []ast.Contract
	if p.atLit("[") {
		contracts = p.parseContracts()
	}
	effects := p.parseEffects()
	body := p.parseBlock()
	return &ast.Function{
		Base:       ast.Base{Span: span.Merge(start, body.Spanned())},
		Name:       name.Lit,
		TypeParams: typeParams,
		Params:     params,
		Return:     ret,
		Body:       body,
		Public:     public,
		Contracts:  contracts,
		Effects:    effects,
		Attrs:      attrs,
	}
}

func (p *Parser) parseStruct(start span.Span, public bool, attrs []ast.Attribute) *ast.Struct {
	p.expectLit("struct")
	name := p.expectIdent()
	typeParams := p.parseTypeParams()
	end := p.expectLit("{")
	var fields []ast.StructField
	var invariants []ast.Contract
	for !p.atLit("}") {
		if p.atLit("invariant") {
			cstart := p.cur().Span
			p.advance()
			expr := p.parseExpr()
			invariants = append(invariants, ast.Contract{Kind: ast.Invariant, Expr: expr, Span: span.Merge(cstart, expr.Spanned())})
			if p.atLit(",") {
				p.advance()
			}
			continue
		}
		fpub := false
		if p.atLit("pub") {
			p.advance()
			fpub = true
		}
		fname := p.expectIdent()
		p.expectLit(":")
		ftyp := p.parseType()
		fields = append(fields, ast.StructField{Name: fname.Lit, Type: ftyp, Public: fpub, Span: span.Merge(fname.Span, ftyp.Spanned())})
		if p.atLit(",") {
			p.advance()
		}
	}
	end = p.expectLit("}")
	return &ast.Struct{
		Base: ast.Base{Span: span.Merge(start, end.Span)}, Name: name.Lit, Public: public,
		TypeParams: typeParams, Fields: fields, Invariants: invariants,
		Repr: reprFromAttrs(attrs), Attrs: attrs,
	}
}

func (p *Parser) parseEnum(start span.Span, public bool) *ast.Enum {
	p.expectLit("enum")
	name := p.expectIdent()
	typeParams := p.parseTypeParams()
	p.expectLit("{")
	var variants []ast.EnumVariant
	for !p.atLit("}") {
		vname := p.expectIdent()
		var fields []ast.Type
		vend := vname.Span
		if p.atLit("(") {
			p.advance()
			for !p.atLit(")") {
				fields = append(fields, p.parseType())
				if p.atLit(",") {
					p.advance()
				} else {
					break
				}
			}
			vend = p.expectLit(")").Span
		}
		variants = append(variants, ast.EnumVariant{Name: vname.Lit, Fields: fields, Span: span.Merge(vname.Span, vend)})
		if p.atLit(",") {
			p.advance()
		}
	}
	end := p.expectLit("}")
	return &ast.Enum{Base: ast.Base{Span: span.Merge(start, end.Span)}, Name: name.Lit, Public: public, TypeParams: typeParams, Variants: variants}
}

func (p *Parser) parseImpl(start span.Span) *ast.Impl {
	p.expectLit("impl")
	typeParams := p.parseTypeParams()
	first := p.expectIdent().Lit
	traitName, typeName := "", first
	if p.atLit("for") {
		p.advance()
		traitName = first
		typeName = p.expectIdent().Lit
	}
	p.expectLit("{")
	var methods []*ast.Function
	for !p.atLit("}") {
		mstart := p.cur().Span
		mpublic := false
		if p.atLit("pub") {
			p.advance()
			mpublic = true
		}
		methods = append(methods, p.parseFunction(mstart, mpublic, nil))
	}
	end := p.expectLit("}")
	return &ast.Impl{
		Base: ast.Base{Span: span.Merge(start, end.Span)}, TypeName: typeName, TraitName: traitName,
		TypeParams: typeParams, Methods: methods,
	}
}

func (p *Parser) parseInterface(start span.Span) *ast.Interface {
	p.advance() // 'interface' or 'trait'
	name := p.expectIdent()
	p.expectLit("{")
	var methods []ast.InterfaceMethod
	for !p.atLit("}") {
		mstart := p.cur().Span
		p.expectLit("fn")
		mname := p.expectIdent()
		params := p.parseParamList()
		var ret ast.Type
		if p.atLit("->") {
			p.advance()
			ret = p.parseType()
		}
		end := mname.Span
		if ret != nil {
			end = ret.Spanned()
		}
		if p.atLit(";") {
			p.advance()
		}
		methods = append(methods, ast.InterfaceMethod{Name: mname.Lit, Params: params, Return: ret, Span: span.Merge(mstart, end)})
	}
	end := p.expectLit("}")
	return &ast.Interface{Base: ast.Base{Span: span.Merge(start, end.Span)}, Name: name.Lit, Methods: methods}
}

func (p *Parser) parseConst(start span.Span) *ast.Const {
	p.expectLit("const")
	name := p.expectIdent()
	p.expectLit(":")
	typ := p.parseType()
	p.expectLit("=")
	val := p.parseExpr()
	end := p.cur().Span
	if p.atLit(";") {
		end = p.advance().Span
	}
	return &ast.Const{Base: ast.Base{Span: span.Merge(start, end)}, Name: name.Lit, Type: typ, Value: val}
}

func (p *Parser) parseStatic(start span.Span) *ast.Static {
	p.expectLit("static")
	mut := false
	if p.atLit("mut") {
		p.advance()
		mut = true
	}
	name := p.expectIdent()
	p.expectLit(":")
	typ := p.parseType()
	var val ast.Expr
	if p.atLit("=") {
		p.advance()
		val = p.parseExpr()
	}
	end := p.cur().Span
	if p.atLit(";") {
		end = p.advance().Span
	}
	return &ast.Static{Base: ast.Base{Span: span.Merge(start, end)}, Name: name.Lit, Type: typ, Value: val, Mut: mut}
}

func (p *Parser) parseExternBlock(start span.Span) *ast.ExternBlock {
	p.expectLit("extern")
	abi := ""
	if p.atKind(token.StringLit) {
		abi = p.advance().Lit
	}
	p.expectLit("{")
	var funcs []ast.ExternFunc
	var statics []ast.ExternStatic
	for !p.atLit("}") {
		fstart := p.cur().Span
		switch {
		case p.atLit("fn"):
			p.advance()
			fname := p.expectIdent()
			params := p.parseParamList()
			var ret ast.Type
			if p.atLit("->") {
				p.advance()
				ret = p.parseType()
			}
			end := fname.Span
			if ret != nil {
				end = ret.Spanned()
			}
			if p.atLit(";") {
				end = p.advance().Span
			}
			funcs = append(funcs, ast.ExternFunc{Name: fname.Lit, Params: params, Return: ret, Span: span.Merge(fstart, end)})
		case p.atLit("static"):
			p.advance()
			sname := p.expectIdent()
			p.expectLit(":")
			styp := p.parseType()
			end := styp.Spanned()
			if p.atLit(";") {
				end = p.advance().Span
			}
			statics = append(statics, ast.ExternStatic{Name: sname.Lit, Type: styp, Span: span.Merge(fstart, end)})
		default:
			p.bail(diag.KindUnexpectedToken, p.cur().Span, "expected fn or static inside extern block, got %q", p.cur().Lit)
		}
	}
	end := p.expectLit("}")
	return &ast.ExternBlock{Base: ast.Base{Span: span.Merge(start, end.Span)}, ABI: abi, Funcs: funcs, Statics: statics}
}

func (p *Parser) parseUnion(start span.Span) *ast.Union {
	p.expectLit("union")
	name := p.expectIdent()
	p.expectLit("{")
	var fields []ast.StructField
	for !p.atLit("}") {
		fname := p.expectIdent()
		p.expectLit(":")
		ftyp := p.parseType()
		fields = append(fields, ast.StructField{Name: fname.Lit, Type: ftyp, Span: span.Merge(fname.Span, ftyp.Spanned())})
		if p.atLit(",") {
			p.advance()
		}
	}
	end := p.expectLit("}")
	return &ast.Union{Base: ast.Base{Span: span.Merge(start, end.Span)}, Name: name.Lit, Fields: fields}
}

func (p *Parser) parseTypeAlias(start span.Span) *ast.TypeAlias {
	p.expectLit("type")
	name := p.expectIdent()
	p.expectLit("=")
	typ := p.parseType()
	end := typ.Spanned()
	if p.atLit(";") {
		end = p.advance().Span
	}
	return &ast.TypeAlias{Base: ast.Base{Span: span.Merge(start, end)}, Name: name.Lit, Type: typ}
}

func (p *Parser) parseModule(start span.Span) *ast.Module {
	p.expectLit("module")
	name := p.expectIdent()
	p.expectLit("{")
	var items []ast.Item
	for !p.atLit("}") {
		items = append(items, p.parseItem())
	}
	end := p.expectLit("}")
	return &ast.Module{Base: ast.Base{Span: span.Merge(start, end.Span)}, Name: name.Lit, Items: items}
}

func (p *Parser) parseUse(start span.Span) *ast.Use {
	p.expectLit("use")
	var segs []string
	segs = append(segs, p.expectIdent().Lit)
	for p.atLit("::") {
		p.advance()
		segs = append(segs, p.expectIdent().Lit)
	}
	end := p.cur().Span
	if p.atLit(";") {
		end = p.advance().Span
	}
	return &ast.Use{Base: ast.Base{Span: span.Merge(start, end)}, Path: segs}
}

// parseMacro accepts a macro declaration syntactically but never
// expands it; its body span is preserved for diagnostics only.
func (p *Parser) parseMacro(start span.Span) *ast.MacroDecl {
	p.expectLit("macro")
	name := p.expectIdent()
	p.expectLit("(")
	depth := 1
	for depth > 0 && !p.atKind(token.Eof) {
		if p.atLit("(") {
			depth++
		} else if p.atLit(")") {
			depth--
			if depth == 0 {
				p.advance()
				break
			}
		}
		p.advance()
	}
	bodyStart := p.cur().Span
	block := p.parseBlock()
	return &ast.MacroDecl{Base: ast.Base{Span: span.Merge(start, block.Spanned())}, Name: name.Lit, Body: span.Merge(bodyStart, block.Spanned())}
}
