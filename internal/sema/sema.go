// Package sema implements the two-pass semantic analyzer: collection
// (register every top-level name) followed by checking (type-check
// and ownership-check every function body).
package sema

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/ownership"
	"github.com/aetherlang/aethc/internal/rtype"
	"github.com/aetherlang/aethc/internal/symtab"
)

// StructInfo is a collected struct declarator plus its resolved type.
type StructInfo struct {
	Node *ast.Struct
	Type *rtype.Type
}

// EnumInfo is a collected enum declarator plus its resolved type.
type EnumInfo struct {
	Node *ast.Enum
	Type *rtype.Type
}

// FuncInfo is a collected function signature, shared by top-level
// functions and impl methods.
type FuncInfo struct {
	Name       string
	Node       *ast.Function
	ParamTypes []*rtype.Type
	ReturnType *rtype.Type
	Effects    ast.EffectSet
	Receiver   string // owning type name for impl methods, else ""
}

// Program is the output of a successful (or partially successful, in
// lenient mode) analysis: every collected declaration plus a
// per-expression resolved-type table the IR generator consults
// instead of re-deriving types from scratch.
type Program struct {
	AST     *ast.Program
	Funcs   map[string]*FuncInfo
	Structs map[string]*StructInfo
	Enums   map[string]*EnumInfo
	Types   map[ast.Expr]*rtype.Type
}

// TypeOf returns the resolved type recorded for an expression node
// during checking, or Unknown if none was recorded (e.g. analysis
// aborted before reaching it).
func (p *Program) TypeOf(x ast.Expr) *rtype.Type {
	if t, ok := p.Types[x]; ok {
		return t
	}
	return rtype.NewUnknown()
}

// Analyzer holds the mutable state threaded through both passes.
type Analyzer struct {
	mode diag.Mode
	bag  *diag.Bag

	structs map[string]*StructInfo
	enums   map[string]*EnumInfo
	funcs   map[string]*FuncInfo
	types   map[ast.Expr]*rtype.Type

	global *symtab.Scope

	// typeParamScope holds the names of the type parameters visible
	// while resolving one function/struct/enum's own signature, so
	// resolveNamed can tell a generic parameter from an unresolved name.
	typeParamScope map[string]bool

	// per-function checking state
	scope     *symtab.Scope
	own       *ownership.Scope
	pure      bool
	returnTyp *rtype.Type
}

// Check runs both passes over prog and returns the resulting Program
// together with the diagnostic bag accumulated along the way. The
// caller inspects bag.Fatal() / bag.Result() to decide whether
// analysis succeeded, matching every other stage's Bag convention.
func Check(prog *ast.Program, mode diag.Mode) (*Program, *diag.Bag) {
	a := &Analyzer{
		mode:    mode,
		bag:     diag.NewBag(mode),
		structs: make(map[string]*StructInfo),
		enums:   make(map[string]*EnumInfo),
		funcs:   make(map[string]*FuncInfo),
		types:   make(map[ast.Expr]*rtype.Type),
		global:  symtab.NewRoot(),
	}
	a.seedBuiltins()
	a.collect(prog.Items)
	if a.bag.Fatal() != nil {
		return a.buildProgram(prog), a.bag
	}
	a.checkAll(prog.Items)
	return a.buildProgram(prog), a.bag
}

func (a *Analyzer) buildProgram(prog *ast.Program) *Program {
	return &Program{AST: prog, Funcs: a.funcs, Structs: a.structs, Enums: a.enums, Types: a.types}
}

func (a *Analyzer) seedBuiltins() {
	for name, sig := range builtins {
		a.global.Define(&symtab.Symbol{
			Name: name, Kind: symtab.KindFunction,
			ParamTypes: sig.Params, ReturnType: sig.Return,
		})
	}
}

// ---- Pass 1: collection ----

func (a *Analyzer) collect(items []ast.Item) {
	// Structs and enums are registered first so function signatures
	// referencing them resolve regardless of declaration order.
	for _, item := range items {
		switch n := item.(type) {
		case *ast.Struct:
			a.collectStruct(n)
		case *ast.Enum:
			a.collectEnum(n)
		}
	}
	for _, item := range items {
		switch n := item.(type) {
		case *ast.Function:
			a.collectFunction(n, "")
		case *ast.Const:
			a.collectConst(n)
		case *ast.Static:
			a.collectStatic(n)
		case *ast.ExternBlock:
			a.collectExternBlock(n)
		case *ast.Impl:
			a.collectImpl(n)
		case *ast.Module:
			a.collect(n.Items)
		}
	}
}

func (a *Analyzer) collectStruct(n *ast.Struct) {
	a.typeParamScope = make(map[string]bool, len(n.TypeParams))
	for _, tp := range n.TypeParams {
		a.typeParamScope[tp.Name] = true
	}
	fields := make([]rtype.Field, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = rtype.Field{Name: f.Name, Type: a.resolveType(f.Type)}
	}
	a.typeParamScope = nil
	st := rtype.NewStruct(n.Name, fields)
	if _, exists := a.structs[n.Name]; exists {
		a.bag.Add(diag.At(diag.KindDuplicateDef, diag.Fatal, n.Span, "duplicate struct %q", n.Name))
		return
	}
	a.structs[n.Name] = &StructInfo{Node: n, Type: st}
	a.global.Define(&symtab.Symbol{Name: n.Name, Kind: symtab.KindStruct, Type: st, Span: n.Span})
}

func (a *Analyzer) collectEnum(n *ast.Enum) {
	a.typeParamScope = make(map[string]bool, len(n.TypeParams))
	for _, tp := range n.TypeParams {
		a.typeParamScope[tp.Name] = true
	}
	for _, v := range n.Variants {
		for _, ft := range v.Fields {
			a.resolveType(ft) // result unused; an undefined name here reports nothing
		}
	}
	a.typeParamScope = nil
	en := rtype.NewEnum(n.Name)
	if _, exists := a.enums[n.Name]; exists {
		a.bag.Add(diag.At(diag.KindDuplicateDef, diag.Fatal, n.Span, "duplicate enum %q", n.Name))
		return
	}
	a.enums[n.Name] = &EnumInfo{Node: n, Type: en}
	a.global.Define(&symtab.Symbol{Name: n.Name, Kind: symtab.KindEnum, Type: en, Span: n.Span})
}

func (a *Analyzer) collectFunction(n *ast.Function, receiver string) {
	a.typeParamScope = make(map[string]bool, len(n.TypeParams))
	for _, tp := range n.TypeParams {
		a.typeParamScope[tp.Name] = true
	}
	params := make([]*rtype.Type, 0, len(n.Params))
	for _, p := range n.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, a.resolveType(p.Type))
	}
	ret := unitType()
	if n.Return != nil {
		ret = a.resolveType(n.Return)
	}
	a.typeParamScope = nil

	key := n.Name
	if receiver != "" {
		key = receiver + "::" + n.Name
	}
	if _, exists := a.funcs[key]; exists {
		a.bag.Add(diag.At(diag.KindDuplicateDef, diag.Fatal, n.Span, "duplicate function %q", key))
		return
	}
	fi := &FuncInfo{Name: n.Name, Node: n, ParamTypes: params, ReturnType: ret, Effects: n.Effects, Receiver: receiver}
	a.funcs[key] = fi
	if receiver == "" {
		a.global.Define(&symtab.Symbol{
			Name: n.Name, Kind: symtab.KindFunction, Span: n.Span,
			ParamTypes: params, ReturnType: ret,
		})
	}
}

func (a *Analyzer) collectConst(n *ast.Const) {
	t := a.resolveType(n.Type)
	if !a.global.Define(&symtab.Symbol{Name: n.Name, Kind: symtab.KindVariable, Type: t, Span: n.Span}) {
		a.bag.Add(diag.At(diag.KindDuplicateDef, diag.Fatal, n.Span, "duplicate definition %q", n.Name))
	}
}

func (a *Analyzer) collectStatic(n *ast.Static) {
	t := a.resolveType(n.Type)
	if !a.global.Define(&symtab.Symbol{Name: n.Name, Kind: symtab.KindVariable, Type: t, Span: n.Span, Mutable: n.Mut}) {
		a.bag.Add(diag.At(diag.KindDuplicateDef, diag.Fatal, n.Span, "duplicate definition %q", n.Name))
	}
}

func (a *Analyzer) collectExternBlock(n *ast.ExternBlock) {
	for _, f := range n.Funcs {
		params := make([]*rtype.Type, len(f.Params))
		for i, p := range f.Params {
			params[i] = a.resolveType(p.Type)
		}
		ret := unitType()
		if f.Return != nil {
			ret = a.resolveType(f.Return)
		}
		if !a.global.Define(&symtab.Symbol{Name: f.Name, Kind: symtab.KindFunction, Span: f.Span, ParamTypes: params, ReturnType: ret}) {
			a.bag.Add(diag.At(diag.KindDuplicateDef, diag.Fatal, f.Span, "duplicate definition %q", f.Name))
		}
	}
	for _, s := range n.Statics {
		t := a.resolveType(s.Type)
		if !a.global.Define(&symtab.Symbol{Name: s.Name, Kind: symtab.KindVariable, Type: t, Span: s.Span}) {
			a.bag.Add(diag.At(diag.KindDuplicateDef, diag.Fatal, s.Span, "duplicate definition %q", s.Name))
		}
	}
}

func (a *Analyzer) collectImpl(n *ast.Impl) {
	for _, m := range n.Methods {
		a.collectFunction(m, n.TypeName)
	}
}

// ---- Pass 2: checking ----

func (a *Analyzer) checkAll(items []ast.Item) {
	for _, item := range items {
		if a.bag.Fatal() != nil && a.mode == diag.Strict {
			return
		}
		switch n := item.(type) {
		case *ast.Function:
			a.checkFunction(a.funcs[n.Name])
		case *ast.Impl:
			for _, m := range n.Methods {
				a.checkFunction(a.funcs[n.TypeName+"::"+m.Name])
			}
		case *ast.Module:
			a.checkAll(n.Items)
		}
	}
}

func (a *Analyzer) checkFunction(fi *FuncInfo) {
	if fi == nil || fi.Node.Body == nil {
		return
	}
	n := fi.Node
	a.scope = a.global.Push()
	a.own = ownership.NewScope(nil)
	a.pure = fi.Effects.Pure
	a.returnTyp = fi.ReturnType

	var selfType *rtype.Type
	if fi.Receiver != "" {
		if st, ok := a.structs[fi.Receiver]; ok {
			selfType = st.Type
		} else {
			selfType = rtype.NewUnknown()
		}
	}

	pIdx := 0
	for _, p := range n.Params {
		if p.Name == "self" {
			a.scope.Define(&symtab.Symbol{Name: "self", Kind: symtab.KindParameter, Type: selfType})
			a.own.Declare("self")
			continue
		}
		a.scope.Define(&symtab.Symbol{Name: p.Name, Kind: symtab.KindParameter, Type: fi.ParamTypes[pIdx]})
		a.own.Declare(p.Name)
		pIdx++
	}

	for _, c := range n.Contracts {
		if c.Kind == ast.Ensures {
			a.checkEnsures(c)
			continue
		}
		a.checkContract(c)
	}

	a.checkBlock(n.Body)

	a.own.Release()
	a.scope = a.global
	a.own = nil
}

func (a *Analyzer) checkContract(c ast.Contract) {
	t := a.checkExpr(c.Expr)
	if t.Kind != rtype.Primitive || t.Prim != rtype.Bool {
		if t.Kind != rtype.Unknown {
			a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, c.Span, "bool", t.String()))
		}
	}
}

func (a *Analyzer) checkEnsures(c ast.Contract) {
	// ensures clauses see an additional binding `result` of the
	// function's declared return type.
	a.scope = a.scope.Push()
	a.scope.Define(&symtab.Symbol{Name: "result", Kind: symtab.KindVariable, Type: a.returnTyp})
	a.checkContract(c)
	a.scope = a.scope.Pop()
}
