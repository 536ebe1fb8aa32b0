package sema

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/ownership"
	"github.com/aetherlang/aethc/internal/rtype"
	"github.com/aetherlang/aethc/internal/symtab"
)

func (a *Analyzer) checkBlock(b *ast.Block) {
	a.scope = a.scope.Push()
	parentOwn := a.own
	a.own = ownership.NewScope(parentOwn)
	for _, s := range b.Stmts {
		a.checkStmt(s)
	}
	a.own.Release()
	a.own = parentOwn
	a.scope = a.scope.Pop()
}

func (a *Analyzer) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Let:
		var t *rtype.Type
		if n.Init != nil {
			t = a.checkValueUse(n.Init)
		} else {
			t = rtype.NewUnknown()
		}
		declared := t
		if n.Type != nil {
			declared = a.resolveType(n.Type)
			if n.Init != nil && !rtype.Compatible(declared, t) {
				a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, n.Span, declared.String(), t.String()))
			}
		}
		a.scope.Define(&symtab.Symbol{Name: n.Name, Kind: symtab.KindVariable, Type: declared, Span: n.Span, Mutable: n.Mut})
		a.own.Declare(n.Name)
	case *ast.ExprStmt:
		a.checkExpr(n.X)
	case *ast.Return:
		if n.Value != nil {
			t := a.checkValueUse(n.Value)
			if a.returnTyp != nil && !rtype.Compatible(a.returnTyp, t) {
				a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, n.Span, a.returnTyp.String(), t.String()))
			}
		}
	case *ast.Break, *ast.Continue, *ast.Empty:
		// no type-checking obligations
	}
}
