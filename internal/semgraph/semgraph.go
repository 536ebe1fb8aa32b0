// Package semgraph builds a read-only graph of symbol, call, and
// contract edges from an already-checked program. It only builds and
// queries that graph; it proposes and applies no mutations. It does
// not drive any core invariant: nothing in internal/compiler imports
// this package.
//
// The Node/Edge/Graph shape is grounded on the teacher's
// internal/core.Result/ResultSet contracts (a language-agnostic match
// record plus a flat collection), repurposed here from tree-sitter
// matches to semantic-graph vertices.
package semgraph

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/sema"
)

// Kind distinguishes the universal node kinds a Graph can contain.
type Kind string

const (
	KindFunction Kind = "function"
	KindStruct   Kind = "struct"
	KindEnum     Kind = "enum"
)

// Node is one vertex: a function, struct, or enum declared in the
// checked program.
type Node struct {
	Kind      Kind
	Name      string
	Contracts int // count of requires/ensures/invariant clauses, when Kind == KindFunction
	Pure      bool
}

// EdgeKind distinguishes call edges from contract-reference edges.
type EdgeKind string

const (
	EdgeCall     EdgeKind = "call"
	EdgeContract EdgeKind = "contract_ref"
)

// Edge is a directed edge between two Node names.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Graph is the full read-only symbol/call/contract graph of one
// checked program.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Build walks a checked program's declarations and constructs the
// graph: one Node per function/struct/enum, one Edge per call site
// found in a function body, and one contract_ref Edge per distinct
// identifier referenced inside a requires/ensures/invariant clause.
func Build(prog *sema.Program) *Graph {
	g := &Graph{}

	for name, info := range prog.Structs {
		_ = info
		g.Nodes = append(g.Nodes, Node{Kind: KindStruct, Name: name})
	}
	for name, info := range prog.Enums {
		_ = info
		g.Nodes = append(g.Nodes, Node{Kind: KindEnum, Name: name})
	}
	for name, info := range prog.Funcs {
		g.Nodes = append(g.Nodes, Node{
			Kind:      KindFunction,
			Name:      name,
			Contracts: len(info.Node.Contracts),
			Pure:      info.Node.Effects.Pure,
		})

		if info.Node.Body != nil {
			for _, callee := range callees(info.Node.Body) {
				g.Edges = append(g.Edges, Edge{From: name, To: callee, Kind: EdgeCall})
			}
		}
		for _, c := range info.Node.Contracts {
			for _, ref := range identsIn(c.Expr) {
				g.Edges = append(g.Edges, Edge{From: name, To: ref, Kind: EdgeContract})
			}
		}
	}

	return g
}

// CallersOf returns every node name with a call edge into target.
func (g *Graph) CallersOf(target string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Kind == EdgeCall && e.To == target {
			out = append(out, e.From)
		}
	}
	return out
}

// CalleesOf returns every distinct call target reachable directly
// from caller.
func (g *Graph) CalleesOf(caller string) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range g.Edges {
		if e.Kind == EdgeCall && e.From == caller && !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}

// callees collects every direct call/method-call target name reached
// by walking body's expression tree.
func callees(body ast.Expr) []string {
	var out []string
	walk(body, func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.Call:
			if id, ok := n.Callee.(*ast.Ident); ok {
				out = append(out, id.Name)
			}
		case *ast.MethodCall:
			out = append(out, n.Name)
		}
	})
	return out
}

// identsIn collects every distinct identifier name referenced in e.
func identsIn(e ast.Expr) []string {
	var out []string
	seen := map[string]bool{}
	walk(e, func(x ast.Expr) {
		if id, ok := x.(*ast.Ident); ok && !seen[id.Name] {
			seen[id.Name] = true
			out = append(out, id.Name)
		}
	})
	return out
}

// walk visits e and every expression reachable from it, calling visit
// on each node including e itself. It covers every expression shape
// internal/ast defines; shapes with no sub-expressions are leaves.
func walk(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)

	switch n := e.(type) {
	case *ast.Block:
		for _, s := range n.Stmts {
			walkStmt(s, visit)
		}
	case *ast.Binary:
		walk(n.Left, visit)
		walk(n.Right, visit)
	case *ast.Unary:
		walk(n.X, visit)
	case *ast.Call:
		walk(n.Callee, visit)
		for _, a := range n.Args {
			walk(a, visit)
		}
	case *ast.Field:
		walk(n.X, visit)
	case *ast.MethodCall:
		walk(n.Recv, visit)
		for _, a := range n.Args {
			walk(a, visit)
		}
	case *ast.Index:
		walk(n.X, visit)
		walk(n.Idx, visit)
	case *ast.If:
		walk(n.Cond, visit)
		walk(n.Then, visit)
		walk(n.Else, visit)
	case *ast.Match:
		walk(n.Subject, visit)
		for _, arm := range n.Arms {
			walk(arm.Pattern, visit)
			walk(arm.Guard, visit)
			walk(arm.Body, visit)
		}
	case *ast.Loop:
		walk(n.Body, visit)
	case *ast.While:
		walk(n.Cond, visit)
		walk(n.Body, visit)
	case *ast.For:
		walk(n.Iter, visit)
		walk(n.Body, visit)
	case *ast.StructLit:
		for _, f := range n.Fields {
			walk(f.Expr, visit)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			walk(el, visit)
		}
	case *ast.TupleLit:
		for _, el := range n.Elems {
			walk(el, visit)
		}
	case *ast.Ref:
		walk(n.X, visit)
	case *ast.Deref:
		walk(n.X, visit)
	case *ast.Cast:
		walk(n.X, visit)
	case *ast.Range:
		walk(n.Start, visit)
		walk(n.End, visit)
	case *ast.Unsafe:
		walk(n.Body, visit)
	case *ast.Asm:
		for _, op := range n.Operands {
			walk(op.Expr, visit)
		}
	case *ast.Try:
		walk(n.X, visit)
	case *ast.Closure:
		walk(n.Body, visit)
	}
}

func walkStmt(s ast.Stmt, visit func(ast.Expr)) {
	switch n := s.(type) {
	case *ast.Let:
		walk(n.Init, visit)
	case *ast.ExprStmt:
		walk(n.X, visit)
	case *ast.Return:
		walk(n.Value, visit)
	}
}

// Index looks up a function's dependency-free field set at a glance.
type Index struct{ byName map[string]*Node }

// NewIndex builds a name->Node lookup over g for quick single-node
// queries, grounded on the teacher's ResultSet index map.
func NewIndex(g *Graph) *Index {
	idx := &Index{byName: make(map[string]*Node, len(g.Nodes))}
	for i := range g.Nodes {
		idx.byName[g.Nodes[i].Name] = &g.Nodes[i]
	}
	return idx
}

// Lookup returns the node registered under name, if any.
func (idx *Index) Lookup(name string) (*Node, bool) {
	n, ok := idx.byName[name]
	return n, ok
}
