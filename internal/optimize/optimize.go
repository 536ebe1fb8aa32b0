// Package optimize runs a fixed-point loop of pure-functional passes
// over an IR module: constant folding, algebraic simplification,
// branch simplification, and dead-block clearing.
package optimize

import "github.com/aetherlang/aethc/internal/ir"

const maxIterations = 10

// pass rewrites a single function in place and reports whether it
// changed anything.
type pass func(fn *ir.Function) bool

// passes runs in folding -> DCE -> branch-simplification order.
// Running to a fixed point makes the order within the set
// unimportant for correctness.
var passes = []pass{
	foldConstants,
	clearDeadBlocks,
	simplifyBranches,
}

// Run optimizes mod in place, iterating every function's pass list to
// a fixed point (capped at maxIterations, guaranteed by the
// strictly-simplifying nature of each rewrite).
func Run(mod *ir.Module) {
	for _, fn := range mod.Funcs {
		optimizeFunction(fn)
	}
}

func optimizeFunction(fn *ir.Function) {
	for i := 0; i < maxIterations; i++ {
		changed := false
		for _, p := range passes {
			if p(fn) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}
