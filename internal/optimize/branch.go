package optimize

import "github.com/aetherlang/aethc/internal/ir"

// simplifyBranches rewrites a conditional branch on a constant-bool
// condition to an unconditional jump to the selected target (§4.6).
func simplifyBranches(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		t := b.Term
		if t == nil || t.Kind != ir.TermBranch || t.Cond.Kind != ir.VConstBool {
			continue
		}
		target := t.ElseBlk
		if t.Cond.BoolVal {
			target = t.ThenBlk
		}
		b.Term = &ir.Terminator{Kind: ir.TermJump, Target: target}
		changed = true
	}
	return changed
}
