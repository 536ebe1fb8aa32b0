// Package ownership implements the per-scope move/borrow bookkeeping
// that backs analyzer's ownership checking.
//
// The release policy is structural, not flow-sensitive: borrows taken
// by names local to a scope are released in one pass when that scope
// exits, rather than being tracked per control-flow edge. This is a
// deliberate simplification that a flow-sensitive checker is free to
// strengthen as long as it still accepts every program this design
// accepts.
package ownership

import "github.com/aetherlang/aethc/internal/diag"

// State is the sum type a variable's ownership can be in at any
// point: owned, moved, immutably borrowed (with a counter), or
// mutably borrowed.
type State int

const (
	Owned State = iota
	Moved
	BorrowedImmutable
	BorrowedMutable
)

// VarState tracks one variable's current ownership state.
type VarState struct {
	Name          string
	State         State
	ImmutBorrows  int
}

// Scope tracks the ownership state of every variable declared
// directly in one function scope.
type Scope struct {
	parent *Scope
	vars   map[string]*VarState
	// locals is the declaration order of vars owned by this scope,
	// needed so Release only touches scope-local names.
	locals []string
}

// NewScope creates a child ownership scope. Pass nil for a function's
// top-level scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]*VarState)}
}

// Declare records name as newly owned in this scope (a `let` binding
// or parameter binding).
func (s *Scope) Declare(name string) {
	vs := &VarState{Name: name, State: Owned}
	s.vars[name] = vs
	s.locals = append(s.locals, name)
}

func (s *Scope) find(name string) *VarState {
	for cur := s; cur != nil; cur = cur.parent {
		if vs, ok := cur.vars[name]; ok {
			return vs
		}
	}
	return nil
}

// Move marks name moved, failing if it is already moved or currently
// borrowed.
func (s *Scope) Move(name string) *diag.Kind {
	vs := s.find(name)
	if vs == nil {
		return nil // undefined names are a name-resolution concern, not ownership
	}
	switch vs.State {
	case Moved:
		k := diagUseAfterMove
		return &k
	case BorrowedImmutable:
		k := diagMoveOutOfBorrow
		return &k
	case BorrowedMutable:
		k := diagMoveOutOfBorrow
		return &k
	}
	vs.State = Moved
	return nil
}

// BorrowImmutable performs `&x`: fails if x is moved or mutably
// borrowed; otherwise increments the immutable-borrow counter.
func (s *Scope) BorrowImmutable(name string) *diag.Kind {
	vs := s.find(name)
	if vs == nil {
		return nil
	}
	switch vs.State {
	case Moved:
		k := diagUseAfterMove
		return &k
	case BorrowedMutable:
		k := diagImmutableWhileMut
		return &k
	}
	vs.State = BorrowedImmutable
	vs.ImmutBorrows++
	return nil
}

// BorrowMutable performs `&mut x`: fails if x is moved, immutably
// borrowed, or already mutably borrowed.
func (s *Scope) BorrowMutable(name string) *diag.Kind {
	vs := s.find(name)
	if vs == nil {
		return nil
	}
	switch vs.State {
	case Moved:
		k := diagUseAfterMove
		return &k
	case BorrowedImmutable:
		k := diagMutWhileImmutable
		return &k
	case BorrowedMutable:
		k := diagDoubleMutableBorrow
		return &k
	}
	vs.State = BorrowedMutable
	return nil
}

// CheckMoved reports whether name has already been moved, without
// otherwise changing its state. Used for place-expressions (field
// access, method receivers, indexing) that read through a name
// without consuming it the way a by-value use does.
func (s *Scope) CheckMoved(name string) *diag.Kind {
	vs := s.find(name)
	if vs == nil {
		return nil
	}
	if vs.State == Moved {
		k := diagUseAfterMove
		return &k
	}
	return nil
}

// Release releases borrows held by names local to this scope, called
// on scope exit. Moved state is left as-is: moving out of an inner
// scope still consumes the outer binding it closed over, matching the
// structural, not flow-sensitive, release policy.
func (s *Scope) Release() {
	for _, name := range s.locals {
		vs := s.vars[name]
		if vs.State == BorrowedImmutable || vs.State == BorrowedMutable {
			vs.State = Owned
			vs.ImmutBorrows = 0
		}
	}
}

// All returns every tracked variable's final state, used to verify
// the ownership-totality invariant: after analyzing a function,
// every local is in exactly one of
// {owned-available, moved, immutably-borrowed(n>=1), mutably-borrowed}.
func (s *Scope) All() []VarState {
	out := make([]VarState, 0, len(s.vars))
	for _, vs := range s.vars {
		out = append(out, *vs)
	}
	return out
}

// Local aliases of package diag's ownership Kind constants. The
// methods above return five of them; diagMoveWhileBorrowed and
// diagCannotBorrowMutably are not returned by this package.
const (
	diagUseAfterMove        = diag.KindUseAfterMove
	diagMoveWhileBorrowed   = diag.KindMoveWhileBorrowed
	diagMutWhileImmutable   = diag.KindMutWhileImmutable
	diagImmutableWhileMut   = diag.KindImmutableWhileMut
	diagDoubleMutableBorrow = diag.KindDoubleMutableBorrow
	diagMoveOutOfBorrow     = diag.KindMoveOutOfBorrow
	diagCannotBorrowMutably = diag.KindCannotBorrowMutably
)
