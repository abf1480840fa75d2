// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package solver

import (
	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/z"
)

// DpllSolver is a plain DPLL solver with chronological backtracking and
// trivial branching.  It shares the propagation machinery with the CDCL
// solver and has most optimizations turned off, which makes it a useful
// baseline containing (hopefully) fewer bugs than the more sophisticated
// engine.
type DpllSolver struct {
	Base
}

// NewDpll creates a DPLL solver over formula.  The formula must not change
// for the lifetime of the solver.
func NewDpll(formula *cnf.Formula) *DpllSolver {
	return &DpllSolver{Base: newBase(formula)}
}

// SignatureDpll identifies the DPLL engine and version.
func SignatureDpll() string {
	return Identifier + " (DPLL) " + Version
}

// Solve decides satisfiability of the formula under the given assumptions.
// Assumptions are consumed by the call.
func (s *DpllSolver) Solve(ms ...z.Lit) Status {
	for _, m := range ms {
		if int(m.Var()) > s.assn.Len() {
			s.growToVar(int(m.Var()))
		}
	}
	s.preSolve()
	s.saveAssumptions(ms)
	st := s.search()
	s.status.Store(int32(st))
	s.log.WithField("status", st).Debug("dpll solve finished")
	return st
}

func (s *DpllSolver) search() Status {
	for {
		if s.interrupted() {
			return Unknown
		}

		res, _ := s.propagate()
		if res == propSat {
			return Satisfied
		} else if res == propUnsat {
			// Undo propagations and assumptions up to the last decision,
			// then flip it.  With no decision left the problem is
			// unsatisfiable under the assumptions.
			var v z.Var
			var val z.Val
			undoing := true
			for undoing {
				e := s.trail.Top()
				if e == nil {
					return Unsatisfied
				}
				v = e.Var
				if e.Reason != ReasonDecision {
					s.assign(v, z.Unassigned)
				} else {
					undoing = false
					val = e.Val
				}
				s.trail.Pop()
			}
			flipped := val.Flip()
			s.trail.Propagation(v, flipped)
			s.assign(v, flipped)
		} else if s.pendingHead == len(s.pending) {
			// No pending assignments; branch on the highest unassigned
			// variable.
			for v := z.Var(s.assn.Len()); v > 0; v-- {
				if s.assn.Val(v) == z.Unassigned {
					s.trail.Decision(v, z.True)
					s.assign(v, z.True)
					break
				}
			}
		} else {
			p := s.pending[s.pendingHead]
			s.pendingHead++
			if !s.performPending(p) {
				return Unsatisfied
			}
		}
	}
}

// ModifiableDpllSolver is a DPLL solver owning its formula, so clauses can
// be appended and removed between solves.
type ModifiableDpllSolver struct {
	DpllSolver
	owned *cnf.Formula
}

// NewModifiableDpll creates a modifiable DPLL solver taking ownership of
// formula.  A nil formula starts empty.
func NewModifiableDpll(formula *cnf.Formula) *ModifiableDpllSolver {
	if formula == nil {
		formula = &cnf.Formula{}
	}
	s := &ModifiableDpllSolver{owned: formula}
	s.DpllSolver = DpllSolver{Base: newBase(formula)}
	return s
}

// AppendClause adds c to the owned formula and attaches it to the solver
// state.
func (s *ModifiableDpllSolver) AppendClause(c *cnf.Clause) *cnf.Clause {
	s.owned.Append(c)
	s.attachClause(s.owned.Len()-1, c)
	return c
}

// RemoveClause detaches and removes the clause at index i.
func (s *ModifiableDpllSolver) RemoveClause(i int) bool {
	if i < 0 || i >= s.owned.Len() {
		return false
	}
	s.detachClause(i, s.owned.At(i))
	return s.owned.Remove(i)
}
