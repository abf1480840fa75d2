// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package pjos provides a convenient incremental interface to the CDCL
// solver: streaming clause input, per-solve assumptions, model and failed
// assumption extraction, and background solving.
package pjos

import (
	"io"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/dimacs"
	"github.com/protopopov1122/pjos/inter"
	"github.com/protopopov1122/pjos/solver"
	"github.com/protopopov1122/pjos/z"
)

// Solver is a concrete implementation of inter.S backed by the CDCL
// engine.
type Solver struct {
	cdcl    *solver.CdclSolver
	builder cnf.ClauseBuilder
	assumes []z.Lit
	failed  []z.Lit
	maxVar  z.Var
}

// New creates a new solver over an empty formula.
func New() *Solver {
	return &Solver{cdcl: solver.NewCdcl(nil)}
}

// NewDimacs creates a new solver from DIMACS formatted input.
func NewDimacs(r io.Reader) (*Solver, error) {
	f := &cnf.Formula{}
	if _, err := dimacs.ReadInto(r, f); err != nil {
		return nil, err
	}
	s := &Solver{cdcl: solver.NewCdcl(f)}
	s.maxVar = f.MaxVar()
	return s, nil
}

var _ inter.S = &Solver{}

// Add implements inter.S.  To add a clause (x + y + z), one calls
//
//	s.Add(x)
//	s.Add(y)
//	s.Add(z)
//	s.Add(0)
func (s *Solver) Add(m z.Lit) {
	if m == z.LitNull {
		s.cdcl.AppendClause(s.builder.Make())
		if mv := s.cdcl.Formula().MaxVar(); mv > s.maxVar {
			s.maxVar = mv
		}
		return
	}
	if v := m.Var(); v > s.maxVar {
		s.maxVar = v
	}
	s.builder.Add(m)
}

// Assume causes the solver to assume ms true for the next call to Solve.
// Assumptions are consumed by Solve; if the result is unsat, Why gives a
// subset of inconsistent assumptions.
func (s *Solver) Assume(ms ...z.Lit) {
	for _, m := range ms {
		if v := m.Var(); v > s.maxVar {
			s.maxVar = v
		}
	}
	s.assumes = append(s.assumes, ms...)
}

// Solve solves the added clauses under the accumulated assumptions.  It
// returns 1 if sat, -1 if unsat, and 0 if interrupted.
func (s *Solver) Solve() int {
	ms := s.consumeAssumes()
	st, failed := s.cdcl.SolveFinal(ms...)
	s.failed = failed
	return st.Int()
}

// GoSolve provides a connection to Solve() running in another goroutine.
func (s *Solver) GoSolve() inter.Solve {
	ms := s.consumeAssumes()
	return solver.GoSolve(s.cdcl, func() solver.Status {
		st, failed := s.cdcl.SolveFinal(ms...)
		s.failed = failed
		return st
	})
}

func (s *Solver) consumeAssumes() []z.Lit {
	ms := s.assumes
	s.assumes = nil
	return ms
}

// Value returns the truth value of the literal m under the model found by
// the last Satisfied solve.
func (s *Solver) Value(m z.Lit) bool {
	assn := s.cdcl.Assignment()
	if int(m.Var()) > assn.Len() {
		return false
	}
	return assn.IsTrue(m)
}

// Why appends to dst the failed assumptions: a subset of assumptions
// sufficient for the last UNSAT result.
func (s *Solver) Why(dst []z.Lit) []z.Lit {
	return append(dst, s.failed...)
}

// MaxVar returns the maximum variable added or assumed.
func (s *Solver) MaxVar() z.Var {
	return s.maxVar
}

// Lit returns the positive literal of a fresh variable.
func (s *Solver) Lit() z.Lit {
	s.maxVar++
	return s.maxVar.Pos()
}

// Status reports the externally observable solver status.
func (s *Solver) Status() solver.Status {
	return s.cdcl.Status()
}

// Cdcl exposes the underlying engine for parameter tuning and callbacks.
func (s *Solver) Cdcl() *solver.CdclSolver {
	return s.cdcl
}
