// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package ipasir mirrors the de-facto incremental SAT solver interface over
// the CDCL engine: an opaque handle with literal-stream clause input,
// per-solve assumptions, result codes 0/10/20, model and failed-assumption
// queries, and termination/learn callbacks.
//
// Every method of a handle other than Release catches panics at the
// boundary, logs them, and returns a neutral value, so a misuse cannot take
// down the embedding process.  Signature, Init and Release have no guard.
package ipasir

import (
	"github.com/sirupsen/logrus"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/solver"
	"github.com/protopopov1122/pjos/z"
)

// Solve result codes.
const (
	ResUnknown = 0
	ResSat     = 10
	ResUnsat   = 20
)

// Solver is an opaque incremental solver handle.
type Solver struct {
	cdcl     *solver.CdclSolver
	builder  cnf.ClauseBuilder
	assumes  []z.Lit
	conflict []z.Lit
	released bool
	log      logrus.FieldLogger
}

// Signature identifies the underlying engine.
func Signature() string {
	return solver.SignatureCdcl()
}

// Init creates a fresh solver handle.
func Init() *Solver {
	return &Solver{
		cdcl: solver.NewCdcl(nil),
		log:  logrus.StandardLogger(),
	}
}

// Release invalidates the handle.  Using a released handle yields neutral
// results.
func (s *Solver) Release() {
	s.released = true
	s.cdcl = nil
	s.assumes = nil
	s.conflict = nil
}

func (s *Solver) guard(name string) {
	if r := recover(); r != nil {
		s.log.WithField("op", name).Errorf("ipasir: %v", r)
	}
}

// Add appends a literal to the clause under construction; 0 finalizes the
// clause and adds it to the solver.
func (s *Solver) Add(litOrZero int) {
	defer s.guard("add")
	if s.released {
		return
	}
	if litOrZero != 0 {
		s.builder.Add(z.Dimacs2Lit(litOrZero))
		return
	}
	s.cdcl.AppendClause(s.builder.Make())
}

// Assume adds an assumption for the next Solve call.
func (s *Solver) Assume(lit int) {
	defer s.guard("assume")
	if s.released {
		return
	}
	s.assumes = append(s.assumes, z.Dimacs2Lit(lit))
}

// Solve decides satisfiability under the accumulated assumptions, which are
// consumed by the call.  It returns ResSat, ResUnsat or ResUnknown.
func (s *Solver) Solve() int {
	defer s.guard("solve")
	if s.released {
		return ResUnknown
	}
	ms := s.assumes
	s.assumes = nil
	st, conflict := s.cdcl.SolveFinal(ms...)
	s.conflict = conflict
	switch st {
	case solver.Satisfied:
		return ResSat
	case solver.Unsatisfied:
		return ResUnsat
	}
	return ResUnknown
}

// Val returns the value of lit in the model of the last Satisfied solve:
// lit if satisfied, -lit if falsified, 0 if unassigned.
func (s *Solver) Val(lit int) int {
	defer s.guard("val")
	if s.released {
		return 0
	}
	m := z.Dimacs2Lit(lit)
	if int(m.Var()) > s.cdcl.Assignment().Len() {
		return 0
	}
	val := s.cdcl.Assignment().Val(m.Var())
	switch {
	case val == z.Unassigned:
		return 0
	case m.Eval(val):
		return lit
	}
	return -lit
}

// Failed reports whether lit is part of the final conflict of the last
// Unsatisfied solve: 1 if so, 0 otherwise.
func (s *Solver) Failed(lit int) int {
	defer s.guard("failed")
	if s.released {
		return 0
	}
	m := z.Dimacs2Lit(lit)
	for _, n := range s.conflict {
		if n == m {
			return 1
		}
	}
	return 0
}

// SetTerminate installs a callback polled during solving; a true return
// cancels the solve.  A nil callback uninstalls.
func (s *Solver) SetTerminate(fn func() bool) {
	defer s.guard("set_terminate")
	if s.released {
		return
	}
	s.cdcl.InterruptOn(fn)
}

// SetLearn installs a callback receiving every learned clause of length at
// most maxLen as DIMACS integers.  A nil callback uninstalls.
func (s *Solver) SetLearn(maxLen int, fn func([]int)) {
	defer s.guard("set_learn")
	if s.released {
		return
	}
	if fn == nil {
		s.cdcl.OnLearnedClause(nil)
		return
	}
	s.cdcl.OnLearnedClause(func(c *cnf.Clause) {
		if c.Len() > maxLen {
			return
		}
		out := make([]int, 0, c.Len())
		for _, m := range c.Lits() {
			out = append(out, m.Dimacs())
		}
		fn(out)
	})
}
