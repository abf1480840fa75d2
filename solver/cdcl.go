// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package solver

import (
	"sort"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/z"
)

// Parameters toggle the CDCL solver's optional behaviors.
type Parameters struct {
	PureLiteralElim bool
	PhaseSaving     bool
}

// DefaultParameters enables all optional behaviors.
func DefaultParameters() Parameters {
	return Parameters{PureLiteralElim: true, PhaseSaving: true}
}

// markings of trail assignments during conflict analysis
type trackState int8

const (
	trackUntracked trackState = iota
	trackPending
	trackProcessed
)

// CdclSolver is a conflict-driven clause learning solver.  On every
// conflict it derives a first-UIP learned clause, appends it to the owned
// formula through the regular attach path, and backjumps
// non-chronologically.  Decisions come from an EVSIDS activity queue with
// optional phase saving; solving under assumptions yields a final conflict,
// a subset of the assumptions responsible for unsatisfiability.
type CdclSolver struct {
	Base
	owned  *cnf.Formula
	params Parameters

	track         []trackState
	learned       cnf.ClauseBuilder
	evsids        *Evsids
	savedPhases   cnf.Assignment
	alloc         cnf.Alloc
	finalConflict map[z.Lit]struct{}
	onLearned     func(*cnf.Clause)
}

// NewCdcl creates a CDCL solver taking ownership of formula, with default
// scoring.  A nil formula starts empty.
func NewCdcl(formula *cnf.Formula) *CdclSolver {
	return NewCdclScoring(formula, DefaultScoring())
}

// NewCdclScoring creates a CDCL solver with explicit EVSIDS scoring
// parameters.
func NewCdclScoring(formula *cnf.Formula, scoring ScoringParams) *CdclSolver {
	if formula == nil {
		formula = &cnf.Formula{}
	}
	s := &CdclSolver{
		owned:         formula,
		params:        DefaultParameters(),
		finalConflict: make(map[z.Lit]struct{}),
	}
	s.Base = newBase(formula)
	n := int(formula.MaxVar())
	s.track = make([]trackState, n)
	s.savedPhases = cnf.NewAssignment(n)
	s.evsids = newEvsids(formula, &s.assn, scoring)
	s.onAssign = func(v z.Var, _ z.Val) { s.evsids.VariableAssigned(v) }
	return s
}

// SignatureCdcl identifies the CDCL engine and version.
func SignatureCdcl() string {
	return Identifier + " (CDCL) " + Version
}

// Params returns the solver's tunable parameters for modification before a
// solve.
func (s *CdclSolver) Params() *Parameters {
	return &s.params
}

// OnLearnedClause registers fn to be notified of every learned clause.  A
// nil fn unregisters.
func (s *CdclSolver) OnLearnedClause(fn func(*cnf.Clause)) {
	s.onLearned = fn
}

// AppendClause adds c to the owned formula and attaches it to the solver
// state.  Learned clauses go through the same path, which makes them
// indistinguishable from user input once attached.
func (s *CdclSolver) AppendClause(c *cnf.Clause) *cnf.Clause {
	s.owned.Append(c)
	s.attach(s.owned.Len()-1, c)
	return c
}

// RemoveClause detaches and removes the clause at index i.
func (s *CdclSolver) RemoveClause(i int) bool {
	if i < 0 || i >= s.owned.Len() {
		return false
	}
	s.detach(i, s.owned.At(i))
	return s.owned.Remove(i)
}

func (s *CdclSolver) attach(ci int, c *cnf.Clause) {
	s.attachClause(ci, c)
	for len(s.track) < int(s.formula.MaxVar()) {
		s.track = append(s.track, trackUntracked)
	}
	s.evsids.FormulaUpdated()
	s.savedPhases.Resize(int(s.formula.MaxVar()))
}

func (s *CdclSolver) detach(ci int, c *cnf.Clause) {
	s.detachClause(ci, c)
	if n := int(s.formula.MaxVar()); len(s.track) > n {
		s.track = s.track[:n]
	}
	s.evsids.FormulaUpdated()
	s.savedPhases.Resize(int(s.formula.MaxVar()))
}

// Solve decides satisfiability under the given assumptions, which are
// consumed by the call.
func (s *CdclSolver) Solve(ms ...z.Lit) Status {
	st, _ := s.run(ms, false)
	return st
}

// SolveFinal is Solve with final-conflict extraction: on Unsatisfied the
// second result holds a subset of the assumptions responsible, ordered by
// variable.
func (s *CdclSolver) SolveFinal(ms ...z.Lit) (Status, []z.Lit) {
	return s.run(ms, true)
}

// ensureVar makes the solver state cover v even if no clause mentions it,
// so that assumptions over fresh variables are representable.  The variable
// is introduced by a tautological clause through the regular attach path.
func (s *CdclSolver) ensureVar(v z.Var) {
	if int(v) <= int(s.formula.MaxVar()) {
		return
	}
	var b cnf.ClauseBuilder
	s.AppendClause(b.Add(v.Pos()).Add(v.Neg()).Make())
}

func (s *CdclSolver) run(ms []z.Lit, analyzeFinal bool) (Status, []z.Lit) {
	for _, m := range ms {
		s.ensureVar(m.Var())
	}
	s.preSolve()
	s.evsids.rebuild()
	for m := range s.finalConflict {
		delete(s.finalConflict, m)
	}
	s.saveAssumptions(ms)

	st := s.search(analyzeFinal)
	s.status.Store(int32(st))

	var conflict []z.Lit
	if st == Unsatisfied && analyzeFinal {
		for m := range s.finalConflict {
			conflict = append(conflict, m)
		}
		sort.Slice(conflict, func(i, j int) bool {
			vi, vj := conflict[i].Var(), conflict[j].Var()
			return vi < vj || (vi == vj && conflict[i] < conflict[j])
		})
	}
	s.log.WithField("status", st).Debug("cdcl solve finished")
	return st, conflict
}

func (s *CdclSolver) search(analyzeFinal bool) Status {
	if s.params.PureLiteralElim {
		s.scanPureLiterals()
	}

	assumptions := 0
	for {
		if s.interrupted() {
			return Unknown
		}

		res, conflictClause := s.propagate()
		if res == propSat {
			// Propagation satisfied the formula; assumptions still queued
			// must hold in the model.
			if m, ok := s.verifyPending(); !ok {
				if analyzeFinal {
					s.analyzeFinalConflict([]z.Lit{m}, true)
				}
				return Unsatisfied
			}
			return Satisfied
		} else if res == propUnsat {
			if s.trail.Level() == 0 {
				// No decisions or assumptions involved: unconditionally
				// unsatisfiable.
				if analyzeFinal {
					s.analyzeFinalConflict(s.formula.At(conflictClause).Lits(), false)
				}
				return Unsatisfied
			}

			conflict := s.formula.At(conflictClause)
			learned, backjumpLevel := s.analyzeConflict(conflict)
			s.AppendClause(learned)
			if s.onLearned != nil {
				s.onLearned(learned)
			}

			if backjumpLevel < assumptions || !s.backjump(backjumpLevel) {
				// Backjumping would undo an assumption: unsatisfiable under
				// the assumptions.
				if analyzeFinal {
					s.analyzeFinalConflict(conflict.Lits(), false)
				}
				return Unsatisfied
			}
			s.evsids.NextIteration()
		} else if s.pendingHead == len(s.pending) {
			v := s.evsids.PopVariable()
			if v == z.VarNull || s.assn.Val(v) != z.Unassigned {
				panic("decision queue out of sync with assignment")
			}
			val := z.True
			if s.params.PhaseSaving && s.savedPhases.Val(v) != z.Unassigned {
				val = s.savedPhases.Val(v)
			}
			s.trail.Decision(v, val)
			s.assign(v, val)
		} else {
			p := s.pending[s.pendingHead]
			s.pendingHead++
			if !s.performPending(p) {
				if analyzeFinal {
					s.analyzeFinalConflict([]z.Lit{z.MkLit(p.v, p.val)}, true)
				}
				return Unsatisfied
			}
			if p.assumption {
				assumptions++
			}
		}
	}
}

// analyzeConflict derives a first-UIP learned clause from the conflict and
// the backjump level to apply it at.  It walks the trail backwards through
// the implication subgraph delimited by the current decision level: only
// assignments at that level are expanded, everything below contributes its
// negation to the learned clause.
func (s *CdclSolver) analyzeConflict(conflict *cnf.Clause) (*cnf.Clause, int) {
	for i := range s.track {
		s.track[i] = trackUntracked
	}

	clause := conflict
	ti := s.trail.Len() - 1
	paths := 1
	backjumpLevel := 0
	var uip *TrailEntry
	for {
		for _, m := range clause.Lits() {
			v := m.Var()
			if s.track[v-1] != trackUntracked {
				continue
			}
			e := s.trail.Find(v)
			if e.Level >= s.trail.Level() {
				s.track[v-1] = trackPending
				paths++
			} else {
				s.learned.Add(z.MkLit(v, e.Val.Flip()))
				if e.Level > backjumpLevel {
					backjumpLevel = e.Level
				}
			}
			s.evsids.VariableActive(v)
		}
		paths--

		for s.track[s.trail.At(ti).Var-1] != trackPending {
			ti--
		}
		e := s.trail.At(ti)
		s.track[e.Var-1] = trackProcessed
		if e.Reason.FromClause() {
			clause = s.formula.At(int(e.Reason))
		}
		if paths <= 1 {
			// The entry reached with one path left, whether propagated or
			// decided, is the first unique implication point.
			uip = e
			break
		}
	}

	s.learned.Add(z.MkLit(uip.Var, uip.Val.Flip()))
	s.evsids.VariableActive(uip.Var)
	if backjumpLevel == 0 && uip.Level-1 > backjumpLevel {
		backjumpLevel = uip.Level - 1
	}

	return s.learned.MakeIn(&s.alloc), backjumpLevel
}

// backjump undoes all assignments above level.  It refuses to pop an
// assumption entry; assumptions must hold for the whole solve.
func (s *CdclSolver) backjump(level int) bool {
	for s.trail.Level() > level {
		e := s.trail.Top()
		if e == nil {
			return false
		}
		if e.Reason == ReasonAssumption && e.Level > level {
			return false
		}
		if s.params.PhaseSaving && e.Reason == ReasonDecision && e.Level > level {
			// Decisions above the backjump level did not cause the
			// conflict; their phases are worth retrying.
			s.savedPhases.Set(e.Var, e.Val)
		}
		s.assign(e.Var, z.Unassigned)
		s.trail.Pop()
	}
	return true
}

// analyzeFinalConflict walks the implication graph backwards from the
// conflicting literals and collects the assumptions it reaches into the
// final conflict.  assumptionClause marks the input as a synthetic
// single-assumption clause rather than a formula clause.
func (s *CdclSolver) analyzeFinalConflict(ms []z.Lit, assumptionClause bool) {
	for i := range s.track {
		s.track[i] = trackUntracked
	}

	pending := s.markFinalConflict(ms, assumptionClause)
	ti := s.trail.Len() - 1
	for pending > 0 {
		for s.track[s.trail.At(ti).Var-1] != trackPending {
			ti--
		}
		e := s.trail.At(ti)
		s.track[e.Var-1] = trackProcessed
		pending--

		if e.Reason.FromClause() {
			pending += s.markFinalConflict(s.formula.At(int(e.Reason)).Lits(), false)
		} else if e.Reason == ReasonAssumption {
			s.finalConflict[z.MkLit(e.Var, e.Val)] = struct{}{}
		}
	}
}

// markFinalConflict scans a clause, marking propagated assignments for
// further analysis and collecting assumptions directly.  For a synthetic
// assumption clause the literals themselves are assumptions and enter the
// conflict as supplied; the assignment they contradict is chased through
// its reasons so that the collected set stays sufficient for
// unsatisfiability.
func (s *CdclSolver) markFinalConflict(ms []z.Lit, assumptionClause bool) int {
	pending := 0
	for _, m := range ms {
		v := m.Var()
		if s.track[v-1] != trackUntracked {
			continue
		}
		e := s.trail.Find(v)
		if e == nil {
			continue
		}
		if assumptionClause {
			s.finalConflict[m] = struct{}{}
			if e.Reason.FromClause() {
				s.track[v-1] = trackPending
				pending++
			} else if e.Reason == ReasonAssumption {
				s.finalConflict[z.MkLit(e.Var, e.Val)] = struct{}{}
			}
			continue
		}
		if e.Reason.FromClause() {
			s.track[v-1] = trackPending
			pending++
		} else if e.Reason == ReasonAssumption {
			s.finalConflict[z.MkLit(e.Var, e.Val)] = struct{}{}
		}
	}
	return pending
}
