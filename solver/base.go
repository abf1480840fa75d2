// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package solver implements the SAT solving engines: a CDCL solver with
// clause learning, non-chronological backjumping, EVSIDS decisions, phase
// saving and final-conflict extraction, and a simple DPLL solver sharing
// the same propagation machinery, useful as a reference oracle.
package solver

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/z"
)

const (
	// Identifier names the solver family in signatures and greetings.
	Identifier = "PJOS SAT Solver"
	// Version is the solver version reported by signatures and the CLI.
	Version = "v0.0.1"
)

// unit propagation outcomes
type unitResult int8

const (
	propSat unitResult = iota
	propUnsat
	propPass
)

const clauseUndef = -1

// variable polarity across the formula
type polarity int8

const (
	polarityNone polarity = iota
	polarityPurePos
	polarityPureNeg
	polarityMixed
)

// varIndexEntry lists the clauses a variable occurs in, by polarity.
type varIndexEntry struct {
	pos      []int
	neg      []int
	polarity polarity
}

// pendingEntry is an assignment queued for consumption between propagation
// passes: an assumption supplied by the caller, or a pure-literal proposal.
type pendingEntry struct {
	v          z.Var
	val        z.Val
	assumption bool
}

// Base carries the infrastructure shared by the solving engines: the
// variable occurrence index, per-clause watchers, the assignment, the
// decision trail, the pending assignment queue, interrupt handling and the
// atomically readable status.  Engines embed Base and drive it from their
// search loops.
type Base struct {
	formula     *cnf.Formula
	index       []varIndexEntry
	watchers    []Watcher
	assn        cnf.Assignment
	trail       Trail
	pending     []pendingEntry
	pendingHead int

	interrupt   atomic.Bool
	interruptFn func() bool
	status      atomic.Int32
	fresh       bool

	// engine hook observing every assignment, may be nil
	onAssign func(z.Var, z.Val)

	log logrus.FieldLogger
}

// newBase builds the shared state over formula, creating a watcher and
// index entries for every clause already present.
func newBase(formula *cnf.Formula) Base {
	n := int(formula.MaxVar())
	b := Base{
		formula: formula,
		index:   make([]varIndexEntry, n),
		assn:    cnf.NewAssignment(n),
		trail:   newTrail(n),
		fresh:   true,
		log:     logrus.StandardLogger(),
	}
	for i := 0; i < formula.Len(); i++ {
		c := formula.At(i)
		b.watchers = append(b.watchers, newWatcher(c))
		b.updateClauseIndex(i, c)
	}
	return b
}

// Formula returns the formula the solver operates on.  The formula must not
// be modified except through the solver's append/remove operations.
func (b *Base) Formula() *cnf.Formula {
	return b.formula
}

// Assignment returns the current assignment.  After a Satisfied solve it
// holds a model of the formula.
func (b *Base) Assignment() *cnf.Assignment {
	return &b.assn
}

// Status reports the externally observable solver status.  It is safe to
// call from other goroutines.
func (b *Base) Status() Status {
	return Status(b.status.Load())
}

// Interrupt requests the current solving process to stop.  It is up to the
// engine loop to check the flag at its safe points; the solver then exits
// with status Unknown and remains usable.
func (b *Base) Interrupt() {
	b.interrupt.Store(true)
}

// InterruptOn installs a predicate polled at the engine's safe points; when
// it returns true the solve exits with status Unknown.
func (b *Base) InterruptOn(fn func() bool) {
	b.interruptFn = fn
}

// SetLogger replaces the solver's logger.
func (b *Base) SetLogger(log logrus.FieldLogger) {
	b.log = log
}

func (b *Base) interrupted() bool {
	return b.interrupt.Load() || (b.interruptFn != nil && b.interruptFn())
}

// resetTerminalStatus moves Satisfied/Unsatisfied back to Unknown when the
// formula changes; Unknown and Solving are left alone.
func (b *Base) resetTerminalStatus() {
	for {
		cur := Status(b.status.Load())
		if cur == Unknown || cur == Solving {
			return
		}
		if b.status.CompareAndSwap(int32(cur), int32(Unknown)) {
			return
		}
	}
}

// assign writes val to v and fans the update out to all watchers of clauses
// mentioning v, via the occurrence index.
func (b *Base) assign(v z.Var, val z.Val) {
	b.assn.Set(v, val)
	e := &b.index[v-1]
	for _, ci := range e.pos {
		b.watchers[ci].Update(&b.assn, v, val, val == z.True)
	}
	for _, ci := range e.neg {
		b.watchers[ci].Update(&b.assn, v, val, val == z.False)
	}
	if b.onAssign != nil {
		b.onAssign(v, val)
	}
}

// propagate runs unit propagation to saturation.  It returns propUnsat with
// the conflicting clause index, propSat if every clause is satisfied, or
// propPass.  Within a pass, units are discovered in increasing clause-index
// order.
func (b *Base) propagate() (unitResult, int) {
	allSat := false
	again := true
	for again && !allSat {
		again = false
		allSat = true
		for i := 0; !again && i < len(b.watchers); i++ {
			w := &b.watchers[i]
			st := w.Status()
			allSat = allSat && st == ClauseSatisfied
			if st == ClauseUnit {
				first, _ := w.Watched()
				m := b.formula.At(i).Lit(first)
				v, val := m.Var(), m.Val()
				b.trail.PropagationAt(v, val, i)
				b.assign(v, val)
				again = true
			} else if st == ClauseUnsatisfied {
				return propUnsat, i
			}
		}
	}
	if allSat {
		return propSat, clauseUndef
	}
	return propPass, clauseUndef
}

// updateClauseIndex records clause ci in the occurrence lists of every
// variable it mentions and refreshes the polarity tags.
func (b *Base) updateClauseIndex(ci int, c *cnf.Clause) {
	for _, m := range c.Lits() {
		e := &b.index[m.Var()-1]
		if m.IsPos() {
			e.pos = append(e.pos, ci)
			switch e.polarity {
			case polarityNone:
				e.polarity = polarityPurePos
			case polarityPureNeg:
				e.polarity = polarityMixed
			}
		} else {
			e.neg = append(e.neg, ci)
			switch e.polarity {
			case polarityNone:
				e.polarity = polarityPureNeg
			case polarityPurePos:
				e.polarity = polarityMixed
			}
		}
	}
}

// growToVar extends the per-variable state to cover n variables.  The
// variable count never shrinks: clause removal does not lower the formula's
// maximum variable.
func (b *Base) growToVar(n int) {
	if n > b.assn.Len() {
		b.assn.Resize(n)
		b.trail.Resize(n)
	}
	for len(b.index) < n {
		b.index = append(b.index, varIndexEntry{})
	}
}

// attachClause is the callback fired when clause c joins the formula at
// index ci.  It resets a terminal status, extends the per-variable state,
// and creates a watcher in sync with the current assignment.
func (b *Base) attachClause(ci int, c *cnf.Clause) {
	b.resetTerminalStatus()
	b.growToVar(int(b.formula.MaxVar()))

	b.watchers = append(b.watchers, Watcher{})
	copy(b.watchers[ci+1:], b.watchers[ci:])
	b.watchers[ci] = newWatcher(c)
	b.updateClauseIndex(ci, c)
	b.watchers[ci].Rescan(&b.assn)
}

// detachClause is the callback fired when the clause at index ci leaves the
// formula.  Occurrence lists drop the clause and remap indices above it.
func (b *Base) detachClause(ci int, c *cnf.Clause) {
	b.resetTerminalStatus()
	b.growToVar(int(b.formula.MaxVar()))

	for vi := range b.index {
		e := &b.index[vi]
		e.pos = dropRemap(e.pos, ci)
		e.neg = dropRemap(e.neg, ci)
	}
	b.watchers = append(b.watchers[:ci], b.watchers[ci+1:]...)
}

// dropRemap removes ci from the list and shifts greater indices down.
func dropRemap(list []int, ci int) []int {
	j := 0
	for _, idx := range list {
		if idx == ci {
			continue
		}
		if idx > ci {
			idx--
		}
		list[j] = idx
		j++
	}
	return list[:j]
}

// scanPureLiterals proposes assignments for all unassigned variables which
// occur with a single polarity, queueing them as non-assumption pending
// entries.  Variables referenced by no clause are proposed true.
func (b *Base) scanPureLiterals() {
	for v := z.Var(1); int(v) <= int(b.formula.MaxVar()); v++ {
		if b.assn.Val(v) != z.Unassigned {
			continue
		}
		switch b.index[v-1].polarity {
		case polarityPurePos, polarityNone:
			b.pending = append(b.pending, pendingEntry{v: v, val: z.True})
		case polarityPureNeg:
			b.pending = append(b.pending, pendingEntry{v: v, val: z.False})
		}
	}
}

// saveAssumptions translates assumption literals into pending entries, in
// the order supplied.
func (b *Base) saveAssumptions(ms []z.Lit) {
	for _, m := range ms {
		b.pending = append(b.pending, pendingEntry{v: m.Var(), val: m.Val(), assumption: true})
	}
}

// performPending applies one pending entry.  Assumptions are enforced:
// assigning over a conflicting value fails.  Pure-literal proposals are
// recorded as decisions and skipped if the variable is already assigned.
// The return value indicates whether the entry was applied cleanly.
func (b *Base) performPending(p pendingEntry) bool {
	cur := b.assn.Val(p.v)
	if p.assumption {
		switch cur {
		case z.Unassigned:
			b.trail.Assumption(p.v, p.val)
			b.assign(p.v, p.val)
		case p.val:
			// already holds; record for level bookkeeping
			b.trail.Assumption(p.v, p.val)
		default:
			return false
		}
	} else if cur == z.Unassigned {
		b.trail.Decision(p.v, p.val)
		b.assign(p.v, p.val)
	}
	return true
}

// verifyPending checks that every not-yet-consumed assumption holds under
// the current assignment.  On violation it returns the assumption literal
// and false.  Used when propagation satisfies the formula before the
// pending queue drains.
func (b *Base) verifyPending() (z.Lit, bool) {
	for _, p := range b.pending[b.pendingHead:] {
		cur := b.assn.Val(p.v)
		if p.assumption && cur != z.Unassigned && cur != p.val {
			return z.MkLit(p.v, p.val), false
		}
	}
	return z.LitNull, true
}

// resetState drops the assignment, trail and pending queue and rescans all
// watchers, readying the solver for another search.
func (b *Base) resetState() {
	b.pending = b.pending[:0]
	b.pendingHead = 0
	b.assn.Reset()
	b.trail.Reset()
	for i := range b.watchers {
		b.watchers[i].Rescan(&b.assn)
	}
}

// preSolve readies the solver for a search: state is reset unless the
// solver is freshly constructed, the interrupt flag cleared, and the status
// moved to Solving.
func (b *Base) preSolve() {
	if !b.fresh {
		b.resetState()
	}
	b.fresh = false
	b.interrupt.Store(false)
	b.status.Store(int32(Solving))
}
