// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package solver

import (
	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/z"
)

// ClauseStatus is the cached state of a clause under the current
// assignment.
type ClauseStatus int8

const (
	ClauseSatisfied ClauseStatus = iota
	ClauseUnsatisfied
	ClauseUnit
	ClauseUndecided
)

func (s ClauseStatus) String() string {
	switch s {
	case ClauseSatisfied:
		return "satisfied"
	case ClauseUnsatisfied:
		return "unsatisfied"
	case ClauseUnit:
		return "unit"
	}
	return "undecided"
}

// Watcher tracks two representative literals of a clause so that most
// assignments touching the clause inspect only those two instead of
// rescanning it.  Update must be called for every assignment to a variable
// occurring in the clause, otherwise a full Rescan is needed.
//
// Watched slot invariants, re-established by Update and Rescan: Satisfied
// has a satisfied literal in a watched slot; Undecided has two unassigned
// watches; Unit has exactly one unassigned watch (the first) and no
// satisfied literal; Unsatisfied has no unassigned or satisfied watch.
type Watcher struct {
	clause *cnf.Clause
	status ClauseStatus
	first  int
	second int
}

func newWatcher(c *cnf.Clause) Watcher {
	w := Watcher{clause: c, status: ClauseUndecided, first: -1, second: -1}
	if c.Len() > 0 {
		w.first = 0
		if c.Len() > 1 {
			w.second = 1
		} else {
			w.status = ClauseUnit
		}
	} else {
		w.status = ClauseUnsatisfied
	}
	return w
}

// Status returns the cached clause status.
func (w *Watcher) Status() ClauseStatus {
	return w.status
}

// Watched returns the two watched literal indices, -1 for an absent watch.
func (w *Watcher) Watched() (int, int) {
	return w.first, w.second
}

// Update incrementally refreshes the watcher after variable v was set to
// val.  satisfies tells whether the new value satisfies the literal of v in
// this clause, per the occurrence list that routed the update here.
func (w *Watcher) Update(assn *cnf.Assignment, v z.Var, val z.Val, satisfies bool) {
	if satisfies {
		m := z.MkLit(v, val)
		if w.status != ClauseSatisfied &&
			(w.first == -1 || m != w.clause.Lit(w.first)) &&
			(w.second == -1 || m != w.clause.Lit(w.second)) {
			// Move a watch onto the newly satisfying literal, preferring to
			// displace a watch that is not itself satisfied.
			i := w.findLit(m)
			if !w.isSat(assn, w.first) {
				w.second = w.first
				w.first = i
			} else if !w.isSat(assn, w.second) {
				w.second = i
			}
		}
		w.status = ClauseSatisfied
		return
	}

	if w.first != -1 && v != w.clause.Lit(w.first).Var() &&
		w.second != -1 && v != w.clause.Lit(w.second).Var() {
		return
	}

	if w.isUnsat(assn, w.first) {
		w.first = w.findUnassigned(assn, -1)
	}
	if w.second == w.first || w.isUnsat(assn, w.second) {
		w.second = w.findUnassigned(assn, w.first)
	}

	if w.status == ClauseSatisfied && (w.isSat(assn, w.first) || w.isSat(assn, w.second)) {
		w.status = ClauseSatisfied
	} else if w.second != -1 {
		w.status = ClauseUndecided
	} else if w.first != -1 {
		w.status = ClauseUnit
	} else {
		w.status = ClauseUnsatisfied
	}
}

// Rescan recomputes both watches and the status by a single pass over the
// clause.  Required after bulk state changes (reset, attach, detach).
func (w *Watcher) Rescan(assn *cnf.Assignment) {
	w.first, w.second = -1, -1
	for i := 0; i < w.clause.Len(); i++ {
		m := w.clause.Lit(i)
		val := assn.Val(m.Var())
		if m.Eval(val) {
			w.second = w.first
			w.first = i
		} else if val == z.Unassigned {
			if w.first == -1 {
				w.first = i
			} else if w.second == -1 {
				w.second = i
			}
		}
	}

	if w.isSat(assn, w.first) || w.isSat(assn, w.second) {
		w.status = ClauseSatisfied
	} else if w.second != -1 {
		w.status = ClauseUndecided
	} else if w.first != -1 {
		w.status = ClauseUnit
	} else {
		w.status = ClauseUnsatisfied
	}
}

func (w *Watcher) findLit(m z.Lit) int {
	for i := 0; i < w.clause.Len(); i++ {
		if w.clause.Lit(i) == m {
			return i
		}
	}
	return -1
}

func (w *Watcher) findUnassigned(assn *cnf.Assignment, other int) int {
	for i := 0; i < w.clause.Len(); i++ {
		if i != other && assn.Val(w.clause.Lit(i).Var()) == z.Unassigned {
			return i
		}
	}
	return -1
}

func (w *Watcher) isSat(assn *cnf.Assignment, i int) bool {
	if i == -1 {
		return false
	}
	m := w.clause.Lit(i)
	return m.Eval(assn.Val(m.Var()))
}

func (w *Watcher) isUnsat(assn *cnf.Assignment, i int) bool {
	if i == -1 {
		return true
	}
	m := w.clause.Lit(i)
	val := assn.Val(m.Var())
	return val != z.Unassigned && !m.Eval(val)
}
