// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/z"
)

func mkClause(ds ...int) *cnf.Clause {
	var b cnf.ClauseBuilder
	for _, d := range ds {
		b.Add(z.Dimacs2Lit(d))
	}
	return b.Make()
}

// checkWatcherInvariant verifies the watched-slot invariants against a
// freshly rescanned clone.
func checkWatcherInvariant(t *testing.T, w *Watcher, assn *cnf.Assignment) {
	t.Helper()
	clone := *w
	clone.Rescan(assn)
	require.Equal(t, clone.Status(), w.Status(), "incremental status diverged from rescan")

	first, second := w.Watched()
	switch w.Status() {
	case ClauseSatisfied:
		sat := w.isSat(assn, first) || w.isSat(assn, second)
		assert.True(t, sat, "satisfied watcher has no satisfied watch")
	case ClauseUndecided:
		require.NotEqual(t, -1, first)
		require.NotEqual(t, -1, second)
		assert.Equal(t, z.Unassigned, assn.Val(w.clause.Lit(first).Var()))
		assert.Equal(t, z.Unassigned, assn.Val(w.clause.Lit(second).Var()))
	case ClauseUnit:
		require.NotEqual(t, -1, first)
		assert.Equal(t, z.Unassigned, assn.Val(w.clause.Lit(first).Var()))
		assert.Equal(t, -1, second)
	case ClauseUnsatisfied:
		assert.False(t, w.isSat(assn, first) || w.isSat(assn, second))
		if first != -1 {
			assert.NotEqual(t, z.Unassigned, assn.Val(w.clause.Lit(first).Var()))
		}
	}
}

// update routes an assignment into the watcher with the satisfies flag the
// variable index would compute.
func update(w *Watcher, assn *cnf.Assignment, m z.Lit, val z.Val) {
	v := m.Var()
	assn.Set(v, val)
	for _, n := range w.clause.Lits() {
		if n.Var() != v {
			continue
		}
		w.Update(assn, v, val, n.Eval(val))
		return
	}
}

func TestWatcherNew(t *testing.T) {
	assn := cnf.NewAssignment(3)

	w := newWatcher(mkClause())
	assert.Equal(t, ClauseUnsatisfied, w.Status())

	w = newWatcher(mkClause(1))
	assert.Equal(t, ClauseUnit, w.Status())
	first, second := w.Watched()
	assert.Equal(t, 0, first)
	assert.Equal(t, -1, second)

	w = newWatcher(mkClause(1, -2))
	assert.Equal(t, ClauseUndecided, w.Status())
	checkWatcherInvariant(t, &w, &assn)
}

func TestWatcherUnitChain(t *testing.T) {
	assn := cnf.NewAssignment(3)
	c := mkClause(1, 2, 3)
	w := newWatcher(c)

	update(&w, &assn, z.Dimacs2Lit(1), z.False)
	checkWatcherInvariant(t, &w, &assn)
	assert.Equal(t, ClauseUndecided, w.Status())

	update(&w, &assn, z.Dimacs2Lit(2), z.False)
	checkWatcherInvariant(t, &w, &assn)
	require.Equal(t, ClauseUnit, w.Status())
	first, _ := w.Watched()
	assert.Equal(t, z.Dimacs2Lit(3), c.Lit(first))

	update(&w, &assn, z.Dimacs2Lit(3), z.False)
	checkWatcherInvariant(t, &w, &assn)
	assert.Equal(t, ClauseUnsatisfied, w.Status())
}

func TestWatcherSatisfy(t *testing.T) {
	assn := cnf.NewAssignment(3)
	w := newWatcher(mkClause(1, 2, 3))

	update(&w, &assn, z.Dimacs2Lit(3), z.True)
	checkWatcherInvariant(t, &w, &assn)
	assert.Equal(t, ClauseSatisfied, w.Status())

	// falsifying another literal keeps the clause satisfied
	update(&w, &assn, z.Dimacs2Lit(1), z.False)
	checkWatcherInvariant(t, &w, &assn)
	assert.Equal(t, ClauseSatisfied, w.Status())
}

func TestWatcherUnassign(t *testing.T) {
	assn := cnf.NewAssignment(3)
	w := newWatcher(mkClause(1, 2))

	update(&w, &assn, z.Dimacs2Lit(1), z.False)
	update(&w, &assn, z.Dimacs2Lit(2), z.False)
	require.Equal(t, ClauseUnsatisfied, w.Status())

	update(&w, &assn, z.Dimacs2Lit(2), z.Unassigned)
	checkWatcherInvariant(t, &w, &assn)
	require.Equal(t, ClauseUnit, w.Status())

	update(&w, &assn, z.Dimacs2Lit(1), z.Unassigned)
	checkWatcherInvariant(t, &w, &assn)
	assert.Equal(t, ClauseUndecided, w.Status())
}

func TestWatcherNegativeLits(t *testing.T) {
	assn := cnf.NewAssignment(2)
	c := mkClause(-1, -2)
	w := newWatcher(c)

	update(&w, &assn, z.Dimacs2Lit(-1), z.True)
	checkWatcherInvariant(t, &w, &assn)
	require.Equal(t, ClauseUnit, w.Status())
	first, _ := w.Watched()
	assert.Equal(t, z.Dimacs2Lit(-2), c.Lit(first))

	update(&w, &assn, z.Dimacs2Lit(-2), z.False)
	checkWatcherInvariant(t, &w, &assn)
	assert.Equal(t, ClauseSatisfied, w.Status())
}

func TestWatcherRescanAfterBulkChange(t *testing.T) {
	assn := cnf.NewAssignment(4)
	w := newWatcher(mkClause(1, 2, 3, 4))
	assn.Set(1, z.False)
	assn.Set(2, z.False)
	assn.Set(3, z.False)
	// watcher was not updated incrementally; rescan must recover
	w.Rescan(&assn)
	require.Equal(t, ClauseUnit, w.Status())
	checkWatcherInvariant(t, &w, &assn)

	assn.Reset()
	w.Rescan(&assn)
	assert.Equal(t, ClauseUndecided, w.Status())
}
