// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/z"
)

// mkFormula builds a formula from clause literal lists in DIMACS form.
func mkFormula(cls ...[]int) *cnf.Formula {
	f := &cnf.Formula{}
	var b cnf.ClauseBuilder
	for _, c := range cls {
		for _, d := range c {
			b.Add(z.Dimacs2Lit(d))
		}
		f.Append(b.Make())
	}
	return f
}

// checkModel verifies that the assignment satisfies every clause of the
// formula and every assumption.
func checkModel(t *testing.T, f *cnf.Formula, assn *cnf.Assignment, assumes []z.Lit) {
	t.Helper()
	for i := 0; i < f.Len(); i++ {
		c := f.At(i)
		sat := false
		for _, m := range c.Lits() {
			if assn.IsTrue(m) {
				sat = true
				break
			}
		}
		require.True(t, sat, "clause %d (%s) unsatisfied by model", i, c)
	}
	for _, m := range assumes {
		require.True(t, assn.IsTrue(m), "assumption %s does not hold in model", m)
	}
}

// checkConflictSufficient verifies that the formula conjoined with the
// final conflict literals is unsatisfiable, using a fresh DPLL solver as
// the oracle.
func checkConflictSufficient(t *testing.T, cls [][]int, conflict []z.Lit) {
	t.Helper()
	aug := make([][]int, 0, len(cls)+len(conflict))
	aug = append(aug, cls...)
	for _, m := range conflict {
		aug = append(aug, []int{m.Dimacs()})
	}
	s := NewDpll(mkFormula(aug...))
	require.Equal(t, Unsatisfied, s.Solve(), "final conflict %v does not make the formula unsat", conflict)
}
