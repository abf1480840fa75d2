// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopopov1122/pjos/z"
)

func mkClause(ds ...int) *Clause {
	var b ClauseBuilder
	for _, d := range ds {
		b.Add(z.Dimacs2Lit(d))
	}
	return b.Make()
}

func TestFormulaAppendRemove(t *testing.T) {
	var f Formula
	c0 := f.Append(mkClause(1, 2))
	c1 := f.Append(mkClause(-1, 3))
	c2 := f.Append(mkClause(-2, -3))
	require.Equal(t, 3, f.Len())
	assert.Equal(t, z.Var(3), f.MaxVar())

	require.True(t, f.Remove(1))
	require.Equal(t, 2, f.Len())
	assert.Same(t, c0, f.At(0))
	assert.Same(t, c2, f.At(1))
	_ = c1

	assert.False(t, f.Remove(2))
	assert.False(t, f.Remove(-1))
}

func TestFormulaMaxVarMonotonic(t *testing.T) {
	var f Formula
	f.Append(mkClause(7))
	f.Append(mkClause(2))
	require.Equal(t, z.Var(7), f.MaxVar())
	f.Remove(0)
	// removal does not lower the variable count
	assert.Equal(t, z.Var(7), f.MaxVar())
}

func TestFormulaBuilder(t *testing.T) {
	var f Formula
	b := NewFormulaBuilder(&f)
	for _, d := range []int{1, 2, 0, -1, 3, 0, -2} {
		b.Add(z.Dimacs2Lit(d))
	}
	b.Finish()
	require.Equal(t, 3, f.Len())
	assert.Equal(t, 2, f.At(0).Len())
	assert.Equal(t, 2, f.At(1).Len())
	assert.Equal(t, 1, f.At(2).Len())
	assert.Equal(t, z.Var(3), f.MaxVar())

	// Finish without an open clause is a no-op
	b.Finish()
	assert.Equal(t, 3, f.Len())
}

func TestAssignmentResize(t *testing.T) {
	a := NewAssignment(3)
	require.Equal(t, 3, a.Len())
	for v := z.Var(1); v <= 3; v++ {
		assert.Equal(t, z.Unassigned, a.Val(v))
	}
	a.Set(2, z.True)
	assert.True(t, a.IsTrue(z.Var(2).Pos()))
	assert.False(t, a.IsTrue(z.Var(2).Neg()))

	a.Resize(5)
	require.Equal(t, 5, a.Len())
	assert.Equal(t, z.True, a.Val(2))
	assert.Equal(t, z.Unassigned, a.Val(5))

	a.Resize(1)
	require.Equal(t, 1, a.Len())

	a.Reset()
	assert.Equal(t, z.Unassigned, a.Val(1))
}
