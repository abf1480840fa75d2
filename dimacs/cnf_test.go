// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dimacs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/solver"
	"github.com/protopopov1122/pjos/z"
)

var readCases = []struct {
	d        string
	ok       bool
	warnings bool
	clauses  int
}{
	{"p cnf 2 2\n1 -2 0\n2 0\n", true, false, 2},
	{"c comment\nc more\np cnf 3 1\n1 2 3 0\n", true, false, 1},
	{"p cnf 6 6\n-1 0\n-2 0\n-3 0\n-4 0\n-5 0\n-6 0\n", true, false, 6},
	{"p cnf 2 3\n1 0\n2 0", true, true, 2},
	{"p cnf 9 1\n1 2 0\n", true, true, 1},
	// trailing clause without terminator is flushed at EOF
	{"p cnf 2 1\n1 2", true, false, 1},
	{"c only comments\n", false, false, 0},
	{"", false, false, 0},
	{"1 2 0\n", false, false, 0},
	{"p cng 7 7\n1 0\n", false, false, 0},
	{"p cnf x y\n1 0\n", false, false, 0},
	{"p cnf 2 1\n1 junk 0\n", false, false, 0},
}

func TestReadInto(t *testing.T) {
	for i, tc := range readCases {
		f := &cnf.Formula{}
		warns, err := ReadInto(strings.NewReader(tc.d), f)
		if !tc.ok {
			assert.Error(t, err, "case %d", i)
			continue
		}
		require.NoError(t, err, "case %d", i)
		assert.Equal(t, tc.clauses, f.Len(), "case %d", i)
		assert.Equal(t, tc.warnings, len(warns) > 0, "case %d: warnings %v", i, warns)
	}
}

func TestReadIntoLiterals(t *testing.T) {
	f := &cnf.Formula{}
	_, err := ReadInto(strings.NewReader("p cnf 3 2\n1 -2 0\n-3 0\n"), f)
	require.NoError(t, err)
	require.Equal(t, 2, f.Len())
	assert.True(t, f.At(0).Has(z.Dimacs2Lit(1)))
	assert.True(t, f.At(0).Has(z.Dimacs2Lit(-2)))
	assert.True(t, f.At(1).Has(z.Dimacs2Lit(-3)))
	assert.Equal(t, z.Var(3), f.MaxVar())
}

// clause multisets for comparison: sorted literal sets in clause order
func clauseSets(f *cnf.Formula) [][]z.Lit {
	res := make([][]z.Lit, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		ms := append([]z.Lit(nil), f.At(i).Lits()...)
		for j := 1; j < len(ms); j++ {
			for k := j; k > 0 && ms[k-1] > ms[k]; k-- {
				ms[k-1], ms[k] = ms[k], ms[k-1]
			}
		}
		res = append(res, ms)
	}
	return res
}

func TestRoundTrip(t *testing.T) {
	in := "p cnf 4 3\n1 -2 4 0\n-1 3 0\n-3 -4 0\n"
	f := &cnf.Formula{}
	warns, err := ReadInto(strings.NewReader(in), f)
	require.NoError(t, err)
	require.Empty(t, warns)

	var buf bytes.Buffer
	require.NoError(t, WriteFormula(&buf, f))

	g := &cnf.Formula{}
	warns, err = ReadInto(&buf, g)
	require.NoError(t, err)
	require.Empty(t, warns)

	if diff := cmp.Diff(clauseSets(f), clauseSets(g)); diff != "" {
		t.Errorf("round trip changed formula (-in +out):\n%s", diff)
	}
}

func TestWriteClause(t *testing.T) {
	var b cnf.ClauseBuilder
	c := b.Add(z.Dimacs2Lit(1)).Add(z.Dimacs2Lit(-2)).Make()
	var buf bytes.Buffer
	require.NoError(t, WriteClause(&buf, c))
	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "0"))
	assert.Contains(t, out, "1 ")
	assert.Contains(t, out, "-2 ")
}

func TestWriteAssignment(t *testing.T) {
	a := cnf.NewAssignment(4)
	a.Set(1, z.True)
	a.Set(3, z.False)
	var buf bytes.Buffer
	require.NoError(t, WriteAssignment(&buf, &a))
	assert.Equal(t, "1 -3", buf.String())
}

func TestWriteSolution(t *testing.T) {
	a := cnf.NewAssignment(2)
	a.Set(1, z.True)
	a.Set(2, z.False)

	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, solver.Satisfied, &a, true))
	assert.Equal(t, "s SATISFIABLE\nv 1 -2 0\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSolution(&buf, solver.Satisfied, &a, false))
	assert.Equal(t, "s SATISFIABLE\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSolution(&buf, solver.Unsatisfied, &a, true))
	assert.Equal(t, "s UNSATISFIABLE\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteSolution(&buf, solver.Unknown, &a, true))
	assert.Equal(t, "s UNKNOWN\n", buf.String())
}
