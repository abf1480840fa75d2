// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package dimacs

import (
	"fmt"
	"io"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/solver"
	"github.com/protopopov1122/pjos/z"
)

// WriteClause writes the literals of c followed by the terminating 0.
func WriteClause(w io.Writer, c *cnf.Clause) error {
	for _, m := range c.Lits() {
		if _, err := fmt.Fprintf(w, "%d ", m.Dimacs()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "0")
	return err
}

// WriteFormula writes f with its "p cnf" preamble, one clause per line.
func WriteFormula(w io.Writer, f *cnf.Formula) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", f.MaxVar(), f.Len()); err != nil {
		return err
	}
	for i := 0; i < f.Len(); i++ {
		if err := WriteClause(w, f.At(i)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteAssignment writes the assigned variables of a as space-separated
// signed integers, sign carrying the polarity.
func WriteAssignment(w io.Writer, a *cnf.Assignment) error {
	first := true
	for v := z.Var(1); int(v) <= a.Len(); v++ {
		val := a.Val(v)
		if val == z.Unassigned {
			continue
		}
		sep := " "
		if first {
			sep = ""
			first = false
		}
		if _, err := fmt.Fprintf(w, "%s%d", sep, z.MkLit(v, val).Dimacs()); err != nil {
			return err
		}
	}
	return nil
}

// WriteSolution writes the solver line "s <STATUS>" and, when st is
// Satisfied and includeModel is set, a model line "v <lit>... 0".
func WriteSolution(w io.Writer, st solver.Status, a *cnf.Assignment, includeModel bool) error {
	if _, err := fmt.Fprintf(w, "s %s\n", st); err != nil {
		return err
	}
	if st != solver.Satisfied || !includeModel {
		return nil
	}
	if _, err := fmt.Fprint(w, "v "); err != nil {
		return err
	}
	for v := z.Var(1); int(v) <= a.Len(); v++ {
		if _, err := fmt.Fprintf(w, "%d ", z.MkLit(v, a.Val(v)).Dimacs()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "0")
	return err
}
