// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cnf

import "github.com/protopopov1122/pjos/z"

// Assignment is a dense map from 1-based variables to tri-state values.
type Assignment struct {
	vals []z.Val
}

// NewAssignment creates an assignment over n variables, all Unassigned.
func NewAssignment(n int) Assignment {
	a := Assignment{vals: make([]z.Val, n)}
	for i := range a.vals {
		a.vals[i] = z.Unassigned
	}
	return a
}

// Len returns the number of variables covered.
func (a *Assignment) Len() int {
	return len(a.vals)
}

// Val returns the value of v.
func (a *Assignment) Val(v z.Var) z.Val {
	return a.vals[v-1]
}

// Set assigns val to v.
func (a *Assignment) Set(v z.Var, val z.Val) {
	a.vals[v-1] = val
}

// IsTrue evaluates the literal m under a.
func (a *Assignment) IsTrue(m z.Lit) bool {
	return m.Eval(a.vals[m.Var()-1])
}

// Reset sets every variable to Unassigned.
func (a *Assignment) Reset() {
	for i := range a.vals {
		a.vals[i] = z.Unassigned
	}
}

// Resize grows a with Unassigned slots or truncates it from the tail.
func (a *Assignment) Resize(n int) {
	if n <= len(a.vals) {
		a.vals = a.vals[:n]
		return
	}
	for len(a.vals) < n {
		a.vals = append(a.vals, z.Unassigned)
	}
}
