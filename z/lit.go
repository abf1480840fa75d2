// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package z

import "strconv"

// Lit is a literal: a nonzero signed integer whose absolute value names a
// variable and whose sign gives the polarity.  Positive literals are
// satisfied when their variable is true, negative ones when it is false.
//
// The zero value LitNull is not a literal; it serves as the clause
// terminator in streams of literals (Add interfaces, DIMACS).
type Lit int32

// LitNull is the reserved terminator sentinel.
const LitNull Lit = 0

// MkLit creates the literal of v which is satisfied when v has value val.
// val must be True or False.
func MkLit(v Var, val Val) Lit {
	if val == False {
		return Lit(-int32(v))
	}
	return Lit(v)
}

// Dimacs2Lit converts a literal in DIMACS integer form.
func Dimacs2Lit(d int) Lit {
	return Lit(d)
}

// Dimacs returns the DIMACS integer form of m.
func (m Lit) Dimacs() int {
	return int(m)
}

// Var returns the variable of m.
func (m Lit) Var() Var {
	if m < 0 {
		return Var(-m)
	}
	return Var(m)
}

// IsPos indicates whether m is a positive literal.
func (m Lit) IsPos() bool {
	return m > 0
}

// Not returns the negation of m.
func (m Lit) Not() Lit {
	return -m
}

// Val returns the variable value which satisfies m.
func (m Lit) Val() Val {
	if m < 0 {
		return False
	}
	return True
}

// Eval evaluates m under the value val of m's variable.  Eval returns
// false when val is Unassigned.
func (m Lit) Eval(val Val) bool {
	return (m > 0 && val == True) || (m < 0 && val == False)
}

func (m Lit) String() string {
	return strconv.Itoa(int(m))
}
