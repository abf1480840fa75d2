// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cnf

import "github.com/protopopov1122/pjos/z"

// Formula is an ordered collection of clauses indexed 0..Len()-1.  The
// formula tracks the maximum variable referenced by any clause it has ever
// held; removing clauses does not lower it.
type Formula struct {
	clauses []*Clause
	maxVar  z.Var
}

// Len returns the number of clauses.
func (f *Formula) Len() int {
	return len(f.clauses)
}

// Empty indicates whether f holds no clauses.
func (f *Formula) Empty() bool {
	return len(f.clauses) == 0
}

// MaxVar returns the maximum variable seen across all appended clauses.
func (f *Formula) MaxVar() z.Var {
	return f.maxVar
}

// At returns the clause at index i.
func (f *Formula) At(i int) *Clause {
	return f.clauses[i]
}

// Append adds c at the end of the formula and returns it.
func (f *Formula) Append(c *Clause) *Clause {
	f.clauses = append(f.clauses, c)
	if c.maxVar > f.maxVar {
		f.maxVar = c.maxVar
	}
	return c
}

// Remove deletes the clause at index i, shifting clauses at greater indices
// down by one.  Holders of clause indices must be notified separately.
// Remove reports whether i was in range.
func (f *Formula) Remove(i int) bool {
	if i < 0 || i >= len(f.clauses) {
		return false
	}
	copy(f.clauses[i:], f.clauses[i+1:])
	f.clauses[len(f.clauses)-1] = nil
	f.clauses = f.clauses[:len(f.clauses)-1]
	return true
}

// Clear drops all clauses.
func (f *Formula) Clear() {
	f.clauses = nil
}

// FormulaBuilder accumulates a stream of z.LitNull-terminated literals into
// a formula.  It satisfies the Add interface shared by solvers and
// generators, so a formula can be a sink for any clause producer.
type FormulaBuilder struct {
	f    *Formula
	cb   ClauseBuilder
	open bool
}

// NewFormulaBuilder creates a builder appending to f.
func NewFormulaBuilder(f *Formula) *FormulaBuilder {
	return &FormulaBuilder{f: f}
}

// Add appends a literal to the clause under construction.  z.LitNull ends
// the clause and appends it to the formula.
func (b *FormulaBuilder) Add(m z.Lit) {
	if m == z.LitNull {
		b.f.Append(b.cb.Make())
		b.open = false
		return
	}
	b.open = true
	b.cb.Add(m)
}

// Finish flushes a trailing unterminated clause, if any.
func (b *FormulaBuilder) Finish() {
	if b.open {
		b.f.Append(b.cb.Make())
		b.open = false
	}
}
