// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package cnf holds the data model of formulas in conjunctive normal form:
// clauses of distinct literals, formulas of clauses, and dense tri-state
// variable assignments.
package cnf

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/protopopov1122/pjos/z"
)

// Clause is an immutable sequence of distinct literals.  The order of
// literals is unspecified but stable after construction.  The empty clause
// is valid and unsatisfiable.
//
// Clause literal storage may live on the heap or in an Alloc slab; either
// way it must not be mutated after construction, since watchers and the
// formula hold borrowing views into it.
type Clause struct {
	ms     []z.Lit
	maxVar z.Var
}

// Len returns the number of literals in c.
func (c *Clause) Len() int {
	return len(c.ms)
}

// MaxVar returns the maximum variable referenced by c, or z.VarNull for the
// empty clause.
func (c *Clause) MaxVar() z.Var {
	return c.maxVar
}

// Lits returns the literals of c.  The slice is borrowed and must not be
// modified.
func (c *Clause) Lits() []z.Lit {
	return c.ms
}

// Lit returns the literal at position i.
func (c *Clause) Lit(i int) z.Lit {
	return c.ms[i]
}

// At is the checked form of Lit.
func (c *Clause) At(i int) (z.Lit, error) {
	if i < 0 || i >= len(c.ms) {
		return z.LitNull, errors.Errorf("literal index %d out of bounds for clause of length %d", i, len(c.ms))
	}
	return c.ms[i], nil
}

// Has indicates whether c contains the literal m.
func (c *Clause) Has(m z.Lit) bool {
	for _, n := range c.ms {
		if n == m {
			return true
		}
	}
	return false
}

// HasVar indicates whether c references the variable v with either polarity.
func (c *Clause) HasVar(v z.Var) bool {
	for _, n := range c.ms {
		if n.Var() == v {
			return true
		}
	}
	return false
}

func (c *Clause) String() string {
	var sb strings.Builder
	for _, m := range c.ms {
		sb.WriteString(m.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(z.LitNull.String())
	return sb.String()
}

// ClauseBuilder accumulates literals, deduplicating on insertion, and
// produces clauses.  A builder may be reused across Make calls; reuse avoids
// reallocating the dedup table on hot paths such as clause learning.
type ClauseBuilder struct {
	ms     []z.Lit
	seen   map[z.Lit]struct{}
	maxVar z.Var
}

// Add inserts m unless it is already present.
func (b *ClauseBuilder) Add(m z.Lit) *ClauseBuilder {
	if b.seen == nil {
		b.seen = make(map[z.Lit]struct{})
	}
	if _, ok := b.seen[m]; ok {
		return b
	}
	b.seen[m] = struct{}{}
	b.ms = append(b.ms, m)
	if v := m.Var(); v > b.maxVar {
		b.maxVar = v
	}
	return b
}

// Reset drops accumulated literals.
func (b *ClauseBuilder) Reset() *ClauseBuilder {
	for m := range b.seen {
		delete(b.seen, m)
	}
	b.ms = b.ms[:0]
	b.maxVar = z.VarNull
	return b
}

// Make produces a heap-backed clause from the accumulated literals and
// resets the builder.
func (b *ClauseBuilder) Make() *Clause {
	ms := make([]z.Lit, len(b.ms))
	copy(ms, b.ms)
	c := &Clause{ms: ms, maxVar: b.maxVar}
	b.Reset()
	return c
}

// MakeIn is like Make but draws literal storage from the slab a.
func (b *ClauseBuilder) MakeIn(a *Alloc) *Clause {
	c := &Clause{ms: a.Lits(b.ms), maxVar: b.maxVar}
	b.Reset()
	return c
}
