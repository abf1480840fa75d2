// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package solver

import "github.com/protopopov1122/pjos/z"

// Reason records why a trail entry was assigned.  Nonnegative reasons are
// the index of the clause whose unit propagation forced the assignment.
type Reason int32

const (
	ReasonDecision    Reason = -1
	ReasonPropagation Reason = -2
	ReasonAssumption  Reason = -3
)

// FromClause indicates whether r refers to a propagating clause.
func (r Reason) FromClause() bool {
	return r >= 0
}

// TrailEntry is a single assignment record.
type TrailEntry struct {
	Var    z.Var
	Val    z.Val
	Reason Reason
	Level  int
}

const noEntry = -1

// Trail is the stack of assignments made during search, annotated with
// reasons and decision levels, with constant-time lookup by variable.  The
// level increments with each decision or assumption; propagations inherit
// the current level.
type Trail struct {
	d      []TrailEntry
	level  int
	varIdx []int
}

func newTrail(n int) Trail {
	t := Trail{varIdx: make([]int, n)}
	for i := range t.varIdx {
		t.varIdx[i] = noEntry
	}
	return t
}

// Len returns the number of entries, including stale ones not yet skipped.
func (t *Trail) Len() int {
	return len(t.d)
}

// Level returns the current decision level.
func (t *Trail) Level() int {
	return t.level
}

// At returns the entry at position i.
func (t *Trail) At(i int) *TrailEntry {
	return &t.d[i]
}

// Decision pushes a decision entry, opening a new level.
func (t *Trail) Decision(v z.Var, val z.Val) {
	t.level++
	t.push(v, val, ReasonDecision)
}

// Assumption pushes an assumption entry, opening a new level.
func (t *Trail) Assumption(v z.Var, val z.Val) {
	t.level++
	t.push(v, val, ReasonAssumption)
}

// Propagation pushes a propagation entry without a reason clause at the
// current level.
func (t *Trail) Propagation(v z.Var, val z.Val) {
	t.push(v, val, ReasonPropagation)
}

// PropagationAt pushes a propagation entry forced by clause c at the
// current level.
func (t *Trail) PropagationAt(v z.Var, val z.Val, c int) {
	t.push(v, val, Reason(c))
}

func (t *Trail) push(v z.Var, val z.Val, r Reason) {
	t.varIdx[v-1] = len(t.d)
	t.d = append(t.d, TrailEntry{Var: v, Val: val, Reason: r, Level: t.level})
}

// Top returns the topmost live entry, lazily skipping entries whose
// variable exceeds the current variable count, or nil if the trail is
// empty.
func (t *Trail) Top() *TrailEntry {
	t.skipStale()
	if len(t.d) == 0 {
		return nil
	}
	return &t.d[len(t.d)-1]
}

// Pop drops the topmost live entry and recomputes the level from the new
// top.
func (t *Trail) Pop() {
	t.skipStale()
	if len(t.d) == 0 {
		return
	}
	e := &t.d[len(t.d)-1]
	t.varIdx[e.Var-1] = noEntry
	t.d = t.d[:len(t.d)-1]
	if len(t.d) == 0 {
		t.level = 0
	} else {
		t.level = t.d[len(t.d)-1].Level
	}
}

func (t *Trail) skipStale() {
	for len(t.d) > 0 && int(t.d[len(t.d)-1].Var) > len(t.varIdx) {
		t.d = t.d[:len(t.d)-1]
	}
}

// Find returns the entry assigning v, or nil.
func (t *Trail) Find(v z.Var) *TrailEntry {
	if int(v)-1 >= len(t.varIdx) {
		return nil
	}
	i := t.varIdx[v-1]
	if i == noEntry {
		return nil
	}
	return &t.d[i]
}

// Resize truncates or extends the per-variable index to n variables.
func (t *Trail) Resize(n int) {
	if n <= len(t.varIdx) {
		t.varIdx = t.varIdx[:n]
		return
	}
	for len(t.varIdx) < n {
		t.varIdx = append(t.varIdx, noEntry)
	}
}

// Reset drops all entries and the level.
func (t *Trail) Reset() {
	t.d = t.d[:0]
	t.level = 0
	for i := range t.varIdx {
		t.varIdx[i] = noEntry
	}
}
