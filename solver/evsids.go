// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package solver

import (
	"container/heap"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/z"
)

// ScoringParams tune the EVSIDS decision heuristic.
type ScoringParams struct {
	RescoreThreshold float64
	RescoreFactor    float64
	InitialIncrement float64
	DecayRate        float64
}

// DefaultScoring returns the stock EVSIDS parameters.
func DefaultScoring() ScoringParams {
	return ScoringParams{
		RescoreThreshold: 1e100,
		RescoreFactor:    1e-100,
		InitialIncrement: 1.0,
		DecayRate:        1.05,
	}
}

// Evsids keeps a decaying activity score per variable and serves the
// highest-scoring unassigned variable as the next decision candidate.
// Scores are bumped when a variable participates in conflict analysis; the
// increment grows exponentially per iteration, which values recent activity
// over old.  All scores are rescaled once any crosses the threshold.
type Evsids struct {
	formula *cnf.Formula
	assn    *cnf.Assignment
	scoring ScoringParams

	scores []float64
	inc    float64
	vars   []z.Var
	inHeap []bool
}

func newEvsids(formula *cnf.Formula, assn *cnf.Assignment, scoring ScoringParams) *Evsids {
	e := &Evsids{
		formula: formula,
		assn:    assn,
		scoring: scoring,
		inc:     scoring.InitialIncrement,
	}
	e.FormulaUpdated()
	return e
}

// heap.Interface; orders by score descending, ties to the smaller variable.

func (e *Evsids) Len() int { return len(e.vars) }

func (e *Evsids) Less(i, j int) bool {
	si, sj := e.scores[e.vars[i]-1], e.scores[e.vars[j]-1]
	return si > sj || (si == sj && e.vars[i] < e.vars[j])
}

func (e *Evsids) Swap(i, j int) { e.vars[i], e.vars[j] = e.vars[j], e.vars[i] }

func (e *Evsids) Push(x any) { e.vars = append(e.vars, x.(z.Var)) }

func (e *Evsids) Pop() any {
	v := e.vars[len(e.vars)-1]
	e.vars = e.vars[:len(e.vars)-1]
	return v
}

// Reset zeroes all scores, restores the initial increment and refills the
// queue.
func (e *Evsids) Reset() {
	for i := range e.scores {
		e.scores[i] = 0
	}
	e.inc = e.scoring.InitialIncrement
	e.refill()
}

// FormulaUpdated resizes the per-variable state after the formula's
// variable count changed: new variables are seeded with score 0 and
// enqueued, removed ones are dropped.
func (e *Evsids) FormulaUpdated() {
	n := int(e.formula.MaxVar())
	if len(e.scores) < n {
		for v := len(e.scores) + 1; v <= n; v++ {
			e.scores = append(e.scores, 0)
			e.inHeap = append(e.inHeap, true)
			e.vars = append(e.vars, z.Var(v))
		}
	} else if len(e.scores) > n {
		e.scores = e.scores[:n]
		e.inHeap = e.inHeap[:n]
		j := 0
		for _, v := range e.vars {
			if int(v) <= n {
				e.vars[j] = v
				j++
			}
		}
		e.vars = e.vars[:j]
	}
	heap.Init(e)
}

// rebuild ensures every currently-unassigned variable is queued, keeping
// accumulated scores.  Called when the solver resets its assignment between
// incremental solves, which bypasses the per-assignment hook.
func (e *Evsids) rebuild() {
	e.refill()
}

func (e *Evsids) refill() {
	e.vars = e.vars[:0]
	for v := 1; v <= len(e.scores); v++ {
		e.inHeap[v-1] = e.assn.Val(z.Var(v)) == z.Unassigned
		if e.inHeap[v-1] {
			e.vars = append(e.vars, z.Var(v))
		}
	}
	heap.Init(e)
}

// NextIteration grows the score increment by the decay rate.
func (e *Evsids) NextIteration() {
	e.inc *= e.scoring.DecayRate
}

// VariableActive bumps the activity of v, rescaling all scores when the
// bumped score crosses the threshold.
func (e *Evsids) VariableActive(v z.Var) {
	e.scores[v-1] += e.inc
	if e.scores[v-1] > e.scoring.RescoreThreshold {
		for i := range e.scores {
			e.scores[i] *= e.scoring.RescoreFactor
		}
		e.inc *= e.scoring.RescoreFactor
	}
	heap.Init(e)
}

// VariableAssigned observes an assignment change of v.  When v has just
// become unassigned again (backjump), it is requeued.
func (e *Evsids) VariableAssigned(v z.Var) {
	if e.assn.Val(v) == z.Unassigned && !e.inHeap[v-1] {
		e.inHeap[v-1] = true
		heap.Push(e, v)
	}
}

// PopVariable returns an unassigned variable of maximum score, ties broken
// toward the smaller variable id, or z.VarNull when no candidate remains.
func (e *Evsids) PopVariable() z.Var {
	for len(e.vars) > 0 {
		v := heap.Pop(e).(z.Var)
		e.inHeap[v-1] = false
		if e.assn.Val(v) == z.Unassigned {
			return v
		}
	}
	return z.VarNull
}
