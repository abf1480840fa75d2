// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package inter holds the public solver interfaces.
package inter

import (
	"time"

	"github.com/protopopov1122/pjos/z"
)

// Interface Solvable encapsulates a decision procedure which may run for a
// long time.
//
// Solve returns
//
//	1  If the problem is SAT
//	0  If the problem is undetermined
//	-1 If the problem is UNSAT
//
// These result codes are used throughout pjos.
type Solvable interface {
	Solve() int
}

// Interface GoSolvable encapsulates a handle on a Solve running in its own
// goroutine.
type GoSolvable interface {
	GoSolve() Solve
}

// Interface Solve is a connection to a background Solve call.  All methods
// report results with Solvable codes.
type Solve interface {
	// Try waits for the result for at most d, then cancels the solve
	// cooperatively and waits for it to wind down.
	Try(d time.Duration) int

	// Stop cancels the solve and waits for it to wind down.
	Stop() int

	// Wait blocks until the solve completes.
	Wait() int
}

// Adder encapsulates something to which clauses can be added by sequences
// of z.LitNull-terminated literals.
type Adder interface {
	// Add appends a literal to the clause under construction.  If m is
	// z.LitNull, it signals end of clause.
	Add(m z.Lit)
}

// Interface MaxVar is something which records the maximum variable from a
// stream of inputs (such as Adds/Assumes) and can return the maximum of all
// such variables.
type MaxVar interface {
	MaxVar() z.Var
}

// Liter produces fresh variables and returns the corresponding positive
// literal.
type Liter interface {
	Lit() z.Lit
}

// Model encapsulates something from which a model can be extracted.
type Model interface {
	Value(m z.Lit) bool
}

// Assumable encapsulates a problem which can be solved under unit
// assumptions.
type Assumable interface {
	// Assume causes the next call to Solve to hold ms true.  Assumptions
	// are consumed by Solve and do not persist across calls.
	Assume(ms ...z.Lit)

	// Why appends to dst a subset of assumptions which together caused
	// the previous Solve to be UNSAT.  If the previous call was not
	// UNSAT, Why returns dst.
	Why(dst []z.Lit) []z.Lit
}

// Interface S encapsulates something capable of a complete incremental SAT
// interface: adding clauses, assuming literals, solving, and extracting
// models and failed assumptions.
type S interface {
	MaxVar
	Liter
	Adder
	Solvable
	GoSolvable
	Model
	Assumable
}
