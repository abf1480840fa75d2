// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package z

import "strconv"

// Var is a propositional variable, numbered starting at 1.
// VarNull (0) is not a variable.
type Var uint32

// VarNull is the null variable.
const VarNull Var = 0

// Pos returns the positive literal of v.
func (v Var) Pos() Lit {
	return Lit(v)
}

// Neg returns the negative literal of v.
func (v Var) Neg() Lit {
	return Lit(-int32(v))
}

func (v Var) String() string {
	return strconv.FormatUint(uint64(v), 10)
}
