// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package cnf

import "github.com/protopopov1122/pjos/z"

// Lots of short clauses are learned during search.  Alloc batches their
// literal storage into chunked arenas sliced per clause, to relax the GC's
// work.  Clauses backed by a slab and clauses backed by the heap are dropped
// the same way; a slab chunk is reclaimed once no clause points into it.
const allocChunk = 4096

// Alloc is a bump allocator for clause literal arrays.  The zero value is
// ready to use.  Alloc is not safe for concurrent use.
type Alloc struct {
	chunk []z.Lit
	free  int
}

// Lits returns a slice containing the given literals, carved from the
// current chunk when it fits, or allocated from scratch otherwise.
func (a *Alloc) Lits(ms []z.Lit) []z.Lit {
	n := len(ms)
	if n > allocChunk {
		res := make([]z.Lit, n)
		copy(res, ms)
		return res
	}
	if a.free+n > len(a.chunk) {
		a.chunk = make([]z.Lit, allocChunk)
		a.free = 0
	}
	res := a.chunk[a.free : a.free+n : a.free+n]
	copy(res, ms)
	a.free += n
	return res
}
