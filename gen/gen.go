// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen generates CNF problems, mostly for testing solvers.
package gen

import (
	"math/rand"
	"sync"

	"github.com/protopopov1122/pjos/inter"
	"github.com/protopopov1122/pjos/z"
)

// make the rng seedable
var rng = rand.New(rand.NewSource(33))
var mu sync.Mutex

// Seed reseeds the package level random number generator.
func Seed(s int64) {
	mu.Lock()
	defer mu.Unlock()
	rng = rand.New(rand.NewSource(s))
}

// BinCycle generates
// (1,-2) (2,-3), (3,-4) ... (n-1, -(n)), (n, -1)
func BinCycle(dst inter.Adder, n int) {
	for i := 1; i <= n; i++ {
		j := i + 1
		if j > n {
			j = 1
		}
		dst.Add(z.Var(i).Pos())
		dst.Add(z.Var(j).Neg())
		dst.Add(z.LitNull)
	}
}

// Rand3Cnf generates a random 3cnf with n variables and m clauses.
func Rand3Cnf(dst inter.Adder, n, m int) {
	mu.Lock() // for package rng
	defer mu.Unlock()
	ms := make([]z.Lit, 3)
	for i := 0; i < m; i++ {
		for j := 0; j < 3; j++ {
			ms[j] = randLit(n)
			for j == 1 && ms[0].Var() == ms[1].Var() {
				ms[j] = randLit(n)
			}
			for j == 2 && (ms[0].Var() == ms[2].Var() || ms[1].Var() == ms[2].Var()) {
				ms[j] = randLit(n)
			}
		}
		dst.Add(ms[0])
		dst.Add(ms[1])
		dst.Add(ms[2])
		dst.Add(z.LitNull)
	}
}

func randLit(n int) z.Lit {
	v := z.Var(rng.Intn(n) + 1)
	if rng.Intn(2) == 0 {
		return v.Neg()
	}
	return v.Pos()
}

// HardRand3Cnf generates a random 3cnf with n variables near the
// satisfiability threshold.
func HardRand3Cnf(dst inter.Adder, n int) {
	Rand3Cnf(dst, n, 4*n)
}

// Php generates a pigeon hole problem asking whether or not p pigeons can
// be placed in h holes with 1 pigeon per hole.
func Php(dst inter.Adder, p, h int) {
	for i := 0; i < p; i++ {
		for j := 0; j < h; j++ {
			dst.Add(PartVar(i, j, p))
		}
		dst.Add(z.LitNull)
	}
	for i := 0; i < p; i++ {
		for j := 0; j < i; j++ {
			for k := 0; k < h; k++ {
				dst.Add(PartVar(i, k, p).Not())
				dst.Add(PartVar(j, k, p).Not())
				dst.Add(z.LitNull)
			}
		}
	}
}

// PartVar returns the positive literal stating that pigeon i sits in hole j
// with p pigeons in total.
func PartVar(i, j, p int) z.Lit {
	return z.Var(j*p + i + 1).Pos()
}
