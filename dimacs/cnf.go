// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package dimacs reads and writes the DIMACS CNF exchange format.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/z"
)

// Visitor receives the contents of a DIMACS CNF stream.
type Visitor interface {
	// Init is called once with the variable and clause counts announced by
	// the preamble.
	Init(vars, clauses int)

	// Add is called for every literal; z.LitNull ends a clause.
	Add(m z.Lit)

	// Eof is called when the input is exhausted.
	Eof()
}

// ReadCnf parses DIMACS CNF from r into vis.  Lines starting with 'c' are
// comments; a preamble "p cnf V C" must precede the clause body.  Counts in
// the preamble are announced via Init but not enforced.
func ReadCnf(r io.Reader, vis Visitor) error {
	br := bufio.NewReader(r)
	nVars, nClauses, err := readPreamble(br)
	if err != nil {
		return err
	}
	vis.Init(nVars, nClauses)

	sc := bufio.NewScanner(br)
	sc.Buffer(nil, 1<<30)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && line[0] == 'c' {
			continue
		}
		for _, tok := range strings.Fields(line) {
			d, err := strconv.Atoi(tok)
			if err != nil {
				return errors.Wrapf(err, "invalid DIMACS literal %q", tok)
			}
			vis.Add(z.Dimacs2Lit(d))
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "reading DIMACS clauses")
	}
	vis.Eof()
	return nil
}

func readPreamble(br *bufio.Reader) (int, int, error) {
	for {
		line, err := br.ReadString('\n')
		if line == "" && err != nil {
			return 0, 0, errors.New("invalid DIMACS input: missing preamble")
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "p "):
			fields := strings.Fields(trimmed)
			if len(fields) != 4 || fields[1] != "cnf" {
				return 0, 0, errors.Errorf("invalid DIMACS preamble %q", trimmed)
			}
			nVars, e1 := strconv.Atoi(fields[2])
			nClauses, e2 := strconv.Atoi(fields[3])
			if e1 != nil || e2 != nil {
				return 0, 0, errors.Errorf("invalid DIMACS preamble %q", trimmed)
			}
			return nVars, nClauses, nil
		case trimmed == "" || trimmed[0] == 'c':
			// comment or blank
		default:
			return 0, 0, errors.Errorf("invalid DIMACS input: unexpected line %q before preamble", trimmed)
		}
		if err != nil {
			return 0, 0, errors.New("invalid DIMACS input: missing preamble")
		}
	}
}

type formulaVis struct {
	b        *cnf.FormulaBuilder
	f        *cnf.Formula
	nVars    int
	nClauses int
	warns    []string
}

func (v *formulaVis) Init(vars, clauses int) {
	v.nVars, v.nClauses = vars, clauses
}

func (v *formulaVis) Add(m z.Lit) {
	v.b.Add(m)
}

func (v *formulaVis) Eof() {
	v.b.Finish()
	if v.f.Len() != v.nClauses {
		v.warns = append(v.warns,
			fmt.Sprintf("number of clauses does not match DIMACS preamble: %d != %d", v.nClauses, v.f.Len()))
	}
	if int(v.f.MaxVar()) != v.nVars {
		v.warns = append(v.warns,
			fmt.Sprintf("number of variables does not match DIMACS preamble: %d != %d", v.nVars, v.f.MaxVar()))
	}
}

// ReadInto parses DIMACS CNF from r, appending clauses to f.  Preamble
// count mismatches are returned as warnings, not errors.
func ReadInto(r io.Reader, f *cnf.Formula) ([]string, error) {
	vis := &formulaVis{b: cnf.NewFormulaBuilder(f), f: f}
	if err := ReadCnf(r, vis); err != nil {
		return nil, err
	}
	return vis.warns, nil
}
