// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command pjos solves DIMACS CNF problems with the CDCL solver, or the
// simpler DPLL solver on request.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/protopopov1122/pjos/cnf"
	"github.com/protopopov1122/pjos/dimacs"
	"github.com/protopopov1122/pjos/solver"
	"github.com/protopopov1122/pjos/z"
)

// assumeFlag accumulates assumption literals from repeated -a flags.
type assumeFlag []z.Lit

var _ pflag.Value = (*assumeFlag)(nil)

func (a *assumeFlag) String() string {
	return lits2str(*a)
}

func (a *assumeFlag) Set(val string) error {
	d, err := strconv.Atoi(val)
	if err != nil {
		return err
	}
	if d == 0 {
		return errors.New("assumption cannot be zero")
	}
	*a = append(*a, z.Dimacs2Lit(d))
	return nil
}

func (a *assumeFlag) Type() string {
	return "literal"
}

type options struct {
	assumes      assumeFlag
	quiet        bool
	printLearned bool
	noModel      bool
	useDpll      bool
	set          []string

	scoring solver.ScoringParams
	params  solver.Parameters
}

var log = logrus.New()

func main() {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "pjos [flags] [DIMACS file]",
		Short:         "pjos is a CDCL SAT solver for DIMACS CNF formulas",
		Long:          solver.Identifier + " " + solver.Version + "\nIf no DIMACS file is specified, stdin is used.",
		Version:       solver.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}
	flags := cmd.Flags()
	flags.VarP(&opts.assumes, "assume", "a", "add literal L to assumptions")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress auxiliary information")
	flags.BoolVarP(&opts.printLearned, "learnts", "l", false, "print learned clauses (CDCL only)")
	flags.BoolVarP(&opts.noModel, "no-model", "n", false, "do not print satisfying assignment")
	flags.BoolVarP(&opts.useDpll, "use-dpll", "D", false, "use DPLL solver instead of CDCL")
	flags.StringArrayVarP(&opts.set, "set", "s", nil, "set solver parameter name=value")

	if err := cmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(opts *options, args []string) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if opts.quiet {
		log.SetLevel(logrus.WarnLevel)
	}

	if err := parseSettings(opts); err != nil {
		return err
	}
	if opts.useDpll && opts.printLearned {
		return errors.New("DPLL solver has no support for learned clauses")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	formula, err := loadFormula(path)
	if err != nil {
		return err
	}

	if opts.useDpll {
		return runDpll(opts, formula)
	}
	return runCdcl(opts, formula)
}

func parseSettings(opts *options) error {
	opts.scoring = solver.DefaultScoring()
	opts.params = solver.DefaultParameters()
	for _, s := range opts.set {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return errors.Errorf("expected --set option in format name=value, got %q", s)
		}
		switch name {
		case "evsids-decay-rate":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid value for %s", name)
			}
			opts.scoring.DecayRate = f
		case "evsids-rescore-at":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid value for %s", name)
			}
			opts.scoring.RescoreThreshold = f
			opts.scoring.RescoreFactor = 1.0 / f
		case "evsids-init-increment":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid value for %s", name)
			}
			opts.scoring.InitialIncrement = f
		case "cdcl-phase-saving":
			opts.params.PhaseSaving = value == "on"
		case "cdcl-pure-literal-elim":
			opts.params.PureLiteralElim = value == "on"
		default:
			return errors.Errorf("unknown parameter %q to set", name)
		}
	}
	return nil
}

func loadFormula(path string) (*cnf.Formula, error) {
	var r io.Reader = os.Stdin
	name := "<stdin>"
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "opening DIMACS file")
		}
		defer f.Close()
		r = f
		name = path
	}
	log.WithField("input", name).Info("loading formula")

	formula := &cnf.Formula{}
	warns, err := dimacs.ReadInto(r, formula)
	if err != nil {
		return nil, err
	}
	for _, w := range warns {
		log.Warn(w)
	}
	return formula, nil
}

func runCdcl(opts *options, formula *cnf.Formula) error {
	log.Info(solver.SignatureCdcl())

	s := solver.NewCdclScoring(formula, opts.scoring)
	*s.Params() = opts.params
	s.SetLogger(log)

	learned := 0
	s.OnLearnedClause(func(c *cnf.Clause) {
		learned++
		if opts.printLearned {
			fmt.Printf("c learn clause: %s\n", c)
		}
	})

	start := time.Now()
	st, conflict := s.SolveFinal(opts.assumes...)
	dur := time.Since(start)

	log.WithField("duration", dur).Info("solved")
	if st == solver.Unsatisfied && len(opts.assumes) > 0 {
		log.WithField("conflict", lits2str(conflict)).Info("final conflict")
	}
	log.WithField("count", learned).Info("learned clauses")

	return dimacs.WriteSolution(os.Stdout, st, s.Assignment(), !opts.noModel)
}

func runDpll(opts *options, formula *cnf.Formula) error {
	log.Info(solver.SignatureDpll())

	s := solver.NewModifiableDpll(formula)
	s.SetLogger(log)

	start := time.Now()
	st := s.Solve(opts.assumes...)
	dur := time.Since(start)

	log.WithField("duration", dur).Info("solved")
	return dimacs.WriteSolution(os.Stdout, st, s.Assignment(), !opts.noModel)
}

func lits2str(ms []z.Lit) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
