package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/arrowsat/mcsat"
	"github.com/arrowsat/mcsat/parse"
)

func main() {
	log.SetFlags(0)
	verbose := flag.Bool("v", false, "verbose mode: print a rule trace and run statistics")
	choice := flag.Int("choice", 0, "index of the alternative to take whenever the engine reports a nondeterministic choice")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `mcsatc: an MCSat-style decision procedure for propositional logic plus EUF.

Usage:

  mcsatc [-v] [-choice=N] [input.smt]

mcsatc reads a single problem specification in the S-expression form of
spec.md §6. It writes the output in the conventional way: either the first
line is UNSAT, or else the first line is SAT and the remaining lines give
the model as one "term = value" assignment per line.

If no input file is given, mcsatc reads from standard input.
`)
	}
	flag.Parse()

	var r io.Reader = os.Stdin
	if flag.NArg() >= 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}

	env, clauses, err := parse.Parse(r)
	if err != nil {
		log.Fatalln("Error reading input file:", err)
	}
	clauses, _ = mcsat.PrepareClauses(env, clauses)

	engine := mcsat.NewEngine(env, clauses)
	if *verbose {
		engine.Trace = true
		engine.Tracer = log.New(os.Stderr, "", 0)
	}
	engine.ChoiceIndex = *choice

	final, stats := engine.Run()

	if *verbose {
		printStats(stats)
	}

	switch final.Status.Kind {
	case mcsat.StatusUnsat:
		fmt.Println("UNSAT")
	case mcsat.StatusSat:
		fmt.Println("SAT")
		printModel(final)
	default:
		log.Fatalf("mcsatc: internal error: engine stopped in non-terminal status %s", final.Status.Kind)
	}
}

func printModel(final *mcsat.State) {
	terms := final.AllVars()
	names := make([]string, 0, len(terms))
	byName := make(map[string]*mcsat.Term, len(terms))
	for _, t := range terms {
		name := t.String()
		names = append(names, name)
		byName[name] = t
	}
	sort.Strings(names)
	a := final.Assignment()
	for _, name := range names {
		t := byName[name]
		if v, ok := a.Get(t); ok {
			fmt.Printf("%s = %s\n", name, v)
		}
	}
}

func printStats(stats mcsat.Stats) {
	fmt.Fprintf(os.Stderr, "%*s %d\n", 20, "steps", stats.Steps)
	fmt.Fprintf(os.Stderr, "%*s %d\n", 20, "decisions", stats.Decisions)
	fmt.Fprintf(os.Stderr, "%*s %d\n", 20, "bcp propagations", stats.BCPPropagations)
	fmt.Fprintf(os.Stderr, "%*s %d\n", 20, "theory evaluations", stats.TheoryEvaluations)
	fmt.Fprintf(os.Stderr, "%*s %d\n", 20, "bool conflicts", stats.BoolConflicts)
	fmt.Fprintf(os.Stderr, "%*s %d\n", 20, "uf lemmas learned", stats.UFLemmasLearned)
	fmt.Fprintf(os.Stderr, "%*s %d\n", 20, "congruence conflicts", stats.CongruenceConflicts)
}
