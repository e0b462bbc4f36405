package mcsat

import "github.com/kr/pretty"

// Outcome is the result of one Step call: exactly one of StepOne,
// StepChoice, or StepDone.
type Outcome interface {
	isOutcome()
}

// StepOne is a single deterministic successor together with a
// human-readable explanation of which rule fired.
type StepOne struct {
	State       *State
	Explanation string
}

// StepChoice is a nondeterministic choice among several successors; the
// engine never picks one itself (spec.md §9's design note).
type StepChoice struct {
	Alternatives []StepOne
}

// StepDone reports a terminal state (Sat or Unsat).
type StepDone struct {
	State       *State
	Explanation string
}

func (StepOne) isOutcome()    {}
func (StepChoice) isOutcome() {}
func (StepDone) isOutcome()   {}

// Tracer is satisfied by *log.Logger (and anything else shaped like it),
// mirroring the teacher's Solver.Tracer field.
type Tracer interface {
	Printf(format string, args ...interface{})
}

// Engine wraps a State with the search's debug/trace switches and test
// hooks, in the shape of the teacher's Solver struct.
type Engine struct {
	// Trace, if true, logs three lines per fired rule via Tracer: the
	// rule's explanation, the before/after status kinds with the resulting
	// trail, and the resulting status formatted with github.com/kr/pretty —
	// the same dependency the teacher uses for its own state dumps.
	Trace  bool
	Tracer Tracer

	// ChoiceIndex selects which StepChoice alternative Run takes whenever
	// the engine reports a nondeterministic choice (spec.md §9's design
	// note: the core driver never resolves Choice outcomes itself, so
	// something above it must). Out-of-range values fall back to 0.
	ChoiceIndex int

	state *State
}

// NewEngine wraps the initial state for env/clauses in an Engine.
func NewEngine(env *Env, clauses []*Clause) *Engine {
	return &Engine{state: NewState(env, clauses)}
}

// State returns the engine's current state.
func (e *Engine) State() *State { return e.state }

// SetState overwrites the engine's current state, used by callers
// resolving a StepChoice.
func (e *Engine) SetState(s *State) { e.state = s }

// Step applies the first applicable rule from the priority-ordered list
// of spec.md §4.4 to s.
func Step(s *State) Outcome {
	switch s.Status.Kind {
	case StatusSat, StatusUnsat:
		return StepDone{State: s, Explanation: "done"}
	case StatusConflictUF:
		ns, expl := solveUFDomainConflict(s)
		return StepOne{State: ns, Explanation: expl}
	case StatusConflictBool:
		ns, expl := resolveBoolConflict(s)
		return StepOne{State: ns, Explanation: expl}
	}

	// Status is Searching: conflict detection, then propagation, then decision.
	if ns, expl, ok := findFalseClause(s); ok {
		return StepOne{State: ns, Explanation: expl}
	}
	if ns, expl, ok := findUFDomainConflict(s); ok {
		return StepOne{State: ns, Explanation: expl}
	}
	if ns, expl, ok := findCongruenceConflict(s); ok {
		return StepOne{State: ns, Explanation: expl}
	}
	if ns, expl, ok := propagate(s); ok {
		return StepOne{State: ns, Explanation: expl}
	}
	if ns, expl, ok := propagateUFEq(s); ok {
		return StepOne{State: ns, Explanation: expl}
	}
	return decide(s)
}

// Stats are purely informational counters describing a completed run, in
// the spirit of the teacher's Solve returning a map[string]interface{} of
// statistics.
type Stats struct {
	Steps              int
	Decisions          int
	BCPPropagations    int
	TheoryEvaluations  int
	BoolConflicts      int
	UFLemmasLearned    int
	CongruenceConflicts int
}

// Run drives an Engine to completion, resolving every StepChoice by taking
// alternative ChoiceIndex (0 unless set; an out-of-range index falls back
// to 0), per DESIGN.md's recorded Choice-resolution policy for
// non-interactive callers. It returns the terminal state and run
// statistics.
func (e *Engine) Run() (*State, Stats) {
	var stats Stats
	for {
		before := e.state
		outcome := Step(e.state)
		stats.Steps++
		switch o := outcome.(type) {
		case StepDone:
			e.trace(o.Explanation, before, o.State)
			e.tally(&stats, before, o.State)
			return o.State, stats
		case StepOne:
			e.trace(o.Explanation, before, o.State)
			e.tally(&stats, before, o.State)
			e.state = o.State
		case StepChoice:
			idx := e.ChoiceIndex
			if idx < 0 || idx >= len(o.Alternatives) {
				idx = 0
			}
			chosen := o.Alternatives[idx]
			e.trace(chosen.Explanation, before, chosen.State)
			e.tally(&stats, before, chosen.State)
			e.state = chosen.State
		}
	}
}

func (e *Engine) tally(stats *Stats, before, after *State) {
	switch {
	case before.Status.Kind == StatusSearching && after.Trail.Kind() == KindDecision && after.Trail != before.Trail:
		stats.Decisions++
	case before.Status.Kind == StatusSearching && after.Trail.Kind() == KindBCP && after.Trail != before.Trail:
		stats.BCPPropagations++
	case before.Status.Kind == StatusSearching && after.Trail.Kind() == KindEval && after.Trail != before.Trail && after.Trail.Parent() == before.Trail:
		stats.TheoryEvaluations++
	}
	if before.Status.Kind == StatusSearching && after.Status.Kind == StatusConflictBool {
		stats.BoolConflicts++
	}
	if before.Status.Kind == StatusSearching && after.Status.Kind == StatusConflictUF && after.Status.ConflictUF != nil &&
		after.Status.ConflictUF.Kind == UFConflictCongruence {
		stats.CongruenceConflicts++
	}
	if before.Status.Kind == StatusConflictUF {
		stats.UFLemmasLearned++
	}
}

func (e *Engine) trace(explanation string, before, after *State) {
	if !e.Trace || e.Tracer == nil {
		return
	}
	e.Tracer.Printf("[TRACE] mcsat: %s", explanation)
	e.Tracer.Printf("[TRACE] mcsat: %s -> %s; trail: %s", before.Status.Kind, after.Status.Kind, after.Trail)
	e.Tracer.Printf("[TRACE] mcsat: status: %s", pretty.Sprint(after.Status))
}
