package mcsat

import "fmt"

// findFalseClause is the first conflict-detection rule (spec.md §4.7): if
// any clause evaluates to false under the current assignment, the state
// moves to Conflict_bool(c).
func findFalseClause(s *State) (*State, string, bool) {
	a := s.Assignment()
	for _, c := range s.Clauses {
		if EvalToFalse(a, c) {
			return s.withStatus(ConflictBool(c)), fmt.Sprintf("clause %s is false under the trail", c), true
		}
	}
	return nil, "", false
}

// findUFDomainConflict is the second conflict-detection rule: if the UF
// domain table contains any absorbing conflict entry, the state moves to
// the corresponding Conflict_uf record.
func findUFDomainConflict(s *State) (*State, string, bool) {
	for t, entry := range s.UFDomain() {
		switch entry.Kind {
		case DomainConflictForbid:
			rec := &UFConflict{Kind: UFConflictForbid, Term: t, Domain: entry}
			return s.withStatus(ConflictUFStatus(rec)), fmt.Sprintf("forbid conflict on %s", t), true
		case DomainConflictForced2:
			rec := &UFConflict{Kind: UFConflictForced2, Term: t, Domain: entry}
			return s.withStatus(ConflictUFStatus(rec)), fmt.Sprintf("forced-twice conflict on %s", t), true
		}
	}
	return nil, "", false
}

// findCongruenceConflict is the third conflict-detection rule: iterate
// trail entries whose literal is App(f, args) with all args assigned;
// look up the signature table, and if the stored value disagrees, emit a
// Congruence conflict.
func findCongruenceConflict(s *State) (*State, string, bool) {
	a := s.Assignment()
	sigs := s.UFSigs()
	for _, e := range s.Trail.Entries() {
		fn, args, ok := e.Lit().IsApp()
		if !ok {
			continue
		}
		vals := make([]Value, len(args))
		complete := true
		for i, arg := range args {
			v, ok := a.Get(arg)
			if !ok {
				complete = false
				break
			}
			vals[i] = v
		}
		if !complete {
			continue
		}
		key := makeSigKey(fn, vals)
		sig, ok := sigs[key]
		if !ok || sig.Witness == e.Lit() {
			continue
		}
		if sig.Value.Equal(e.Value()) {
			continue
		}
		rec := &UFConflict{Kind: UFConflictCongruence, Fn: fn, T1: e.Lit(), T2: sig.Witness}
		return s.withStatus(ConflictUFStatus(rec)),
			fmt.Sprintf("congruence conflict between %s and %s", e.Lit(), sig.Witness), true
	}
	return nil, "", false
}

// propagate is the BCP rule: pick any clause whose false-filtered form is
// a singleton unit literal not yet assigned, and push it onto the trail
// as a BCP-justified entry.
func propagate(s *State) (*State, string, bool) {
	a := s.Assignment()
	for _, c := range s.Clauses {
		filtered := FilterFalse(a, c)
		lit, ok := AsUnit(filtered)
		if !ok {
			continue
		}
		if _, assigned := a.Get(lit); assigned {
			continue
		}
		tr := s.Trail.Cons(s.Env, KindBCP, lit, TrueValue, c)
		return s.withTrail(tr), fmt.Sprintf("BCP: %s implied by %s", lit, c), true
	}
	return nil, "", false
}

// propagateUFEq is the theory-evaluation rule: pick any unassigned
// equality term whose both sides are assigned, and push its truth value
// onto the trail as an Eval-justified entry.
func propagateUFEq(s *State) (*State, string, bool) {
	a := s.Assignment()
	for _, t := range s.AllVars() {
		lhs, rhs, ok := t.IsEq()
		if !ok {
			continue
		}
		if _, assigned := a.Get(t); assigned {
			continue
		}
		lv, lok := a.Get(lhs)
		rv, rok := a.Get(rhs)
		if !lok || !rok {
			continue
		}
		tr := s.Trail.Cons(s.Env, KindEval, t, BoolValue(lv.Equal(rv)), nil)
		return s.withTrail(tr), fmt.Sprintf("theory eval: %s = %v", t, lv.Equal(rv)), true
	}
	return nil, "", false
}

// decide is the decision rule: if there is nothing left to decide, the
// state is Sat. Otherwise it exposes the nondeterministic choice of
// spec.md §4.11, picking ToDecide's first (highest clause-occurrence-count)
// candidate — the teacher's litHeap activity order (decideheap.go), adapted
// from watch-list size to clause-membership count.
func decide(s *State) Outcome {
	candidates := s.ToDecide()
	if len(candidates) == 0 {
		return StepDone{State: s.withStatus(Sat()), Explanation: "no more variables to decide: sat"}
	}
	x := candidates[0]
	env := s.Env
	if x.Type().IsBool() {
		trueTrail := s.Trail.Cons(env, KindDecision, x, TrueValue, nil)
		falseTrail := s.Trail.Cons(env, KindDecision, x, FalseValue, nil)
		return StepChoice{Alternatives: []StepOne{
			{State: s.withTrail(trueTrail), Explanation: fmt.Sprintf("decide %s = true", x)},
			{State: s.withTrail(falseTrail), Explanation: fmt.Sprintf("decide %s = false", x)},
		}}
	}

	domain := s.UFDomain()
	var value Value
	switch entry, ok := domain[x]; {
	case !ok:
		value = env.anon(x.Type(), 0)
	case entry.Kind == DomainForced:
		value = entry.ForcedValue
	case entry.Kind == DomainForbid:
		value = firstAllowedAnon(env, x.Type(), entry.Forbidden)
	default:
		panic(fmt.Sprintf("mcsat: decide: unresolved conflict entry for %s reached the decision rule", x))
	}
	tr := s.Trail.Cons(env, KindDecision, x, value, nil)
	return StepOne{State: s.withTrail(tr), Explanation: fmt.Sprintf("decide %s = %s", x, value)}
}

// firstAllowedAnon picks the smallest-index anonymous value of typ that is
// not one of forbidden's values.
func firstAllowedAnon(env *Env, typ *Type, forbidden []ForbidPair) Value {
	for i := 0; ; i++ {
		v := env.anon(typ, i)
		blocked := false
		for _, f := range forbidden {
			if f.Value.Equal(v) {
				blocked = true
				break
			}
		}
		if !blocked {
			return v
		}
	}
}

// resolveBoolConflict implements spec.md §4.9 in full, including the
// decision-frame case split that subsumes the historical Backjump status
// (DESIGN.md open-question decision #2). Each call performs exactly one
// of §4.9's numbered transformations and returns the resulting successor.
func resolveBoolConflict(s *State) (*State, string) {
	env := s.Env
	c := s.Status.ConflictClause

	if c.Len() == 0 {
		return s.withStatus(Unsat()), "empty conflict clause: unsat"
	}

	falseTerm := env.Bool(false)
	if c.Contains(falseTerm) {
		return s.withStatus(ConflictBool(c.Without(falseTerm))), "drop literal `false` from conflict clause"
	}

	top := s.Trail
	if top == nil {
		return s.withStatus(Unsat()), "empty trail under conflict: unsat"
	}

	switch top.Kind() {
	case KindBCP:
		d := top.Reason()
		lit := top.Lit()
		value := top.Value()
		notLit := env.Not_(lit)
		below := top.Parent()
		switch {
		case value.IsBool() && !value.Bool() && d.Contains(notLit):
			newConflict := Union(d.Without(notLit), c.Without(lit))
			ns := s.withTrail(below)
			ns.Status = ConflictBool(newConflict)
			return ns, fmt.Sprintf("resolve on %s against reason %s", lit, d)
		case c.Contains(notLit):
			newConflict := Union(d.Without(lit), c.Without(notLit))
			ns := s.withTrail(below)
			ns.Status = ConflictBool(newConflict)
			return ns, fmt.Sprintf("resolve on %s against conflict clause", lit)
		default:
			ns := s.withTrail(below)
			ns.Status = ConflictBool(c)
			return ns, fmt.Sprintf("consume BCP entry %s", lit)
		}
	case KindEval:
		ns := s.withTrail(top.Parent())
		ns.Status = ConflictBool(c)
		return ns, fmt.Sprintf("consume eval entry %s", top.Lit())
	case KindDecision:
		below := top.Parent()
		cPrime := FilterFalse(below.Assignment(), c)
		switch cPrime.Len() {
		case 0:
			ns := s.withTrail(below)
			ns.Status = ConflictBool(c)
			return ns, fmt.Sprintf("T-consume decision %s", top.Lit())
		case 1:
			ns := s.withLearnedClause(c)
			ns.Trail = below
			ns.Status = Searching()
			return ns, fmt.Sprintf("backjump: learn %s", c)
		case 2:
			if top.Lit().Type().IsBool() {
				panic(fmt.Sprintf("mcsat: internal error: semantic case split attempted at a boolean decision (%s)", top.Lit()))
			}
			chosen := cPrime.Lits()[0]
			newTrail := below.Cons(env, KindDecision, chosen, TrueValue, nil)
			ns := s.withLearnedClause(c)
			ns.Trail = newTrail
			ns.Status = Searching()
			return ns, fmt.Sprintf("semantic case split: learn %s, assign %s", c, chosen)
		default:
			panic(fmt.Sprintf("mcsat: internal error: filtered conflict clause %s has %d literals at a decision frame (want <= 2)", cPrime, cPrime.Len()))
		}
	default:
		panic(fmt.Sprintf("mcsat: unreachable trail entry kind %d", top.Kind()))
	}
}

// solveUFDomainConflict lifts a Conflict_uf status into a learned
// Conflict_bool status by synthesizing a lemma (spec.md §4.8) that is
// false under the current trail.
func solveUFDomainConflict(s *State) (*State, string) {
	rec := s.Status.ConflictUF
	lemma := MkUFLemma(s.Env, s.Assignment(), rec)
	ns := s.withLearnedClause(lemma)
	ns.Status = ConflictBool(lemma)
	return ns, fmt.Sprintf("synthesize UF lemma %s", lemma)
}
