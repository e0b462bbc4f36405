package mcsat

import "fmt"

// otherSide returns the side of an equality literal that is not t.
func otherSide(eqLit, t *Term) *Term {
	l, r, ok := eqLit.IsEq()
	if !ok {
		panic("mcsat: otherSide: witness " + eqLit.String() + " is not an equality literal")
	}
	if l == t {
		return r
	}
	if r == t {
		return l
	}
	panic("mcsat: otherSide: witness " + eqLit.String() + " does not mention " + t.String())
}

// MkUFLemma turns a theory conflict into a learned propositional clause
// that is false under the current trail, per spec.md §4.8. It panics (an
// internal-invariant violation, spec.md §7 class 2) if the synthesized
// lemma is not in fact false under a — a programmer error in the rule
// that detected the conflict.
func MkUFLemma(env *Env, a Assignment, conflict *UFConflict) *Clause {
	var lemma *Clause
	switch conflict.Kind {
	case UFConflictForbid:
		t := conflict.Term
		_, wForce, wForbid := conflict.Domain.ConflictForbid()
		t1 := otherSide(wForbid, t)
		t2 := otherSide(wForce, t)
		lemma = NewClause(env.Eq(t1, t), env.Not_(env.Eq(t2, t)), env.Not_(env.Eq(t1, t2)))
	case UFConflictForced2:
		t := conflict.Term
		_, w1, _, w2 := conflict.Domain.ConflictForced2()
		t1 := otherSide(w1, t)
		t2 := otherSide(w2, t)
		lemma = NewClause(env.Not_(env.Eq(t1, t)), env.Not_(env.Eq(t2, t)), env.Eq(t1, t2))
	case UFConflictCongruence:
		lemma = mkCongruenceLemma(env, a, conflict)
	default:
		panic(fmt.Sprintf("mcsat: unreachable UF conflict kind %d", conflict.Kind))
	}
	if !EvalToFalse(a, lemma) {
		panic(fmt.Sprintf("mcsat: internal error: UF lemma %s does not evaluate to false under the current trail", lemma))
	}
	return lemma
}

func mkCongruenceLemma(env *Env, a Assignment, conflict *UFConflict) *Clause {
	_, l1, ok1 := conflict.T1.IsApp()
	_, l2, ok2 := conflict.T2.IsApp()
	if !ok1 || !ok2 || len(l1) != len(l2) {
		panic("mcsat: internal error: congruence conflict on non-matching applications")
	}
	hyps := make([]*Term, len(l1))
	for i := range l1 {
		hyps[i] = env.Not_(env.Eq(l1[i], l2[i]))
	}

	var conclusion *Clause
	if conflict.T1.Type().IsBool() {
		v1, ok1 := a.Get(conflict.T1)
		v2, ok2 := a.Get(conflict.T2)
		if !ok1 || !ok2 || v1.Equal(v2) {
			panic("mcsat: internal error: boolean congruence conflict without disagreeing assignments")
		}
		trueSide, falseSide := conflict.T1, conflict.T2
		if !v1.Bool() {
			trueSide, falseSide = conflict.T2, conflict.T1
		}
		conclusion = NewClause(env.Not_(trueSide), falseSide)
	} else {
		conclusion = NewClause(env.Eq(conflict.T1, conflict.T2))
	}
	return Union(conclusion, NewClause(hyps...))
}
