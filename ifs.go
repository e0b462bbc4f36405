package mcsat

// PrepareClauses eliminates every If(a,b,c) term from clauses before the
// main rule loop ever sees them (spec.md §4.12): each If occurrence is
// replaced by a fresh constant of the same type, and two defining clauses
// are added that pin the constant's value to the taken branch. It runs to
// a fixpoint (a clause set with no remaining If terms) and returns the
// rewritten clauses together with the substitution recorded for
// explanation purposes (the same shape of map as a State's Subst field;
// it is returned to the caller, not stored in any State).
func PrepareClauses(env *Env, clauses []*Clause) ([]*Clause, map[*Term]*Term) {
	subst := make(map[*Term]*Term)
	for {
		found := findFirstIf(clauses)
		if found == nil {
			return clauses, subst
		}
		cond, then, els, _ := found.IsIf()
		u := env.FreshConstant(found.Type())
		uTerm := env.App(u, nil)

		repl := map[*Term]*Term{found: uTerm}
		cache := make(map[*Term]*Term)
		rewritten := make([]*Clause, len(clauses))
		for i, c := range clauses {
			lits := make([]*Term, len(c.Lits()))
			for j, l := range c.Lits() {
				lits[j] = substituteTerm(env, repl, cache, l)
			}
			rewritten[i] = NewClause(lits...)
		}
		rewritten = append(rewritten,
			NewClause(env.Not_(cond), env.Eq(uTerm, then)),
			NewClause(cond, env.Eq(uTerm, els)),
		)

		subst[found] = uTerm
		clauses = rewritten
	}
}

// findFirstIf returns some If term reachable from clauses' literals, or
// nil if there is none.
func findFirstIf(clauses []*Clause) *Term {
	seen := make(map[*Term]struct{})
	var result *Term
	var visit func(t *Term)
	visit = func(t *Term) {
		if result != nil {
			return
		}
		t = Abs(t)
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		if _, _, _, ok := t.IsIf(); ok {
			result = t
			return
		}
		if _, args, ok := t.IsApp(); ok {
			for _, a := range args {
				visit(a)
			}
		}
		if l, r, ok := t.IsEq(); ok {
			visit(l)
			visit(r)
		}
	}
	for _, c := range clauses {
		for _, lit := range c.Lits() {
			visit(lit)
			if result != nil {
				return result
			}
		}
	}
	return result
}

// substituteTerm rewrites t by replacing every occurrence of a key of
// repl with its value, rebuilding through the smart constructors so the
// result stays hash-consed and well-typed. cache memoizes subterms already
// rewritten in this call so sharing in the source DAG is preserved rather
// than re-expanded.
func substituteTerm(env *Env, repl map[*Term]*Term, cache map[*Term]*Term, t *Term) *Term {
	if r, ok := repl[t]; ok {
		return r
	}
	if c, ok := cache[t]; ok {
		return c
	}

	var out *Term
	switch {
	case t.kind == termBool:
		out = t
	case t.kind == termNot:
		out = env.Not_(substituteTerm(env, repl, cache, t.operand))
	case t.kind == termEq:
		out = env.Eq(substituteTerm(env, repl, cache, t.left), substituteTerm(env, repl, cache, t.right))
	case t.kind == termApp:
		newArgs := make([]*Term, len(t.args))
		for i, a := range t.args {
			newArgs[i] = substituteTerm(env, repl, cache, a)
		}
		out = env.App(t.fn, newArgs)
	case t.kind == termIf:
		out = env.If(
			substituteTerm(env, repl, cache, t.cond),
			substituteTerm(env, repl, cache, t.then),
			substituteTerm(env, repl, cache, t.els),
		)
	default:
		out = t
	}
	cache[t] = out
	return out
}
