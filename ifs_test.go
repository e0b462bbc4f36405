package mcsat

import "testing"

func TestPrepareClausesLiftsIf(t *testing.T) {
	env := NewEnv()
	ty, _ := env.DeclareType("T")
	guard, _ := env.DeclareFun("guard", nil, BoolType)
	a, _ := env.DeclareFun("a", nil, ty)
	b, _ := env.DeclareFun("b", nil, ty)
	c, _ := env.DeclareFun("c", nil, ty)

	guardT, at, bt, ct := env.App(guard, nil), env.App(a, nil), env.App(b, nil), env.App(c, nil)
	ifTerm := env.If(guardT, at, bt)
	original := NewClause(env.Eq(ct, ifTerm))

	rewritten, subst := PrepareClauses(env, []*Clause{original})

	if findFirstIf(rewritten) != nil {
		t.Fatal("PrepareClauses should eliminate every If term from the rewritten clauses")
	}
	if len(rewritten) != 3 {
		t.Fatalf("got %d clauses, want 3 (original + two defining clauses)", len(rewritten))
	}
	u, ok := subst[ifTerm]
	if !ok {
		t.Fatal("subst should record the fresh constant standing in for the lifted If term")
	}
	if u.Type() != ty {
		t.Fatalf("fresh constant should share the If term's type, got %s", u.Type())
	}

	// The rewritten original clause should mention u in place of the If term.
	if !rewritten[0].Contains(env.Eq(ct, u)) {
		t.Fatalf("rewritten clause %s should mention eq(c, u) in place of the If term", rewritten[0])
	}
}

func TestPrepareClausesIsFixpointStable(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	pt := env.App(p, nil)
	clauses := []*Clause{NewClause(pt)}

	rewritten, subst := PrepareClauses(env, clauses)
	if len(rewritten) != 1 || len(subst) != 0 {
		t.Fatalf("a clause set with no If terms should pass through PrepareClauses unchanged")
	}
}
