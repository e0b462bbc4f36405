package mcsat

import "testing"

func TestTrailNormalizesNegatedLiterals(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	pt := env.App(p, nil)
	base := NewTrail(env)

	tr := base.Cons(env, KindDecision, env.Not_(pt), TrueValue, nil)
	if tr.Lit() != pt {
		t.Fatalf("Cons should normalize a negated literal to its positive form, got %s", tr.Lit())
	}
	if tr.Value().IsBool() != true || tr.Value().Bool() != false {
		t.Fatalf("Cons should flip the value when normalizing, got %s", tr.Value())
	}
	v, ok := tr.Assignment().Get(env.Not_(pt))
	if !ok || !v.Bool() {
		t.Fatalf("assignment should also carry the negation's (flipped) value")
	}
}

func TestTrailLevelsOnlyAdvanceOnDecisions(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	q, _ := env.DeclareFun("q", nil, BoolType)
	pt, qt := env.App(p, nil), env.App(q, nil)
	base := NewTrail(env)

	afterDecision := base.Cons(env, KindDecision, pt, TrueValue, nil)
	afterBCP := afterDecision.Cons(env, KindBCP, qt, TrueValue, NewClause(pt, qt))

	if afterDecision.Level() != base.Level()+1 {
		t.Errorf("a Decision entry should increment the level")
	}
	if afterBCP.Level() != afterDecision.Level() {
		t.Errorf("a BCP entry should not change the level")
	}
}

func TestTrailIsImmutable(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	pt := env.App(p, nil)
	base := NewTrail(env)

	child := base.Cons(env, KindDecision, pt, TrueValue, nil)
	if _, ok := base.Assignment().Get(pt); ok {
		t.Fatal("pushing a child entry must not mutate the parent's assignment")
	}
	if child.Parent() != base {
		t.Fatal("child's parent should be the original base trail")
	}
}

func TestUnwindTillNextDecision(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	q, _ := env.DeclareFun("q", nil, BoolType)
	pt, qt := env.App(p, nil), env.App(q, nil)
	base := NewTrail(env)

	decision := base.Cons(env, KindDecision, pt, TrueValue, nil)
	bcp := decision.Cons(env, KindBCP, qt, TrueValue, NewClause(pt, qt))

	if got := UnwindTillNextDecision(bcp); got != base {
		t.Fatalf("UnwindTillNextDecision should land just below the decision, got %v, want base", got)
	}
}

func TestEntriesYoungestFirst(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	q, _ := env.DeclareFun("q", nil, BoolType)
	pt, qt := env.App(p, nil), env.App(q, nil)
	base := NewTrail(env)

	decision := base.Cons(env, KindDecision, pt, TrueValue, nil)
	bcp := decision.Cons(env, KindBCP, qt, TrueValue, NewClause(pt, qt))

	entries := bcp.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 (base, decision, bcp)", len(entries))
	}
	if entries[0].Lit() != qt {
		t.Fatalf("Entries() should be youngest-first: got %s first, want q", entries[0].Lit())
	}
	if entries[len(entries)-1] != base {
		t.Fatalf("Entries() should end at the base entry")
	}
}
