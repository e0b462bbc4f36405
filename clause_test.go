package mcsat

import "testing"

func TestClauseDedup(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	pt := env.App(p, nil)

	c := NewClause(pt, pt, pt)
	if c.Len() != 1 {
		t.Fatalf("NewClause should dedup identical literals, got len %d", c.Len())
	}
}

func TestClauseString(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	q, _ := env.DeclareFun("q", nil, BoolType)
	pt, qt := env.App(p, nil), env.App(q, nil)

	if NewClause().String() != "⊥" {
		t.Error("empty clause should render as ⊥")
	}
	if NewClause(pt).String() != "p" {
		t.Errorf("unit clause should render bare, got %q", NewClause(pt).String())
	}
	got := NewClause(pt, qt).String()
	if got != "(or p q)" {
		t.Errorf("got %q, want (or p q)", got)
	}
}

func TestClauseNonBooleanLiteralPanics(t *testing.T) {
	env := NewEnv()
	ty, _ := env.DeclareType("T")
	a, _ := env.DeclareFun("a", nil, ty)

	defer func() {
		if recover() == nil {
			t.Error("NewClause with a non-boolean literal should panic")
		}
	}()
	NewClause(env.App(a, nil))
}

func TestFilterFalseAndAsUnit(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	q, _ := env.DeclareFun("q", nil, BoolType)
	pt, qt := env.App(p, nil), env.App(q, nil)

	a := Assignment{pt: FalseValue, env.Not_(pt): TrueValue}
	c := NewClause(pt, qt)
	filtered := FilterFalse(a, c)
	lit, ok := AsUnit(filtered)
	if !ok || lit != qt {
		t.Fatalf("FilterFalse/AsUnit: got %v, %v; want q, true", lit, ok)
	}
}

func TestUnionAndWithout(t *testing.T) {
	env := NewEnv()
	p, _ := env.DeclareFun("p", nil, BoolType)
	q, _ := env.DeclareFun("q", nil, BoolType)
	r, _ := env.DeclareFun("r", nil, BoolType)
	pt, qt, rt := env.App(p, nil), env.App(q, nil), env.App(r, nil)

	u := Union(NewClause(pt, qt), NewClause(qt, rt))
	if u.Len() != 3 {
		t.Fatalf("Union should dedup shared literals, got len %d", u.Len())
	}
	w := u.Without(qt)
	if w.Len() != 2 || w.Contains(qt) {
		t.Fatalf("Without(q) should drop q, got %s", w)
	}
}
