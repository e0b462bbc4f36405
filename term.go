package mcsat

import (
	"fmt"
	"strings"
)

// Term is a hash-consed, typed term. Two Terms are structurally equal iff
// they are the same *Term value: the Env that built them guarantees
// id-equality (and hence pointer equality) coincides with structural
// equality. Terms must only be built through an Env's smart constructors
// (Bool, Not_, Eq, App, If); there is no exported way to build one by hand.
type Term struct {
	id   int
	kind termKind
	typ  *Type

	boolVal bool  // termBool
	operand *Term // termNot

	left, right *Term // termEq (left.id <= right.id, canonical order)

	fn   *Var    // termApp
	args []*Term // termApp

	cond, then, els *Term // termIf
}

type termKind byte

const (
	termBool termKind = iota
	termNot
	termEq
	termApp
	termIf
)

// ID returns a term's hash-cons identifier. Two terms are structurally
// equal iff their IDs are equal.
func (t *Term) ID() int { return t.id }

// Type returns the term's type.
func (t *Term) Type() *Type { return t.typ }

// IsApp reports whether t is a function application, and if so its symbol
// and arguments.
func (t *Term) IsApp() (*Var, []*Term, bool) {
	if t.kind != termApp {
		return nil, nil, false
	}
	return t.fn, t.args, true
}

// IsEq reports whether t is an equality literal, and if so its two sides.
func (t *Term) IsEq() (*Term, *Term, bool) {
	if t.kind != termEq {
		return nil, nil, false
	}
	return t.left, t.right, true
}

// IsNot reports whether t is a negation, and if so its operand.
func (t *Term) IsNot() (*Term, bool) {
	if t.kind != termNot {
		return nil, false
	}
	return t.operand, true
}

// IsBoolConst reports whether t is the constant true/false term.
func (t *Term) IsBoolConst() (bool, bool) {
	if t.kind != termBool {
		return false, false
	}
	return t.boolVal, true
}

// IsIf reports whether t is a conditional, and if so its three parts.
func (t *Term) IsIf() (cond, then, els *Term, ok bool) {
	if t.kind != termIf {
		return nil, nil, nil, false
	}
	return t.cond, t.then, t.els, true
}

func (t *Term) String() string {
	switch t.kind {
	case termBool:
		if t.boolVal {
			return "true"
		}
		return "false"
	case termNot:
		return "(not " + t.operand.String() + ")"
	case termEq:
		return "(= " + t.left.String() + " " + t.right.String() + ")"
	case termApp:
		if len(t.args) == 0 {
			return t.fn.name
		}
		parts := make([]string, len(t.args))
		for i, a := range t.args {
			parts[i] = a.String()
		}
		return "(" + t.fn.name + " " + strings.Join(parts, " ") + ")"
	case termIf:
		return fmt.Sprintf("(if %s %s %s)", t.cond, t.then, t.els)
	default:
		panic(fmt.Sprintf("mcsat: unreachable term kind %d", t.kind))
	}
}

// Bool returns the (unique, hash-consed) term for the boolean constant b.
func (env *Env) Bool(b bool) *Term {
	if t, ok := env.boolTerms[b]; ok {
		return t
	}
	t := &Term{id: env.nextTermID(), kind: termBool, typ: BoolType, boolVal: b}
	env.boolTerms[b] = t
	return t
}

// Not_ is the negation smart constructor. It is the sole entry point for
// negation and performs the two canonicalizing folds that trail coherence
// depends on: not(Bool b) = Bool(!b), and not(not u) = u.
func (env *Env) Not_(t *Term) *Term {
	if !t.typ.IsBool() {
		panic(fmt.Sprintf("mcsat: Not_ applied to non-boolean term %s : %s", t, t.typ))
	}
	if b, ok := t.IsBoolConst(); ok {
		return env.Bool(!b)
	}
	if inner, ok := t.IsNot(); ok {
		return inner
	}
	if n, ok := env.notTerms[t.id]; ok {
		return n
	}
	n := &Term{id: env.nextTermID(), kind: termNot, typ: BoolType, operand: t}
	env.notTerms[t.id] = n
	return n
}

// Eq is the equality smart constructor. It requires ty(a) = ty(b) and
// stores the pair in canonical (smaller-id-first) order so that eq(a,b)
// and eq(b,a) hash-cons to the same term.
func (env *Env) Eq(a, b *Term) *Term {
	if a.typ != b.typ {
		panic(fmt.Sprintf("mcsat: Eq operand type mismatch: %s : %s vs %s : %s", a, a.typ, b, b.typ))
	}
	if a.id > b.id {
		a, b = b, a
	}
	key := [2]int{a.id, b.id}
	if t, ok := env.eqTerms[key]; ok {
		return t
	}
	t := &Term{id: env.nextTermID(), kind: termEq, typ: BoolType, left: a, right: b}
	env.eqTerms[key] = t
	return t
}

// App is the application smart constructor: f's type must open into
// (args, ret) with exactly len(args) matching-typed arguments; the
// resulting term has type ret.
func (env *Env) App(f *Var, args []*Term) *Term {
	wantArgs, ret := f.typ.Open()
	if len(wantArgs) != len(args) {
		panic(fmt.Sprintf("mcsat: %s expects %d args, got %d", f, len(wantArgs), len(args)))
	}
	for i, a := range args {
		if a.typ != wantArgs[i] {
			panic(fmt.Sprintf("mcsat: %s arg %d: expected %s, got %s : %s", f, i, wantArgs[i], a, a.typ))
		}
	}
	key := appKey(f, args)
	if t, ok := env.appTerms[key]; ok {
		return t
	}
	storedArgs := make([]*Term, len(args))
	copy(storedArgs, args)
	t := &Term{id: env.nextTermID(), kind: termApp, typ: ret, fn: f, args: storedArgs}
	env.appTerms[key] = t
	return t
}

func appKey(f *Var, args []*Term) string {
	var b strings.Builder
	b.WriteString(f.name)
	for _, a := range args {
		fmt.Fprintf(&b, "/%d", a.id)
	}
	return b.String()
}

// If is the conditional smart constructor: ty(cond) must be bool, and
// ty(then) must equal ty(els); the resulting term has that common type.
// PrepareClauses (ifs.go) eliminates If terms from a clause set; callers
// run it before building the engine, so the boolean/UF rules never see them.
func (env *Env) If(cond, then, els *Term) *Term {
	if !cond.typ.IsBool() {
		panic(fmt.Sprintf("mcsat: If condition %s is not boolean (%s)", cond, cond.typ))
	}
	if then.typ != els.typ {
		panic(fmt.Sprintf("mcsat: If branches disagree in type: %s vs %s", then.typ, els.typ))
	}
	key := [3]int{cond.id, then.id, els.id}
	if t, ok := env.ifTerms[key]; ok {
		return t
	}
	t := &Term{id: env.nextTermID(), kind: termIf, typ: then.typ, cond: cond, then: then, els: els}
	env.ifTerms[key] = t
	return t
}

// Abs strips a leading Not, returning the term's absolute value (the
// variable that a literal is built from).
func Abs(t *Term) *Term {
	if inner, ok := t.IsNot(); ok {
		return inner
	}
	return t
}

// Sign reports the polarity of a literal: false if its top constructor is
// Not or the boolean constant false, true otherwise.
func Sign(t *Term) bool {
	if _, ok := t.IsNot(); ok {
		return false
	}
	if b, ok := t.IsBoolConst(); ok {
		return b
	}
	return true
}
