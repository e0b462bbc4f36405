package mcsat

import "fmt"

// Type is a hash-consed type expression. Equality between two Types is
// pointer equality: the Env that created them guarantees that structurally
// equal types are represented by the same *Type value.
type Type struct {
	kind typeKind

	// Uninterpreted
	name string

	// Arrow
	from *Type
	to   *Type
}

type typeKind byte

const (
	typeBool typeKind = iota
	typeRat
	typeUninterpreted
	typeArrow
)

// BoolType and RatType are the two built-in, globally shared base types.
// Arrow and Uninterpreted types are hash-consed per Env, since their
// identity depends on declarations made within that environment.
var (
	BoolType = &Type{kind: typeBool}
	RatType  = &Type{kind: typeRat}
)

func (t *Type) String() string {
	switch t.kind {
	case typeBool:
		return "bool"
	case typeRat:
		return "rat"
	case typeUninterpreted:
		return t.name
	case typeArrow:
		args, ret := t.Open()
		s := "(->"
		for _, a := range args {
			s += " " + a.String()
		}
		return s + " " + ret.String() + ")"
	default:
		panic(fmt.Sprintf("mcsat: unreachable type kind %d", t.kind))
	}
}

// IsBool reports whether t is the boolean type.
func (t *Type) IsBool() bool { return t.kind == typeBool }

// IsArrow reports whether t is a function type.
func (t *Type) IsArrow() bool { return t.kind == typeArrow }

// Open destructures a right-associated arrow chain T1 -> T2 -> ... -> Tn ->
// Tret into its argument list and return type. If t is not an arrow, it
// returns (nil, t).
func (t *Type) Open() (args []*Type, ret *Type) {
	for t.kind == typeArrow {
		args = append(args, t.from)
		t = t.to
	}
	return args, t
}

// uninterpretedType hash-conses a named uninterpreted type within env.
func (env *Env) uninterpretedType(name string) *Type {
	if t, ok := env.types[name]; ok {
		return t
	}
	t := &Type{kind: typeUninterpreted, name: name}
	env.types[name] = t
	return t
}

// arrowType hash-conses a right-associated arrow type within env.
func (env *Env) arrowType(args []*Type, ret *Type) *Type {
	t := ret
	for i := len(args) - 1; i >= 0; i-- {
		key := arrowKey{from: args[i], to: t}
		cur, ok := env.arrows[key]
		if !ok {
			cur = &Type{kind: typeArrow, from: args[i], to: t}
			env.arrows[key] = cur
		}
		t = cur
	}
	return t
}

type arrowKey struct {
	from *Type
	to   *Type
}

// Var is a declared function symbol (0-ary symbols are ordinary constants).
// Equality of two Vars is identifier equality: a Var is uniquely identified
// by its name within the Env that declared it.
type Var struct {
	name string
	typ  *Type
}

// Name returns the symbol's declared name.
func (v *Var) Name() string { return v.name }

// Type returns the symbol's declared type.
func (v *Var) Type() *Type { return v.typ }

func (v *Var) String() string { return v.name }
