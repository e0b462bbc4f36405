package mcsat

import "fmt"

// Env is a typing environment together with the hash-cons tables for every
// Type, Term, and anonymous Value built within it. Hash-cons tables are
// deliberately per-Env (spec.md §9's open question, resolved in
// DESIGN.md): two Envs never share term identity, which lets multiple
// solver instances run independently within one process, mirroring the
// teacher's pattern of a self-contained solver struct rather than
// package-level mutable state.
type Env struct {
	types map[string]*Type // declared uninterpreted types, by name
	arrows map[arrowKey]*Type

	vars map[string]*Var // declared function symbols (0-ary = constants), by name

	anonPools map[*Type]*anonPool

	boolTerms map[bool]*Term
	notTerms  map[int]*Term
	eqTerms   map[[2]int]*Term
	appTerms  map[string]*Term
	ifTerms   map[[3]int]*Term

	termID int
}

// NewEnv creates an empty typing environment.
func NewEnv() *Env {
	return &Env{
		types:     make(map[string]*Type),
		arrows:    make(map[arrowKey]*Type),
		vars:      make(map[string]*Var),
		anonPools: make(map[*Type]*anonPool),
		boolTerms: make(map[bool]*Term),
		notTerms:  make(map[int]*Term),
		eqTerms:   make(map[[2]int]*Term),
		appTerms:  make(map[string]*Term),
		ifTerms:   make(map[[3]int]*Term),
	}
}

func (env *Env) nextTermID() int {
	id := env.termID
	env.termID++
	return id
}

// DeclareType declares a fresh uninterpreted type named name. It is an
// error (shadowing) to declare a name already used by a type or a function
// symbol in this Env.
func (env *Env) DeclareType(name string) (*Type, error) {
	if _, ok := env.types[name]; ok {
		return nil, fmt.Errorf("mcsat: type %q already declared", name)
	}
	if _, ok := env.vars[name]; ok {
		return nil, fmt.Errorf("mcsat: name %q already declared as a function symbol", name)
	}
	return env.uninterpretedType(name), nil
}

// LookupType returns the previously declared type named name, or nil.
func (env *Env) LookupType(name string) *Type {
	return env.types[name]
}

// BuildArrow hash-conses the right-associated arrow type over args -> ret,
// exposed so that callers outside this package (the parse package, in
// particular) can resolve a `(-> T1 ... Tn TRET)` type form without
// reaching into Env internals.
func (env *Env) BuildArrow(args []*Type, ret *Type) *Type {
	if len(args) == 0 {
		return ret
	}
	return env.arrowType(args, ret)
}

// DeclareFun declares a fresh function symbol (or constant, if args is
// empty) named name with the given argument types and return type. It is
// an error (shadowing) to declare a name already in use.
func (env *Env) DeclareFun(name string, args []*Type, ret *Type) (*Var, error) {
	if _, ok := env.vars[name]; ok {
		return nil, fmt.Errorf("mcsat: function symbol %q already declared", name)
	}
	if _, ok := env.types[name]; ok {
		return nil, fmt.Errorf("mcsat: name %q already declared as a type", name)
	}
	typ := ret
	if len(args) > 0 {
		typ = env.arrowType(args, ret)
	}
	v := &Var{name: name, typ: typ}
	env.vars[name] = v
	return v, nil
}

// LookupFun returns the previously declared function symbol named name, or
// nil.
func (env *Env) LookupFun(name string) *Var {
	return env.vars[name]
}

// FreshConstant mints a brand-new constant of type typ, used by
// PrepareClauses (ifs.go) to name the value of a lifted conditional. The minted name is
// guaranteed fresh within env.
func (env *Env) FreshConstant(typ *Type) *Var {
	for i := 0; ; i++ {
		name := fmt.Sprintf("$if%d", i)
		if _, ok := env.vars[name]; ok {
			continue
		}
		v := &Var{name: name, typ: typ}
		env.vars[name] = v
		return v
	}
}
