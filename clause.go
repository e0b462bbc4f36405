package mcsat

import "strings"

// Clause is a set (unordered, duplicate-free) of boolean-typed terms,
// interpreted as their disjunction.
type Clause struct {
	lits []*Term
}

// NewClause builds a clause from lits, discarding duplicates (by term
// identity).
func NewClause(lits ...*Term) *Clause {
	seen := make(map[*Term]struct{}, len(lits))
	out := make([]*Term, 0, len(lits))
	for _, l := range lits {
		if !l.typ.IsBool() {
			panic("mcsat: non-boolean term used as a clause literal: " + l.String())
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return &Clause{lits: out}
}

// Lits returns the clause's literals. The caller must not mutate the
// returned slice.
func (c *Clause) Lits() []*Term { return c.lits }

// Len returns the number of literals in the clause.
func (c *Clause) Len() int { return len(c.lits) }

// Contains reports whether lit is one of the clause's literals.
func (c *Clause) Contains(lit *Term) bool {
	for _, l := range c.lits {
		if l == lit {
			return true
		}
	}
	return false
}

func (c *Clause) String() string {
	if len(c.lits) == 0 {
		return "⊥"
	}
	if len(c.lits) == 1 {
		return c.lits[0].String()
	}
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		parts[i] = l.String()
	}
	return "(or " + strings.Join(parts, " ") + ")"
}

// FilterFalse returns the sub-clause of c consisting of the literals that
// do not evaluate to false under a.
func FilterFalse(a Assignment, c *Clause) *Clause {
	out := make([]*Term, 0, len(c.lits))
	for _, l := range c.lits {
		if !evalLiteralFalse(a, l) {
			out = append(out, l)
		}
	}
	return &Clause{lits: out}
}

// AsUnit returns the sole remaining literal of c, if c has exactly one.
func AsUnit(c *Clause) (*Term, bool) {
	if len(c.lits) != 1 {
		return nil, false
	}
	return c.lits[0], true
}

// EvalToFalse reports whether every literal of c evaluates to false under
// a (the empty clause trivially does).
func EvalToFalse(a Assignment, c *Clause) bool {
	for _, l := range c.lits {
		if !evalLiteralFalse(a, l) {
			return false
		}
	}
	return true
}

// Union returns a new clause containing the literals of all the given
// clauses, deduplicated.
func Union(cs ...*Clause) *Clause {
	var all []*Term
	for _, c := range cs {
		all = append(all, c.lits...)
	}
	return NewClause(all...)
}

// Without returns a new clause containing c's literals minus those in
// remove (by identity).
func (c *Clause) Without(remove ...*Term) *Clause {
	skip := make(map[*Term]struct{}, len(remove))
	for _, r := range remove {
		skip[r] = struct{}{}
	}
	out := make([]*Term, 0, len(c.lits))
	for _, l := range c.lits {
		if _, ok := skip[l]; !ok {
			out = append(out, l)
		}
	}
	return &Clause{lits: out}
}
