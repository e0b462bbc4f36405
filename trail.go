package mcsat

import "strings"

// TrailKind tags the reason an entry was pushed onto the trail.
type TrailKind byte

const (
	KindDecision TrailKind = iota // a nondeterministic choice made by `decide`
	KindBCP                       // implied by boolean constraint propagation from a clause
	KindEval                     // a theory (or axiomatic) evaluation
)

func (k TrailKind) String() string {
	switch k {
	case KindDecision:
		return "decision"
	case KindBCP:
		return "bcp"
	case KindEval:
		return "eval"
	default:
		return "?"
	}
}

// Trail is a persistent, bottom-first linked history of assignments. Each
// node is immutable once constructed; pushing a new entry (cons) never
// mutates an existing node, so an older *Trail value remains a valid,
// independently usable view of the search at that point — this is what
// lets backjumping and semantic case splits "rewind" for free by simply
// keeping a pointer to an ancestor node instead of undoing mutations.
type Trail struct {
	parent *Trail
	kind   TrailKind
	lit    *Term // always stored in positive (non-Not) form
	value  Value
	reason *Clause // populated only for KindBCP entries

	level      int        // memoized: number of Decision entries at or below this one
	assignment Assignment // memoized: the cumulative assignment through this entry
}

// NewTrail builds the axiomatic base trail of spec.md §3: a single entry
// asserting the boolean constant true, at level 0.
func NewTrail(env *Env) *Trail {
	tt := env.Bool(true)
	nt := env.Not_(tt)
	return &Trail{
		kind:       KindEval,
		lit:        tt,
		value:      TrueValue,
		level:      0,
		assignment: Assignment{tt: TrueValue, nt: FalseValue},
	}
}

// Cons pushes a new entry onto the trail. If lit is given in negated form
// (its top constructor is Not), it is normalized to (abs(lit), value.Not())
// before storage, per the trail's sign-normalization invariant. reason is
// only meaningful (and should be non-nil) for KindBCP.
func (tr *Trail) Cons(env *Env, kind TrailKind, lit *Term, value Value, reason *Clause) *Trail {
	posLit, posValue := lit, value
	if inner, ok := lit.IsNot(); ok {
		posLit, posValue = inner, value.Not()
	}

	level := tr.level
	if kind == KindDecision {
		level++
	}

	assignment := make(Assignment, len(tr.assignment)+2)
	for k, v := range tr.assignment {
		assignment[k] = v
	}
	assignment[posLit] = posValue
	if posLit.typ.IsBool() {
		assignment[env.Not_(posLit)] = posValue.Not()
	}

	return &Trail{
		parent:     tr,
		kind:       kind,
		lit:        posLit,
		value:      posValue,
		reason:     reason,
		level:      level,
		assignment: assignment,
	}
}

// Kind, Lit, Value, Reason, Level, and Parent expose this entry's fields.
// Reason is nil for anything but a KindBCP entry. Parent is nil only for
// the axiomatic base entry built by NewTrail.
func (tr *Trail) Kind() TrailKind { return tr.kind }
func (tr *Trail) Lit() *Term      { return tr.lit }
func (tr *Trail) Value() Value    { return tr.value }
func (tr *Trail) Reason() *Clause { return tr.reason }
func (tr *Trail) Level() int      { return tr.level }
func (tr *Trail) Parent() *Trail  { return tr.parent }

// Assignment returns the cumulative assignment accumulated through (and
// including) this entry.
func (tr *Trail) Assignment() Assignment { return tr.assignment }

// IsBase reports whether tr is the axiomatic base entry (no parent).
func (tr *Trail) IsBase() bool { return tr.parent == nil }

// UnwindTillNextDecision pops entries until the most recent Decision entry
// is itself consumed, returning the trail as it stood immediately below
// that decision.
func UnwindTillNextDecision(tr *Trail) *Trail {
	for tr != nil {
		cur := tr
		tr = tr.parent
		if cur.kind == KindDecision {
			return tr
		}
	}
	return nil
}

// DecisionsLen counts the Decision entries in the trail (tr's level, by
// definition).
func (tr *Trail) DecisionsLen() int { return tr.level }

// Entries returns the trail's entries, youngest-first (top of stack
// first) — the iteration order specified in spec.md §4.3.
func (tr *Trail) Entries() []*Trail {
	var out []*Trail
	for cur := tr; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}

func (tr *Trail) String() string {
	entries := tr.Entries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		// Entries() is youngest-first; print oldest-first for readability.
		j := len(entries) - 1 - i
		parts[j] = e.lit.String() + "=" + e.value.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
