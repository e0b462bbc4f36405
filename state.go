package mcsat

// StatusKind is the tag of a State's Status.
type StatusKind byte

const (
	StatusSearching StatusKind = iota
	StatusSat
	StatusUnsat
	StatusConflictBool
	StatusConflictUF
)

func (k StatusKind) String() string {
	switch k {
	case StatusSearching:
		return "searching"
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	case StatusConflictBool:
		return "conflict(bool)"
	case StatusConflictUF:
		return "conflict(uf)"
	default:
		return "?"
	}
}

// UFConflictKind tags the shape of a theory conflict record.
type UFConflictKind byte

const (
	UFConflictForbid UFConflictKind = iota
	UFConflictForced2
	UFConflictCongruence
)

// UFConflict is the payload of a StatusConflictUF status: one of the three
// shapes described in spec.md §4.7. For Forbid/Forced2, Term and Domain
// identify the conflicting domain-table entry; for Congruence, Fn/T1/T2
// identify the two applications whose assigned values disagree.
type UFConflict struct {
	Kind UFConflictKind

	Term   *Term
	Domain *UFDomainEntry

	Fn     *Var
	T1, T2 *Term
}

// Status is the state's current classification: terminal (Sat/Unsat),
// exploring (Searching), or holding one of the two conflict shapes.
type Status struct {
	Kind           StatusKind
	ConflictClause *Clause
	ConflictUF     *UFConflict
}

// Searching, Sat, and Unsat build the three status values with no payload.
func Searching() Status { return Status{Kind: StatusSearching} }
func Sat() Status        { return Status{Kind: StatusSat} }
func Unsat() Status       { return Status{Kind: StatusUnsat} }

// ConflictBool builds a Conflict_bool(c) status.
func ConflictBool(c *Clause) Status {
	return Status{Kind: StatusConflictBool, ConflictClause: c}
}

// ConflictUFStatus builds a Conflict_uf(record) status.
func ConflictUFStatus(rec *UFConflict) Status {
	return Status{Kind: StatusConflictUF, ConflictUF: rec}
}

// State bundles an environment, the live clause set (original + learned),
// the trail, the if-lifting substitution, and a status. A State is never
// mutated after construction by any rule in rules.go; rules build a new
// State value for every successor. The four projections below are
// memoized lazily, which is an internal implementation detail (not an
// observable mutation): they are pure functions of Clauses and Trail and
// are computed at most once per State value.
type State struct {
	Env     *Env
	Clauses []*Clause
	Trail   *Trail
	Subst   map[*Term]*Term // If-term -> fresh constant; NewState starts it empty
	Status  Status

	allVars  []*Term
	haveAll  bool
	toDecide []*Term
	haveTD   bool
	ufDomain map[*Term]*UFDomainEntry
	haveDom  bool
	ufSigs   map[sigKey]*UFSignature
	haveSigs bool
}

// NewState builds the initial Searching state for a clause set.
func NewState(env *Env, clauses []*Clause) *State {
	return &State{
		Env:     env,
		Clauses: clauses,
		Trail:   NewTrail(env),
		Subst:   make(map[*Term]*Term),
		Status:  Searching(),
	}
}

// clone returns a shallow copy of s, sharing every field's current value;
// callers overwrite the fields that change for their successor state.
func (s *State) clone() *State {
	return &State{
		Env:     s.Env,
		Clauses: s.Clauses,
		Trail:   s.Trail,
		Subst:   s.Subst,
		Status:  s.Status,
	}
}

// withStatus returns a successor state identical to s but for its status.
func (s *State) withStatus(st Status) *State {
	ns := s.clone()
	ns.Status = st
	return ns
}

// withTrail returns a successor state identical to s but for its trail;
// the status is copied from s unchanged, so callers that also need a
// status change set it on the result.
func (s *State) withTrail(tr *Trail) *State {
	ns := s.clone()
	ns.Trail = tr
	return ns
}

// withLearnedClause returns a successor state with c appended to the live
// clause set. The append always copies, so sibling successors built from
// the same parent never alias each other's backing array.
func (s *State) withLearnedClause(c *Clause) *State {
	ns := s.clone()
	grown := make([]*Clause, len(s.Clauses)+1)
	copy(grown, s.Clauses)
	grown[len(s.Clauses)] = c
	ns.Clauses = grown
	return ns
}

// Assignment returns the state's current total(-so-far) assignment.
func (s *State) Assignment() Assignment { return s.Trail.Assignment() }

// AllVars returns the set of abs(subterm) of every literal in every clause
// — spec.md §3's `all_vars` projection.
func (s *State) AllVars() []*Term {
	if s.haveAll {
		return s.allVars
	}
	seen := make(map[*Term]struct{})
	var out []*Term
	var visit func(t *Term)
	visit = func(t *Term) {
		t = Abs(t)
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if _, args, ok := t.IsApp(); ok {
			for _, a := range args {
				visit(a)
			}
		}
		if l, r, ok := t.IsEq(); ok {
			visit(l)
			visit(r)
		}
		if c, th, el, ok := t.IsIf(); ok {
			visit(c)
			visit(th)
			visit(el)
		}
	}
	for _, c := range s.Clauses {
		for _, lit := range c.Lits() {
			visit(lit)
		}
	}
	s.allVars, s.haveAll = out, true
	return out
}

// ToDecide returns AllVars() minus the abs() of every term mentioned in
// the trail — spec.md §3's `to_decide` projection — ordered by descending
// clause-occurrence count (orderByActivity, decideheap.go) so that `decide`
// picking its first element reproduces the teacher's litHeap-driven
// decision order instead of an arbitrary DFS order.
func (s *State) ToDecide() []*Term {
	if s.haveTD {
		return s.toDecide
	}
	mentioned := make(map[*Term]struct{})
	for _, e := range s.Trail.Entries() {
		mentioned[Abs(e.Lit())] = struct{}{}
	}
	var out []*Term
	for _, v := range s.AllVars() {
		if _, ok := mentioned[v]; !ok {
			out = append(out, v)
		}
	}
	out = orderByActivity(out, s.Clauses)
	s.toDecide, s.haveTD = out, true
	return out
}

// UFDomain returns ComputeUFDomain(s.Assignment(), s.Trail), memoized.
func (s *State) UFDomain() map[*Term]*UFDomainEntry {
	if s.haveDom {
		return s.ufDomain
	}
	s.ufDomain = ComputeUFDomain(s.Assignment(), s.Trail)
	s.haveDom = true
	return s.ufDomain
}

// UFSigs returns ComputeUFSigs(s.Assignment(), s.Trail), memoized.
func (s *State) UFSigs() map[sigKey]*UFSignature {
	if s.haveSigs {
		return s.ufSigs
	}
	s.ufSigs = ComputeUFSigs(s.Assignment(), s.Trail)
	s.haveSigs = true
	return s.ufSigs
}
