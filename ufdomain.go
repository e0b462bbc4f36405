package mcsat

// UFDomainKind tags the shape of a single term's domain-table entry.
type UFDomainKind byte

const (
	DomainForced UFDomainKind = iota
	DomainForbid
	DomainConflictForced2
	DomainConflictForbid
)

// ForbidPair records one observed forbidden value together with the
// equality literal that forbade it.
type ForbidPair struct {
	Value   Value
	Witness *Term
}

// UFDomainEntry is the per-term constraint computed by ComputeUFDomain: a
// single forced value, a list of forbidden values, or one of the two
// absorbing conflict shapes, per spec.md §4.5.
type UFDomainEntry struct {
	Kind UFDomainKind

	// DomainForced
	ForcedValue   Value
	ForcedWitness *Term

	// DomainForbid
	Forbidden []ForbidPair

	// DomainConflictForced2 / DomainConflictForbid payloads.
	cf2 conflictForced2
	cfb conflictForbid
}

type conflictForced2 struct {
	V1 Value
	W1 *Term
	V2 Value
	W2 *Term
}

type conflictForbid struct {
	V       Value
	WForce  *Term
	WForbid *Term
}

// ConflictForced2 returns the two incompatible forcings recorded for a
// DomainConflictForced2 entry.
func (e *UFDomainEntry) ConflictForced2() (v1 Value, w1 *Term, v2 Value, w2 *Term) {
	return e.cf2.V1, e.cf2.W1, e.cf2.V2, e.cf2.W2
}

// ConflictForbid returns the forced/forbidden witnesses recorded for a
// DomainConflictForbid entry.
func (e *UFDomainEntry) ConflictForbid() (v Value, forceWitness, forbidWitness *Term) {
	return e.cfb.V, e.cfb.WForce, e.cfb.WForbid
}

type domainBuilder struct {
	forced    *forcedInfo
	forbidden []ForbidPair
	conflict  *UFDomainEntry
}

type forcedInfo struct {
	value   Value
	witness *Term
}

// ComputeUFDomain scans the trail's equality-literal entries and folds
// them into a map from unassigned term to its domain constraint, per
// spec.md §4.5.
func ComputeUFDomain(a Assignment, tr *Trail) map[*Term]*UFDomainEntry {
	builders := make(map[*Term]*domainBuilder)

	observe := func(t *Term, forced bool, v Value, witness *Term) {
		b, ok := builders[t]
		if !ok {
			b = &domainBuilder{}
			builders[t] = b
		}
		if b.conflict != nil {
			return // absorbing
		}
		if forced {
			if b.forced != nil {
				if !b.forced.value.Equal(v) {
					b.conflict = &UFDomainEntry{
						Kind: DomainConflictForced2,
						cf2: conflictForced2{
							V1: b.forced.value, W1: b.forced.witness,
							V2: v, W2: witness,
						},
					}
				}
				return
			}
			for _, f := range b.forbidden {
				if f.Value.Equal(v) {
					b.conflict = &UFDomainEntry{
						Kind: DomainConflictForbid,
						cfb: conflictForbid{V: v, WForce: witness, WForbid: f.Witness},
					}
					return
				}
			}
			b.forced = &forcedInfo{value: v, witness: witness}
			return
		}
		// forbid
		if b.forced != nil {
			if b.forced.value.Equal(v) {
				b.conflict = &UFDomainEntry{
					Kind: DomainConflictForbid,
					cfb: conflictForbid{V: v, WForce: b.forced.witness, WForbid: witness},
				}
			}
			return
		}
		for _, f := range b.forbidden {
			if f.Value.Equal(v) {
				return // already recorded
			}
		}
		b.forbidden = append(b.forbidden, ForbidPair{Value: v, Witness: witness})
	}

	for _, e := range tr.Entries() {
		lhs, rhs, ok := e.Lit().IsEq()
		if !ok {
			continue
		}
		p := e.Value().Bool()

		lv, lok := a.Get(lhs)
		rv, rok := a.Get(rhs)
		switch {
		case lok && !rok:
			observe(rhs, p, lv, e.Lit())
		case rok && !lok:
			observe(lhs, p, rv, e.Lit())
		default:
			// Either both assigned (handled by find_false_clause /
			// congruence, not the domain table) or neither (nothing to
			// derive yet).
		}
	}

	out := make(map[*Term]*UFDomainEntry, len(builders))
	for t, b := range builders {
		switch {
		case b.conflict != nil:
			out[t] = b.conflict
		case b.forced != nil:
			out[t] = &UFDomainEntry{Kind: DomainForced, ForcedValue: b.forced.value, ForcedWitness: b.forced.witness}
		default:
			out[t] = &UFDomainEntry{Kind: DomainForbid, Forbidden: b.forbidden}
		}
	}
	return out
}
