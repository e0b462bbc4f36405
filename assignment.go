package mcsat

// Assignment is a partial mapping from terms to values. Callers must
// maintain the coherence invariant themselves (NewTrail and Trail.Cons,
// which build every trail's assignment, do this): whenever a boolean term t is mapped
// to Bool(b), not(t) must also be mapped to Bool(!b).
type Assignment map[*Term]Value

// Get returns the value assigned to t, if any.
func (a Assignment) Get(t *Term) (Value, bool) {
	v, ok := a[t]
	return v, ok
}

// evalLiteralFalse reports whether t evaluates to false under a, per
// spec.md §4.2's semantic evaluation: directly assigned false, or (for an
// equality with both sides assigned) provably distinct sides, or (for a
// negation) its operand evaluates to true.
func evalLiteralFalse(a Assignment, t *Term) bool {
	if v, ok := a.Get(t); ok && v.IsBool() && !v.Bool() {
		return true
	}
	if lhs, rhs, ok := t.IsEq(); ok {
		vl, okl := a.Get(lhs)
		vr, okr := a.Get(rhs)
		if okl && okr && !vl.Equal(vr) {
			return true
		}
		return false
	}
	if operand, ok := t.IsNot(); ok {
		return evalLiteralTrue(a, operand)
	}
	return false
}

// evalLiteralTrue is evalLiteralFalse's mirror image.
func evalLiteralTrue(a Assignment, t *Term) bool {
	if v, ok := a.Get(t); ok && v.IsBool() && v.Bool() {
		return true
	}
	if lhs, rhs, ok := t.IsEq(); ok {
		vl, okl := a.Get(lhs)
		vr, okr := a.Get(rhs)
		if okl && okr && vl.Equal(vr) {
			return true
		}
		return false
	}
	if operand, ok := t.IsNot(); ok {
		return evalLiteralFalse(a, operand)
	}
	return false
}
