package mcsat

import "strings"

// sigKey identifies a function symbol applied to a concrete value tuple.
type sigKey struct {
	fn   *Var
	args string // value strings joined; values don't carry pointer identity, so we key on their rendering
}

func makeSigKey(fn *Var, vals []Value) sigKey {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.String())
	}
	return sigKey{fn: fn, args: b.String()}
}

// UFSignature is the (value, witness) pair recorded for one (f, args)
// signature.
type UFSignature struct {
	Value   Value
	Witness *Term
}

// ComputeUFSigs scans trail entries whose literal is an application
// App(f, args) with every argument assigned, and maps the key
// (f, map(A, args)) to (A(t), t) — last writer wins, per spec.md §4.6.
func ComputeUFSigs(a Assignment, tr *Trail) map[sigKey]*UFSignature {
	out := make(map[sigKey]*UFSignature)
	for _, e := range tr.Entries() {
		fn, args, ok := e.Lit().IsApp()
		if !ok {
			continue
		}
		vals := make([]Value, len(args))
		complete := true
		for i, arg := range args {
			v, ok := a.Get(arg)
			if !ok {
				complete = false
				break
			}
			vals[i] = v
		}
		if !complete {
			continue
		}
		key := makeSigKey(fn, vals)
		if _, ok := out[key]; ok {
			continue // keep the most recent writer, which we hit first (youngest-first iteration)
		}
		out[key] = &UFSignature{Value: e.Value(), Witness: e.Lit()}
	}
	return out
}
