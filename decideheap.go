package mcsat

import "container/heap"

// termHeap is a max-heap of decision candidates ordered by clause-occurrence
// count, the EUF engine's analogue of the teacher's litHeap (saturday.go): a
// max-heap of unassigned literals ordered by watch-list size. The teacher's
// watch-list size is itself a proxy for "how many live clauses still care
// about this literal"; since the trail-driven `find_false_clause`/`propagate`
// scan (spec.md §4.4) has no watch lists to count, termHeap counts clause
// membership directly instead.
type termHeap struct {
	terms  []*Term
	counts map[*Term]int
}

func (h *termHeap) Len() int { return len(h.terms) }

func (h *termHeap) Less(i, j int) bool {
	return h.counts[h.terms[i]] > h.counts[h.terms[j]]
}

func (h *termHeap) Swap(i, j int) {
	h.terms[i], h.terms[j] = h.terms[j], h.terms[i]
}

func (h *termHeap) Push(x interface{}) {
	h.terms = append(h.terms, x.(*Term))
}

func (h *termHeap) Pop() interface{} {
	old := h.terms
	n := len(old)
	t := old[n-1]
	h.terms = old[:n-1]
	return t
}

// occurrenceCounts tallies, for each abs(subterm) appearing among clauses'
// literals, how many distinct clauses mention it.
func occurrenceCounts(clauses []*Clause) map[*Term]int {
	counts := make(map[*Term]int)
	for _, c := range clauses {
		seen := make(map[*Term]struct{}, c.Len())
		for _, lit := range c.Lits() {
			v := Abs(lit)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			counts[v]++
		}
	}
	return counts
}

// orderByActivity sorts candidates by descending clause-occurrence count via
// a container/heap max-heap, mirroring how the teacher's decision step pops
// the highest-activity literal off sv.unassigned (saturday.go's heap.Pop).
// Ties are not guaranteed to keep candidates' relative input order
// (container/heap is not stable); the order is still a fixed function of
// the input, and decide only ever consults index 0, so tie order is
// immaterial to correctness — only to which equally-active candidate comes
// first.
func orderByActivity(candidates []*Term, clauses []*Clause) []*Term {
	if len(candidates) == 0 {
		return candidates
	}
	counts := occurrenceCounts(clauses)
	h := &termHeap{terms: append([]*Term(nil), candidates...), counts: counts}
	heap.Init(h)
	out := make([]*Term, 0, len(candidates))
	for h.Len() > 0 {
		out = append(out, heap.Pop(h).(*Term))
	}
	return out
}
