package schema

import "sort"

// Renumber returns a copy of steps sorted by their current number and
// renumbered contiguously from 1. Config maps are shared, not copied.
func Renumber(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	for i := range out {
		out[i].Number = i + 1
	}
	return out
}

// Filter drops every step for which drop returns true and renumbers the
// remainder 1..N in their original relative order.
func Filter(steps []Step, drop func(Step) bool) []Step {
	kept := make([]Step, 0, len(steps))
	for _, s := range steps {
		if drop != nil && drop(s) {
			continue
		}
		kept = append(kept, s)
	}
	return Renumber(kept)
}

// ExcludeTypes returns a drop predicate matching any of types.
func ExcludeTypes(types ...Type) func(Step) bool {
	set := make(map[Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(s Step) bool {
		_, ok := set[s.Type]
		return ok
	}
}

// Find returns the step numbered n.
func Find(steps []Step, n int) (Step, bool) {
	for _, s := range steps {
		if s.Number == n {
			return s, true
		}
	}
	return Step{}, false
}
