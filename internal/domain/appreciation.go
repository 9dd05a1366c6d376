package domain

import "slices"

// NextAppreciation computes the appreciation set after the given actor
// toggles their mark: present handles are removed, absent handles added.
// Pure and total; applying it twice with the same actor returns a set equal
// to the input. Duplicates in the input are dropped, so the result always
// satisfies the uniqueness invariant even if the store handed us a dirty
// record.
//
// Callers must ensure the actor is a present identity before invoking;
// an empty handle would otherwise be toggled like any other member.
func NextAppreciation(current []string, actor string) []string {
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, handle := range current {
		if handle == actor {
			removed = true
			continue
		}
		if !slices.Contains(next, handle) {
			next = append(next, handle)
		}
	}
	if !removed {
		next = append(next, actor)
	}
	return next
}
