package netif

import (
	"sort"

	"github.com/kvanhattum/aaaa-sync/internal/source"
)

// Select picks the candidate to publish. A manual 1-based index addresses
// the eligible list in discovery order; index zero means automatic
// selection, which takes the eligible candidate with the longest remaining
// preferred lifetime. Forever outranks every finite lifetime, and ties
// break on address order so repeated runs pick the same winner.
func Select(cands []Candidate, manualIndex int) (Candidate, error) {
	var eligible []Candidate
	for _, c := range cands {
		if c.Eligible() {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return Candidate{}, source.ErrNoEligibleCandidate
	}

	if manualIndex > 0 {
		if manualIndex > len(eligible) {
			return Candidate{}, &source.IndexOutOfRangeError{Requested: manualIndex, Available: len(eligible)}
		}
		return eligible[manualIndex-1], nil
	}

	sorted := make([]Candidate, len(eligible))
	copy(sorted, eligible)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].PreferredLft.Cmp(sorted[j].PreferredLft); c != 0 {
			return c > 0
		}
		return sorted[i].Addr.Compare(sorted[j].Addr) < 0
	})
	return sorted[0], nil
}
