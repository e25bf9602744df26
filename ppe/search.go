package ppe

import (
	"sort"
	"strings"
)

// Search returns the records whose vessel, requestor or item name contains
// term (case-insensitive), newest first. An empty term matches everything.
// Records with equal timestamps keep their input order. The input slice is
// not modified.
func Search(records []Record, term string) []Record {
	needle := strings.ToLower(term)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matches(r, needle) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

func matches(r Record, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.VesselName), needle) ||
		strings.Contains(strings.ToLower(r.RequestorName), needle) ||
		strings.Contains(strings.ToLower(r.ItemName), needle)
}
