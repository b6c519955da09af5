package ingest

import "sort"

// sortedUnion returns the sorted set union of existing and incoming,
// deduplicated, matching the contact-merge behavior spec.md §4.4.2
// requires ("insertion order = sorted/ascending by string").
func sortedUnion(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	var out []string
	for _, s := range existing {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range incoming {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
