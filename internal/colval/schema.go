package colval

import "sort"

// Pair holds the two raw record sides of one candidate pair.
type Pair struct {
	Left  string
	Right string
}

// DiscoverSchema tokenizes every side of every pair and returns the union
// of all field names as one stable ordering. If preferred is given, its
// members that were actually discovered come first, in the given order,
// followed by the remaining fields sorted lexicographically. Without
// preferred the whole set is sorted lexicographically.
//
// The schema must be discovered over the entire corpus before any row is
// materialized: a field seen once anywhere becomes a column everywhere.
func DiscoverSchema(pairs []Pair, preferred []string) []string {
	seen := map[string]struct{}{}
	for _, p := range pairs {
		for _, k := range Parse(p.Left).Keys() {
			seen[k] = struct{}{}
		}
		for _, k := range Parse(p.Right).Keys() {
			seen[k] = struct{}{}
		}
	}

	if len(preferred) == 0 {
		out := make([]string, 0, len(seen))
		for k := range seen {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}

	out := make([]string, 0, len(seen))
	pinned := map[string]struct{}{}
	for _, f := range preferred {
		if _, ok := seen[f]; ok {
			out = append(out, f)
			pinned[f] = struct{}{}
		}
	}
	var rest []string
	for k := range seen {
		if _, ok := pinned[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
