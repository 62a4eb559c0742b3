package utils

import "sort"

// SortedKeys returns the keys of a string-keyed map in sorted order, for
// deterministic display output.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
