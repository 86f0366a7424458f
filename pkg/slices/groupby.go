package slices

// GroupBy buckets `input` by the key `key` returns for each element. Groups
// are returned in the order their keys were first seen and elements keep
// their relative order within a group.
func GroupBy[T any, K comparable](input []T, key func(*T) K) (groups [][]T) {
	index := make(map[K]int)
	for i := range input {
		k := key(&input[i])
		if g, exists := index[k]; exists {
			groups[g] = append(groups[g], input[i])
			continue
		}
		index[k] = len(groups)
		groups = append(groups, []T{input[i]})
	}
	return
}

// Shared drops the groups with fewer than two members. It returns the
// remaining groups and how many files were dropped.
func Shared[T any](groups [][]T) (shared [][]T, dropped int) {
	for _, group := range groups {
		if len(group) < 2 {
			dropped += len(group)
			continue
		}
		shared = append(shared, group)
	}
	return
}
