package util

/*
TransformSlice processes input slice s by calling the mapper callback for each
element and returning the slice of values returned by the callback.

Could be used for extracting single field values from slice of structs etc.
*/
func TransformSlice[S ~[]E, E any, V any](s S, mapper func(E) V) []V {
	r := make([]V, len(s))
	for i, v := range s {
		r[i] = mapper(v)
	}
	return r
}

/*
SumByKey adds up values[i] under keys[i] and returns the per key totals.
The boolean result is false when any of the totals overflows uint64. Slices
are expected to be of the same length, extra values are ignored.
*/
func SumByKey[K comparable](keys []K, values []uint64) (map[K]uint64, bool) {
	totals := make(map[K]uint64, len(keys))
	for i, k := range keys {
		if i >= len(values) {
			break
		}
		sum, ok := SafeAdd(totals[k], values[i])
		if !ok {
			return nil, false
		}
		totals[k] = sum
	}
	return totals, true
}
