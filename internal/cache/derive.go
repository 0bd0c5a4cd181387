package cache

// Filter returns the records matching keep, preserving order.
func Filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// SumCents adds up cents(r) over every record.
func SumCents[T any](records []T, cents func(T) int64) int64 {
	var sum int64
	for _, r := range records {
		sum += cents(r)
	}
	return sum
}

// GroupBy buckets records by key, preserving per-bucket order.
func GroupBy[T any, K comparable](records []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, r := range records {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}
