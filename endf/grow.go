package endf

// Grow returns s extended with zero values until it holds at least n
// elements. It never shrinks s, so writing indices 0, 1, 2, ... in order
// appends exactly one element per new index.
func Grow[T any](s []T, n int) []T {
	for len(s) < n {
		var zero T
		s = append(s, zero)
	}
	return s
}
