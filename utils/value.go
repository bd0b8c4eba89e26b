package utils

// AssertType attempts to assert that the given interface argument is
// the given type parameter.
func AssertType[T any](from interface{}) (T, error) {
	var zero T
	asserted, ok := from.(T)
	if !ok {
		return zero, NewUnexpectedTypeError(zero, from)
	}
	return asserted, nil
}

// FilterMap returns a new map containing only the entries of m for which keep returns true.
func FilterMap[K comparable, V any](m map[K]V, keep func(K, V) bool) map[K]V {
	ret := make(map[K]V, len(m))
	for k, v := range m {
		if keep(k, v) {
			ret[k] = v
		}
	}
	return ret
}
