package util

func MapKeys[K comparable, V any](m map[K]V) []K {
	rv := make([]K, 0, len(m))
	for k := range m {
		rv = append(rv, k)
	}
	return rv
}
