package util

func Contains[T comparable](slice []T, value T) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}

func Must(err error) {
	if err != nil {
		panic(err)
	}
}
