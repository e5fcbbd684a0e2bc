package utils

// Ptr returns a pointer to v. Used when building optional PATCH fields.
func Ptr[T any](v T) *T {
	return &v
}
