// Package ptr has helpers for the optional-value pointer fields used by the
// progression models.
package ptr

// Ref returns a pointer to a copy of v.
func Ref[T any](v T) *T {
	return &v
}
