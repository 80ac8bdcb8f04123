package surf

// Optional holds either a present value or an explicit absence. A present
// zero is distinct from an absent value.
type Optional[T any] struct {
	value T
	ok    bool
}

// Present wraps v.
func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// Absent returns the empty Optional.
func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether a value was obtained.
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}
