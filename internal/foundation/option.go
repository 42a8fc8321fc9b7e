// Package foundation provides small generic building blocks shared across PageBuilder.
package foundation

// Option represents a value that may or may not be present.
// Field resolution returns Options so "absent" is never confused with a zero value
// (a latitude of 0 is a real coordinate).
type Option[T any] struct {
	value   T
	present bool
}

// Some creates an Option with a value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None creates an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present, mirroring the comma-ok idiom.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}
