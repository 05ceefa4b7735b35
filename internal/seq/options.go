package seq

import "github.com/rs/zerolog"

// Option configures a Vector at construction.
type Option[T any] func(*Vector[T])

// WithAllocator sets the buffer source. Nil keeps the heap allocator.
func WithAllocator[T any](a Allocator[T]) Option[T] {
	return func(v *Vector[T]) {
		if a != nil {
			v.alloc = a
		}
	}
}

// WithLimit caps the capacity the vector may ever request. Zero means no limit.
func WithLimit[T any](n int) Option[T] {
	return func(v *Vector[T]) {
		if n > 0 {
			v.limit = n
		}
	}
}

// WithTransfer sets the function used to copy live elements into a new
// buffer during growth and Clone. A transfer error aborts the growth.
// After a successful growth the originals are destroyed with the cleanup
// function, if one is set.
func WithTransfer[T any](fn func(T) (T, error)) Option[T] {
	return func(v *Vector[T]) {
		v.transfer = fn
	}
}

// WithCleanup sets the per-element destructor run by RemoveAt, Clear and Release.
func WithCleanup[T any](fn func(T)) Option[T] {
	return func(v *Vector[T]) {
		v.cleanup = fn
	}
}

// WithLogger attaches a logger for reallocation events.
func WithLogger[T any](l zerolog.Logger) Option[T] {
	return func(v *Vector[T]) {
		v.log = l
	}
}
