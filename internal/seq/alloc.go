package seq

import "fmt"

// Allocator hands out backing buffers. Alloc must return a slice with
// len == n whose elements are all the zero value.
type Allocator[T any] interface {
	Alloc(n int) ([]T, error)
}

// HeapAllocator allocates buffers with make.
type HeapAllocator[T any] struct{}

func (HeapAllocator[T]) Alloc(n int) (buf []T, err error) {
	if n < 0 {
		return nil, fmt.Errorf("negative size %d: %w", n, ErrAllocation)
	}
	defer func() {
		// make panics with a runtime error when n*sizeof(T) is not representable.
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%v: %w", r, ErrAllocation)
		}
	}()
	return make([]T, n), nil
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc[T any] func(n int) ([]T, error)

func (f AllocatorFunc[T]) Alloc(n int) ([]T, error) {
	return f(n)
}
