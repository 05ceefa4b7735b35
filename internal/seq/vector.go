package seq

import (
	"fmt"
	"iter"
	"math"

	"github.com/rs/zerolog"
)

// Stats counts buffer work done over the lifetime of a vector.
type Stats struct {
	Reallocations int `json:"reallocations"`
	Transferred   int `json:"transferred"`
	PeakCapacity  int `json:"peak_capacity"`
}

// Vector is a generic growable sequence. The zero value is not usable; use New.
//
// len(data) is the capacity. Slots [size, len(data)) always hold the zero value.
type Vector[T any] struct {
	data     []T
	size     int
	alloc    Allocator[T]
	limit    int
	transfer func(T) (T, error)
	cleanup  func(T)
	log      zerolog.Logger
	stats    Stats
}

// New returns an empty vector with no backing buffer.
func New[T any](opts ...Option[T]) *Vector[T] {
	v := &Vector[T]{
		alloc: HeapAllocator[T]{},
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewWithCapacity returns an empty vector holding at least n reserve slots.
func NewWithCapacity[T any](n int, opts ...Option[T]) (*Vector[T], error) {
	v := New(opts...)
	if err := v.Reserve(n); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vector[T]) Len() int { return v.size }
func (v *Vector[T]) Cap() int { return len(v.data) }

func (v *Vector[T]) Empty() bool { return v.size == 0 }

func (v *Vector[T]) Stats() Stats { return v.stats }

// Append adds x as the last element, doubling the buffer first when full.
func (v *Vector[T]) Append(x T) error {
	if err := v.grow(v.size + 1); err != nil {
		return err
	}
	v.data[v.size] = x
	v.size++
	return nil
}

// AppendAll appends xs in order. Either all of them are appended or none.
func (v *Vector[T]) AppendAll(xs ...T) error {
	if len(xs) == 0 {
		return nil
	}
	if len(xs) > math.MaxInt-v.size {
		return &AllocError{Requested: math.MaxInt, Limit: v.limit, Err: ErrAllocation}
	}
	if err := v.grow(v.size + len(xs)); err != nil {
		return err
	}
	copy(v.data[v.size:], xs)
	v.size += len(xs)
	return nil
}

// At returns the element at index i.
func (v *Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= v.size {
		var zero T
		return zero, indexErr("at", i, v.size)
	}
	return v.data[i], nil
}

// Ref returns a pointer to the element at index i. The pointer is only valid
// until the next operation that reallocates or shifts elements.
func (v *Vector[T]) Ref(i int) (*T, error) {
	if i < 0 || i >= v.size {
		return nil, indexErr("ref", i, v.size)
	}
	return &v.data[i], nil
}

// Set replaces the element at index i.
func (v *Vector[T]) Set(i int, x T) error {
	if i < 0 || i >= v.size {
		return indexErr("set", i, v.size)
	}
	v.data[i] = x
	return nil
}

// InsertAt places x at index i, shifting [i, size) one slot right.
// i == Len() is equivalent to Append.
func (v *Vector[T]) InsertAt(i int, x T) error {
	if i < 0 || i > v.size {
		return indexErr("insert", i, v.size)
	}
	if err := v.grow(v.size + 1); err != nil {
		return err
	}
	copy(v.data[i+1:v.size+1], v.data[i:v.size])
	v.data[i] = x
	v.size++
	return nil
}

// RemoveAt destroys the element at index i and shifts (i, size) one slot left.
// Capacity is unchanged.
func (v *Vector[T]) RemoveAt(i int) error {
	if i < 0 || i >= v.size {
		return indexErr("remove", i, v.size)
	}
	removed := v.data[i]
	copy(v.data[i:v.size-1], v.data[i+1:v.size])
	v.size--
	var zero T
	v.data[v.size] = zero
	if v.cleanup != nil {
		v.cleanup(removed)
	}
	return nil
}

// Pop removes and returns the last element. The caller takes ownership, so
// the cleanup function is not run.
func (v *Vector[T]) Pop() (T, error) {
	var zero T
	if v.size == 0 {
		return zero, indexErr("pop", -1, 0)
	}
	v.size--
	x := v.data[v.size]
	v.data[v.size] = zero
	return x, nil
}

// Reserve ensures Cap() >= n. It never shrinks and never touches elements.
func (v *Vector[T]) Reserve(n int) error {
	if n <= len(v.data) {
		return nil
	}
	return v.realloc(n)
}

// Clear destroys all live elements and keeps the buffer for reuse.
func (v *Vector[T]) Clear() {
	v.destroyLive()
	v.size = 0
}

// ShrinkToFit reallocates the buffer so that Cap() == Len().
func (v *Vector[T]) ShrinkToFit() error {
	if len(v.data) == v.size {
		return nil
	}
	if v.size == 0 {
		v.log.Debug().Int("from", len(v.data)).Msg("seq: buffer dropped")
		v.data = nil
		return nil
	}
	return v.realloc(v.size)
}

// Release destroys all live elements and drops the buffer. The vector is
// empty with zero capacity afterwards and may be reused.
func (v *Vector[T]) Release() {
	v.destroyLive()
	v.data = nil
	v.size = 0
}

// Values returns a copy of the live elements.
func (v *Vector[T]) Values() []T {
	out := make([]T, v.size)
	copy(out, v.data[:v.size])
	return out
}

// All iterates over live elements with their indices. Mutating the vector
// during iteration is not supported.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, v.data[i]) {
				return
			}
		}
	}
}

// Clone returns an independent vector with the same elements and options,
// sized to fit. Elements are copied through the transfer function if set.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	c := &Vector[T]{
		alloc:    v.alloc,
		limit:    v.limit,
		transfer: v.transfer,
		cleanup:  v.cleanup,
		log:      v.log,
	}
	if v.size == 0 {
		return c, nil
	}
	buf, err := v.alloc.Alloc(v.size)
	if err != nil {
		return nil, &AllocError{Requested: v.size, Limit: v.limit, Err: err}
	}
	if err := v.transferInto(buf); err != nil {
		return nil, &AllocError{Requested: v.size, Limit: v.limit, Err: err}
	}
	c.data = buf
	c.size = v.size
	c.stats.PeakCapacity = v.size
	return c, nil
}

// grow doubles the capacity until it can hold need elements.
func (v *Vector[T]) grow(need int) error {
	c := len(v.data)
	if need <= c {
		return nil
	}
	for c < need {
		if c == 0 {
			c = 1
			continue
		}
		if c > math.MaxInt/2 {
			return &AllocError{Requested: need, Limit: v.limit, Err: ErrAllocation}
		}
		c *= 2
	}
	return v.realloc(c)
}

// realloc moves the live elements into a fresh buffer of n slots. Nothing is
// modified unless every element was transferred.
func (v *Vector[T]) realloc(n int) error {
	if v.limit > 0 && n > v.limit {
		return &AllocError{Requested: n, Limit: v.limit, Err: ErrAllocation}
	}
	buf, err := v.alloc.Alloc(n)
	if err != nil {
		return &AllocError{Requested: n, Limit: v.limit, Err: err}
	}
	if len(buf) != n {
		return &AllocError{Requested: n, Limit: v.limit,
			Err: fmt.Errorf("allocator returned %d slots: %w", len(buf), ErrAllocation)}
	}
	if err := v.transferInto(buf); err != nil {
		return &AllocError{Requested: n, Limit: v.limit, Err: err}
	}

	old := v.data
	v.data = buf
	if v.transfer != nil && v.cleanup != nil {
		// Originals were copied, not moved; destroy them.
		for i := 0; i < v.size; i++ {
			v.cleanup(old[i])
		}
	}
	clear(old)

	v.stats.Reallocations++
	v.stats.Transferred += v.size
	if n > v.stats.PeakCapacity {
		v.stats.PeakCapacity = n
	}
	v.log.Debug().
		Int("from", len(old)).
		Int("to", n).
		Int("size", v.size).
		Msg("seq: buffer reallocated")
	return nil
}

// transferInto copies the live elements into dst. On failure every copy made
// so far is destroyed and dst is zeroed.
func (v *Vector[T]) transferInto(dst []T) error {
	if v.transfer == nil {
		copy(dst, v.data[:v.size])
		return nil
	}
	for i := 0; i < v.size; i++ {
		x, err := v.transfer(v.data[i])
		if err != nil {
			if v.cleanup != nil {
				for j := 0; j < i; j++ {
					v.cleanup(dst[j])
				}
			}
			clear(dst[:i])
			return fmt.Errorf("transfer element %d: %w", i, err)
		}
		dst[i] = x
	}
	return nil
}

func (v *Vector[T]) destroyLive() {
	if v.cleanup != nil {
		for i := 0; i < v.size; i++ {
			v.cleanup(v.data[i])
		}
	}
	clear(v.data[:v.size])
}
