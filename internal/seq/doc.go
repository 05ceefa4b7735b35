// Package seq provides a generic, contiguous, growable sequence container.
//
// The central type is [Vector], an ordered, index-addressable run of values
// backed by a single exclusively owned buffer:
//
//   - [Vector.Append], [Vector.InsertAt], [Vector.RemoveAt]: mutation
//   - [Vector.At], [Vector.Ref], [Vector.Set]: indexed access
//   - [Vector.Reserve], [Vector.ShrinkToFit], [Vector.Clear]: capacity control
//   - [Vector.Release]: deterministic destruction
//
// # Growth
//
// When an insertion finds the buffer full the capacity doubles, starting
// from 1 (0, 1, 2, 4, 8, ...). Growth allocates the new buffer, transfers
// every live element and only then replaces the old buffer, so a failed
// allocation or element transfer leaves the vector exactly as it was.
//
//	v := seq.New[int]()
//	_ = v.Append(1)
//	_ = v.InsertAt(0, 9)
//	x, err := v.At(1)
//
// # Thread Safety
//
// Vector instances are NOT thread-safe. Callers sharing a vector across
// goroutines must serialize access themselves.
package seq
