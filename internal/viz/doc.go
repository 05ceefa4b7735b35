// Package viz provides an interactive terminal view of a seq.Vector.
//
// The view draws every buffer slot: live elements with their values and
// reserve slots as dots, so growth, shifting and clearing can be watched as
// they happen. A capacity history graph sits below the buffer.
//
// # Key Bindings
//
//	a     - Append the next value
//	i     - Insert the next value at the cursor
//	x     - Remove the element at the cursor
//	p     - Pop the last element
//	r     - Reserve double the capacity
//	s     - Shrink to fit
//	c     - Clear
//	←/→   - Move the cursor
//	t     - Cycle color themes
//	q     - Quit
package viz
