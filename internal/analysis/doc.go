// Package analysis measures the growth behaviour of seq.Vector.
//
//   - [Profile]: capacity after each of n appends, with reallocation points
//   - [Profile.Doubling]: checks the 1, 2, 4, ... capacity sequence
//   - [Profile.Amortized]: transferred elements per append
//
// # Amortized Cost
//
// With doubling, the elements moved across all growths for n appends sum to
// less than 2n, so the amortized transfer cost per append stays below 2:
//
//	p, _ := analysis.NewProfile(1000, 0, nil)
//	if p.Amortized() < 2 {
//	    // constant amortized append
//	}
package analysis
