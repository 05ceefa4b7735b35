package analysis

import (
	"fmt"

	"github.com/san-kum/dynseq/internal/seq"
)

// Profile records how a vector's capacity evolved over n appends.
type Profile struct {
	Initial       int
	Appends       int
	Capacities    []int
	Reallocations []int
	Stats         seq.Stats
}

// NewProfile appends 0..n-1 to a new vector built with opts and records the
// capacity after every append. The vector starts with initial reserved slots.
// An append failure ends the profile early and is returned alongside the
// partial profile.
func NewProfile(n, initial int, opts []seq.Option[int]) (*Profile, error) {
	if n < 0 {
		return nil, fmt.Errorf("analysis: negative append count %d", n)
	}
	v, err := seq.NewWithCapacity(initial, opts...)
	if err != nil {
		return nil, fmt.Errorf("analysis: reserve %d: %w", initial, err)
	}
	p := &Profile{
		Initial:    v.Cap(),
		Capacities: make([]int, 0, n),
	}

	last := v.Cap()
	for i := 0; i < n; i++ {
		if err := v.Append(i); err != nil {
			p.Stats = v.Stats()
			return p, fmt.Errorf("analysis: append %d: %w", i, err)
		}
		p.Appends++
		p.Capacities = append(p.Capacities, v.Cap())
		if v.Cap() != last {
			p.Reallocations = append(p.Reallocations, i)
			last = v.Cap()
		}
	}
	p.Stats = v.Stats()
	return p, nil
}

// Amortized returns transferred elements per append.
func (p *Profile) Amortized() float64 {
	if p.Appends == 0 {
		return 0
	}
	return float64(p.Stats.Transferred) / float64(p.Appends)
}

// Doubling reports whether every capacity change, starting from the initial
// capacity, was to max(2*old, 1).
func (p *Profile) Doubling() bool {
	prev := p.Initial
	for _, c := range p.Capacities {
		if c == prev {
			continue
		}
		want := prev * 2
		if want < 1 {
			want = 1
		}
		if c != want {
			return false
		}
		prev = c
	}
	return true
}

// Slack returns reserve slots (capacity - size) after each append.
func (p *Profile) Slack() []int {
	out := make([]int, len(p.Capacities))
	for i, c := range p.Capacities {
		out[i] = c - (i + 1)
	}
	return out
}

// Series converts the capacities to float64 for plotting.
func (p *Profile) Series() []float64 {
	out := make([]float64, len(p.Capacities))
	for i, c := range p.Capacities {
		out[i] = float64(c)
	}
	return out
}
