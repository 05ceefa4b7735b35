package script

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/san-kum/dynseq/internal/seq"
)

// Snapshot is the vector state observed after one step.
type Snapshot struct {
	Step     int    `json:"step"`
	Op       string `json:"op"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
	Values   []int  `json:"values"`
	Err      string `json:"error,omitempty"`
}

// Trace is the full record of a scenario run.
type Trace struct {
	Scenario  string     `json:"scenario"`
	Snapshots []Snapshot `json:"snapshots"`
	Stats     seq.Stats  `json:"stats"`
}

// Final returns the last snapshot, or a zero snapshot for an empty trace.
func (t *Trace) Final() Snapshot {
	if len(t.Snapshots) == 0 {
		return Snapshot{}
	}
	return t.Snapshots[len(t.Snapshots)-1]
}

// ExpectationError reports a step whose observed state differs from Expect.
type ExpectationError struct {
	Step   int
	Op     string
	Detail string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Step, e.Op, e.Detail)
}

func (e *ExpectationError) Unwrap() error {
	return ErrExpectation
}

// ErrKind classifies a vector error as one of the Kind constants, or "".
func ErrKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, seq.ErrOutOfBounds):
		return KindOutOfBounds
	case errors.Is(err, seq.ErrAllocation):
		return KindAllocation
	default:
		return "unknown"
	}
}

// Run executes all steps of sc against a fresh vector of ints. The trace
// up to the failing step is returned alongside any error.
func Run(ctx context.Context, sc *Scenario, log zerolog.Logger) (*Trace, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	log = log.With().Str("scenario", sc.Name).Logger()
	v, err := seq.NewWithCapacity(sc.InitialCapacity,
		seq.WithLimit[int](sc.Limit),
		seq.WithLogger[int](log),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	trace := &Trace{
		Scenario:  sc.Name,
		Snapshots: make([]Snapshot, 0, len(sc.Steps)),
	}

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			trace.Stats = v.Stats()
			return trace, fmt.Errorf("step %d: %w", i+1, err)
		}

		opErr := apply(v, step)
		snap := Snapshot{
			Step:     i + 1,
			Op:       step.Op,
			Size:     v.Len(),
			Capacity: v.Cap(),
			Values:   v.Values(),
		}
		if opErr != nil {
			snap.Err = opErr.Error()
		}
		trace.Snapshots = append(trace.Snapshots, snap)
		trace.Stats = v.Stats()

		if err := check(step, snap, opErr); err != nil {
			return trace, err
		}

		expected := step.Expect != nil && step.Expect.Error != ""
		if opErr != nil && !expected {
			log.Warn().Int("step", i+1).Str("op", step.Op).Err(opErr).Msg("step failed")
			if sc.StopOnError {
				return trace, fmt.Errorf("step %d (%s): %w", i+1, step.Op, opErr)
			}
			continue
		}
		log.Debug().Int("step", i+1).Str("op", step.Op).Int("size", snap.Size).Int("capacity", snap.Capacity).Msg("step done")
	}

	return trace, nil
}

func apply(v *seq.Vector[int], step Step) error {
	switch step.Op {
	case OpAppend:
		return v.Append(step.Value)
	case OpAppendRange:
		n, ok := rangeLen(step.From, step.To)
		if !ok {
			return fmt.Errorf("%w: %d..%d", ErrRangeTooBig, step.From, step.To)
		}
		xs := make([]int, n)
		for i := range xs {
			xs[i] = step.From + i
		}
		return v.AppendAll(xs...)
	case OpInsert:
		return v.InsertAt(step.Index, step.Value)
	case OpRemove:
		return v.RemoveAt(step.Index)
	case OpSet:
		return v.Set(step.Index, step.Value)
	case OpPop:
		_, err := v.Pop()
		return err
	case OpReserve:
		return v.Reserve(step.N)
	case OpClear:
		v.Clear()
		return nil
	case OpShrink:
		return v.ShrinkToFit()
	case OpRelease:
		v.Release()
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, step.Op)
	}
}

func check(step Step, snap Snapshot, opErr error) error {
	e := step.Expect
	if e == nil {
		return nil
	}
	fail := func(format string, args ...any) error {
		return &ExpectationError{Step: snap.Step, Op: step.Op, Detail: fmt.Sprintf(format, args...)}
	}
	if got := ErrKind(opErr); got != e.Error {
		return fail("error kind %q, want %q", got, e.Error)
	}
	if e.Size != nil && snap.Size != *e.Size {
		return fail("size %d, want %d", snap.Size, *e.Size)
	}
	if e.Capacity != nil && snap.Capacity != *e.Capacity {
		return fail("capacity %d, want %d", snap.Capacity, *e.Capacity)
	}
	if e.Values != nil && !slices.Equal(snap.Values, e.Values) {
		return fail("values %v, want %v", snap.Values, e.Values)
	}
	return nil
}
