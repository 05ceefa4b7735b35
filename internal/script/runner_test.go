package script

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/rs/zerolog"
)

func TestBuiltinScenariosPass(t *testing.T) {
	for _, name := range ListBuiltin() {
		t.Run(name, func(t *testing.T) {
			trace, err := Run(context.Background(), GetBuiltin(name), zerolog.Nop())
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if len(trace.Snapshots) != len(Builtin[name].Steps) {
				t.Errorf("expected %d snapshots, got %d", len(Builtin[name].Steps), len(trace.Snapshots))
			}
		})
	}
}

func TestRun_Walkthrough(t *testing.T) {
	trace, err := Run(context.Background(), GetBuiltin("walkthrough"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	final := trace.Final()
	if final.Size != 0 || final.Capacity != 4 {
		t.Errorf("final size=%d cap=%d, want 0/4", final.Size, final.Capacity)
	}
	if trace.Stats.Reallocations != 3 {
		t.Errorf("expected 3 reallocations, got %d", trace.Stats.Reallocations)
	}
	if got := trace.Snapshots[3].Values; !slices.Equal(got, []int{1, 9, 2, 3}) {
		t.Errorf("after insert: %v", got)
	}
}

func TestRun_ExpectationMismatch(t *testing.T) {
	sc := &Scenario{
		Name: "wrong",
		Steps: []Step{
			{Op: OpAppend, Value: 1},
			{Op: OpAppend, Value: 2, Expect: &Expect{Capacity: intp(3)}},
			{Op: OpAppend, Value: 3},
		},
	}
	trace, err := Run(context.Background(), sc, zerolog.Nop())
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("expected ErrExpectation, got %v", err)
	}
	var ee *ExpectationError
	if !errors.As(err, &ee) || ee.Step != 2 {
		t.Errorf("expected failure at step 2, got %v", err)
	}
	if len(trace.Snapshots) != 2 {
		t.Errorf("trace should stop at failing step, got %d snapshots", len(trace.Snapshots))
	}
}

func TestRun_UnexpectedErrorContinues(t *testing.T) {
	sc := &Scenario{
		Name: "lenient",
		Steps: []Step{
			{Op: OpRemove, Index: 0},
			{Op: OpAppend, Value: 1},
		},
	}
	trace, err := Run(context.Background(), sc, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trace.Snapshots[0].Err == "" {
		t.Error("failed step should record its error")
	}
	if trace.Final().Size != 1 {
		t.Errorf("expected size 1, got %d", trace.Final().Size)
	}
}

func TestRun_StopOnError(t *testing.T) {
	sc := &Scenario{
		Name:        "strict",
		StopOnError: true,
		Steps: []Step{
			{Op: OpPop},
			{Op: OpAppend, Value: 1},
		},
	}
	trace, err := Run(context.Background(), sc, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error")
	}
	if ErrKind(err) != KindOutOfBounds {
		t.Errorf("expected out-of-bounds kind, got %q", ErrKind(err))
	}
	if len(trace.Snapshots) != 1 {
		t.Errorf("expected 1 snapshot, got %d", len(trace.Snapshots))
	}
}

func TestRun_InitialCapacityAndLimit(t *testing.T) {
	sc := &Scenario{
		Name:            "sized",
		InitialCapacity: 3,
		Limit:           3,
		Steps: []Step{
			{Op: OpAppendRange, From: 1, To: 3, Expect: &Expect{Capacity: intp(3)}},
			{Op: OpAppend, Value: 4, Expect: &Expect{Error: KindAllocation, Values: []int{1, 2, 3}}},
		},
	}
	if _, err := Run(context.Background(), sc, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}

	sc.InitialCapacity = 5
	if _, err := Run(context.Background(), sc, zerolog.Nop()); ErrKind(err) != KindAllocation {
		t.Errorf("initial capacity above limit: %v", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	trace, err := Run(ctx, GetBuiltin("doubling"), zerolog.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(trace.Snapshots) != 0 {
		t.Errorf("expected no snapshots, got %d", len(trace.Snapshots))
	}
}

func TestParseScenario(t *testing.T) {
	data := []byte(`
name: yaml
limit: 8
steps:
  - op: append_range
    from: 1
    to: 3
  - op: insert
    index: 0
    value: 0
    expect:
      values: [0, 1, 2, 3]
  - op: clear
    expect:
      values: []
      capacity: 4
`)
	sc, err := ParseScenario(data)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Limit != 8 || len(sc.Steps) != 3 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}
	if _, err := Run(context.Background(), sc, zerolog.Nop()); err != nil {
		t.Errorf("run failed: %v", err)
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"no steps", "name: empty\n", ErrNoSteps},
		{"unknown op", "name: bad\nsteps:\n  - op: explode\n", ErrUnknownOp},
		{"missing name", "steps:\n  - op: pop\n", ErrBadName},
		{"parent dir name", "name: ../x\nsteps:\n  - op: pop\n", ErrBadName},
		{"nested name", "name: a/b\nsteps:\n  - op: pop\n", ErrBadName},
		{"range overflows", "name: huge\nsteps:\n  - op: append_range\n    from: -9000000000000000000\n    to: 9000000000000000000\n", ErrRangeTooBig},
		{"range too long", "name: long\nsteps:\n  - op: append_range\n    from: 0\n    to: 10000000000\n", ErrRangeTooBig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScenario([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := ParseScenario([]byte("name: rev\nsteps:\n  - op: append_range\n    from: 5\n    to: 1\n")); err == nil {
		t.Error("expected error for reversed range")
	}
}

func TestRun_AppendRangeBounds(t *testing.T) {
	sc := &Scenario{
		Name:  "edge",
		Limit: 4,
		Steps: []Step{
			{Op: OpAppendRange, From: -2, To: 1, Expect: &Expect{Values: []int{-2, -1, 0, 1}}},
			{Op: OpAppendRange, From: 2, To: 2, Expect: &Expect{Error: KindAllocation, Size: intp(4)}},
		},
	}
	if _, err := Run(context.Background(), sc, zerolog.Nop()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	sc.Steps = append(sc.Steps, Step{Op: OpAppendRange, From: math.MinInt, To: math.MaxInt})
	if _, err := Run(context.Background(), sc, zerolog.Nop()); !errors.Is(err, ErrRangeTooBig) {
		t.Errorf("expected ErrRangeTooBig before any step ran, got %v", err)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte("name: file\nsteps:\n  - op: append\n    value: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "file" || sc.Steps[0].Value != 3 {
		t.Errorf("unexpected scenario: %+v", sc)
	}
}
