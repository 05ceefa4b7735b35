package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownOp   = errors.New("script: unknown op")
	ErrExpectation = errors.New("script: expectation not met")
	ErrNoSteps     = errors.New("script: scenario has no steps")
	ErrBadName     = errors.New("script: invalid scenario name")
	ErrRangeTooBig = errors.New("script: append_range too large")
)

// MaxRangeLen bounds the number of values a single append_range may produce.
const MaxRangeLen = 1 << 20

const (
	OpAppend      = "append"
	OpAppendRange = "append_range"
	OpInsert      = "insert"
	OpRemove      = "remove"
	OpSet         = "set"
	OpPop         = "pop"
	OpReserve     = "reserve"
	OpClear       = "clear"
	OpShrink      = "shrink"
	OpRelease     = "release"
)

var knownOps = map[string]bool{
	OpAppend: true, OpAppendRange: true, OpInsert: true, OpRemove: true, OpSet: true,
	OpPop: true, OpReserve: true, OpClear: true, OpShrink: true, OpRelease: true,
}

// Error kinds used by Expect.Error.
const (
	KindOutOfBounds = "out_of_bounds"
	KindAllocation  = "allocation"
)

// Scenario is a scripted sequence of vector operations.
type Scenario struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	InitialCapacity int    `yaml:"initial_capacity,omitempty"`
	Limit           int    `yaml:"limit,omitempty"`
	StopOnError     bool   `yaml:"stop_on_error,omitempty"`
	Steps           []Step `yaml:"steps"`
}

// Step is a single operation. Which fields matter depends on Op.
// append_range appends From through To inclusive.
type Step struct {
	Op     string  `yaml:"op"`
	Value  int     `yaml:"value,omitempty"`
	Index  int     `yaml:"index,omitempty"`
	N      int     `yaml:"n,omitempty"`
	From   int     `yaml:"from,omitempty"`
	To     int     `yaml:"to,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the vector state after a step. Nil fields are not checked.
type Expect struct {
	Size     *int   `yaml:"size,omitempty"`
	Capacity *int   `yaml:"capacity,omitempty"`
	Values   []int  `yaml:"values,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if err := validateName(sc.Name); err != nil {
		return err
	}
	if len(sc.Steps) == 0 {
		return ErrNoSteps
	}
	if sc.InitialCapacity < 0 || sc.Limit < 0 {
		return fmt.Errorf("script: negative initial_capacity or limit")
	}
	for i, step := range sc.Steps {
		if !knownOps[step.Op] {
			return fmt.Errorf("step %d: %w %q", i+1, ErrUnknownOp, step.Op)
		}
		if step.Op == OpAppendRange {
			if step.To < step.From {
				return fmt.Errorf("step %d: append_range to %d before from %d", i+1, step.To, step.From)
			}
			if _, ok := rangeLen(step.From, step.To); !ok {
				return fmt.Errorf("step %d: %w: %d..%d exceeds %d values", i+1, ErrRangeTooBig, step.From, step.To, MaxRangeLen)
			}
		}
		if e := step.Expect; e != nil && e.Error != "" && e.Error != KindOutOfBounds && e.Error != KindAllocation {
			return fmt.Errorf("step %d: unknown expected error kind %q", i+1, e.Error)
		}
	}
	return nil
}

// validateName rejects names that cannot be used as a run directory.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w %q", ErrBadName, name)
	}
	return nil
}

// rangeLen returns the number of values in from..to inclusive. The difference
// is taken in uint64 so that extreme bounds cannot overflow.
func rangeLen(from, to int) (int, bool) {
	if to < from {
		return 0, false
	}
	d := uint64(to) - uint64(from)
	if d >= MaxRangeLen {
		return 0, false
	}
	return int(d) + 1, true
}

func intp(n int) *int { return &n }
