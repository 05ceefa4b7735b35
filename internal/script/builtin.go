package script

import "sort"

var Builtin = map[string]*Scenario{
	"walkthrough": {
		Name:        "walkthrough",
		Description: "append 1,2,3; insert 9 at 1; remove 0; clear",
		Steps: []Step{
			{Op: OpAppend, Value: 1, Expect: &Expect{Capacity: intp(1)}},
			{Op: OpAppend, Value: 2, Expect: &Expect{Capacity: intp(2)}},
			{Op: OpAppend, Value: 3, Expect: &Expect{Size: intp(3), Capacity: intp(4), Values: []int{1, 2, 3}}},
			{Op: OpInsert, Index: 1, Value: 9, Expect: &Expect{Values: []int{1, 9, 2, 3}}},
			{Op: OpRemove, Index: 0, Expect: &Expect{Values: []int{9, 2, 3}}},
			{Op: OpClear, Expect: &Expect{Size: intp(0), Capacity: intp(4), Values: []int{}}},
		},
	},
	"doubling": {
		Name:        "doubling",
		Description: "capacity doubles 1, 2, 4, 8, 16 under appends",
		Steps: []Step{
			{Op: OpAppend, Value: 0, Expect: &Expect{Capacity: intp(1)}},
			{Op: OpAppend, Value: 1, Expect: &Expect{Capacity: intp(2)}},
			{Op: OpAppend, Value: 2, Expect: &Expect{Capacity: intp(4)}},
			{Op: OpAppendRange, From: 3, To: 7, Expect: &Expect{Size: intp(8), Capacity: intp(8)}},
			{Op: OpAppend, Value: 8, Expect: &Expect{Size: intp(9), Capacity: intp(16)}},
		},
	},
	"churn": {
		Name:        "churn",
		Description: "interleaved inserts and removes; capacity never shrinks",
		Steps: []Step{
			{Op: OpAppendRange, From: 1, To: 6},
			{Op: OpRemove, Index: 0},
			{Op: OpRemove, Index: 0},
			{Op: OpInsert, Index: 2, Value: 42},
			{Op: OpPop},
			{Op: OpSet, Index: 0, Value: 7},
			{Op: OpRemove, Index: 3, Expect: &Expect{Values: []int{7, 4, 42}, Capacity: intp(8)}},
			{Op: OpShrink, Expect: &Expect{Capacity: intp(3)}},
			{Op: OpReserve, N: 10, Expect: &Expect{Size: intp(3), Capacity: intp(10)}},
		},
	},
	"bounds": {
		Name:        "bounds",
		Description: "out-of-bounds access fails without mutating",
		Steps: []Step{
			{Op: OpAppendRange, From: 1, To: 3},
			{Op: OpRemove, Index: 3, Expect: &Expect{Error: KindOutOfBounds, Size: intp(3)}},
			{Op: OpSet, Index: -1, Value: 5, Expect: &Expect{Error: KindOutOfBounds}},
			{Op: OpInsert, Index: 4, Value: 5, Expect: &Expect{Error: KindOutOfBounds}},
			{Op: OpInsert, Index: 3, Value: 4, Expect: &Expect{Values: []int{1, 2, 3, 4}}},
		},
	},
	"bounded": {
		Name:        "bounded",
		Description: "growth past the capacity limit fails and keeps the vector intact",
		Limit:       4,
		Steps: []Step{
			{Op: OpAppendRange, From: 1, To: 4, Expect: &Expect{Capacity: intp(4)}},
			{Op: OpAppend, Value: 5, Expect: &Expect{Error: KindAllocation, Size: intp(4), Capacity: intp(4)}},
			{Op: OpReserve, N: 5, Expect: &Expect{Error: KindAllocation}},
			{Op: OpRemove, Index: 0},
			{Op: OpAppend, Value: 5, Expect: &Expect{Values: []int{2, 3, 4, 5}}},
		},
	},
}

// GetBuiltin returns the named built-in scenario, or nil.
func GetBuiltin(name string) *Scenario {
	return Builtin[name]
}

func ListBuiltin() []string {
	names := make([]string, 0, len(Builtin))
	for name := range Builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
