package scheduler

import (
	"errors"
	"fmt"
)

// Item describes one schedulable callback and its declared ordering
// constraint. IDs must be unique within one Schedule call.
type Item struct {
	ID string

	// First marks the unique start point of the plan. It conflicts with
	// Last and After on the same item.
	First bool

	// Last marks the sole member of the final group.
	Last bool

	// After lists the IDs of items that must complete before this one
	// starts.
	After []string
}

// Plan is an ordered sequence of groups. Groups execute strictly in
// sequence; members within a group may execute concurrently.
type Plan [][]string

var (
	// ErrConstraintConflict marks invalid constraint declarations: two
	// run-first (or run-last) items, or an item mixing run-first/run-last
	// with run-after.
	ErrConstraintConflict = errors.New("conflicting ordering constraint")

	// ErrCyclicDependency marks a cycle among run-after edges.
	ErrCyclicDependency = errors.New("circular dependency")
)

// node colors for the topological DFS.
type color uint8

const (
	white color = iota // unvisited, or scheduled into a completed group
	gray               // on the DFS stack
	black              // finished DFS, not yet scheduled
)

// Schedule builds the dependency graph for the given items and emits the
// grouped execution plan. The plan is deterministic for a given item order.
func Schedule(items []Item) (Plan, error) {
	var first, last string
	hasFirst, hasLast := false, false

	colors := make(map[string]color, len(items))
	children := make(map[string][]string)
	parents := make(map[string][]string)
	var starts []string

	// Single classification pass over the inputs.
	for _, item := range items {
		if _, seen := colors[item.ID]; seen || (hasFirst && first == item.ID) || (hasLast && last == item.ID) {
			return nil, fmt.Errorf("duplicate callback %q in schedule", item.ID)
		}

		if item.First {
			if item.Last || len(item.After) > 0 {
				return nil, fmt.Errorf("%w: %q combines run_first with other constraints", ErrConstraintConflict, item.ID)
			}
			if hasFirst {
				return nil, fmt.Errorf("%w: run_first already claimed by %q", ErrConstraintConflict, first)
			}
			first, hasFirst = item.ID, true
			colors[item.ID] = white
			continue
		}

		if item.Last {
			if len(item.After) > 0 {
				return nil, fmt.Errorf("%w: %q combines run_last with run_after", ErrConstraintConflict, item.ID)
			}
			if hasLast {
				return nil, fmt.Errorf("%w: run_last already claimed by %q", ErrConstraintConflict, last)
			}
			last, hasLast = item.ID, true
			continue
		}

		if len(item.After) == 0 {
			starts = append(starts, item.ID)
		} else {
			for _, parent := range item.After {
				if !containsID(parents[item.ID], parent) {
					parents[item.ID] = append(parents[item.ID], parent)
					children[parent] = append(children[parent], item.ID)
				}
			}
		}
		colors[item.ID] = white
	}

	// Every declared parent must be part of this schedule.
	for child, ps := range parents {
		for _, parent := range ps {
			if _, ok := colors[parent]; !ok {
				if hasLast && parent == last {
					return nil, fmt.Errorf("%w: %q runs after the run_last callback %q", ErrConstraintConflict, child, parent)
				}
				return nil, fmt.Errorf("callback %q runs after unknown callback %q", child, parent)
			}
		}
	}

	// A run-first callback adopts every other start point, becoming the
	// unique entry of the graph.
	if hasFirst {
		for _, start := range starts {
			children[first] = append(children[first], start)
			parents[start] = append(parents[start], first)
		}
		starts = []string{first}
	}

	// Topological DFS from each start point. The reversed finish order per
	// start is a candidate total order honoring parent-before-child.
	var sequences [][]string
	var visit func(id string, finish *[]string) error
	visit = func(id string, finish *[]string) error {
		switch colors[id] {
		case gray:
			return fmt.Errorf("%w involving %q", ErrCyclicDependency, id)
		case black:
			return nil
		}
		colors[id] = gray
		for _, child := range children[id] {
			if err := visit(child, finish); err != nil {
				return err
			}
		}
		colors[id] = black
		*finish = append(*finish, id)
		return nil
	}

	for _, start := range starts {
		var finish []string
		if err := visit(start, &finish); err != nil {
			return nil, err
		}
		if len(finish) > 0 {
			reverse(finish)
			sequences = append(sequences, finish)
		}
	}

	// Anything still unvisited sits on a cycle with no reachable entry.
	for id, c := range colors {
		if c == white {
			return nil, fmt.Errorf("%w involving %q", ErrCyclicDependency, id)
		}
	}

	// Grouping pass: repeatedly take the ready front of every sequence.
	// An item is ready once none of its parents is still waiting (black).
	var plan Plan
	for len(sequences) > 0 {
		var group []string
		for i := range sequences {
			for len(sequences[i]) > 0 {
				id := sequences[i][0]
				if anyBlack(colors, parents[id]) {
					break
				}
				group = append(group, id)
				sequences[i] = sequences[i][1:]
			}
		}

		if len(group) == 0 {
			return nil, fmt.Errorf("schedule stalled with %d sequences pending", len(sequences))
		}

		// Mark the whole group complete only after the scan, so members
		// never depend on each other within one group.
		for _, id := range group {
			colors[id] = white
		}
		plan = append(plan, group)

		remaining := sequences[:0]
		for _, seq := range sequences {
			if len(seq) > 0 {
				remaining = append(remaining, seq)
			}
		}
		sequences = remaining
	}

	if hasLast {
		plan = append(plan, []string{last})
	}
	return plan, nil
}

func anyBlack(colors map[string]color, ids []string) bool {
	for _, id := range ids {
		if colors[id] == black {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func reverse(ids []string) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}
