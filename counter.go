// Package arrange counts the ways a partially known condition record can be
// resolved so that its maximal runs of blocked cells match a group spec
// exactly, in order.
package arrange

import (
	"rowfold.dev/arrange/pkg/records"
)

// memoKey identifies a sub-problem by where its record and group suffixes
// start. The search only ever shrinks both sequences from the front, so a
// pair of offsets pins a sub-problem down completely, and hashing two ints
// stays cheap no matter how long the unfolded record gets.
type memoKey struct {
	cell  int
	group int
}

// counter holds the state of one top-level Count call.
type counter struct {
	cells  []records.Cell
	groups records.GroupSpec

	// need[k] is the minimum number of cells that can hold groups[k:]:
	// their lengths plus one separator between consecutive runs.
	need []int

	// memo lives and dies with the call; it is never shared across records.
	memo map[memoKey]int64
}

// Count returns the number of ways to resolve every Unknown cell in rs so
// the record's maximal Blocked runs equal rs.Groups exactly, with no extra
// runs. Infeasible specs are not an error; the count is simply 0.
//
// Counts are int64. At problem scale (records of a few hundred cells after
// unfolding, groups in the tens) results stay far below overflow.
func Count(rs records.RecordSpec) int64 {
	c := &counter{
		cells:  rs.Record.Cells(),
		groups: rs.Groups,
		memo:   make(map[memoKey]int64),
	}

	c.need = make([]int, len(c.groups)+1)
	for k := len(c.groups) - 1; k >= 0; k-- {
		c.need[k] = c.need[k+1] + c.groups[k]
		if k < len(c.groups)-1 {
			c.need[k]++ // separator before the next run
		}
	}

	return c.count(0, 0)
}

func (c *counter) count(cellAt, groupAt int) int64 {
	key := memoKey{cell: cellAt, group: groupAt}
	if cached, ok := c.memo[key]; ok {
		return cached
	}

	cells := c.cells[cellAt:]

	// No runs left: the remainder must be free of Blocked cells, every
	// Unknown resolving to Clear.
	if groupAt == len(c.groups) {
		result := int64(1)
		for _, cell := range cells {
			if cell == records.Blocked {
				result = 0
				break
			}
		}
		c.memo[key] = result
		return result
	}

	g := c.groups[groupAt]

	var result int64
	for i := 0; i+c.need[groupAt] <= len(cells); i++ {
		// A Blocked cell ahead of the run start can never resolve to
		// Clear, so no later start can be valid either.
		if i > 0 && cells[i-1] == records.Blocked {
			break
		}

		if !placeable(cells, i, g) {
			continue
		}

		// Skip the run and its separator; the separator may fall off the
		// end of the record.
		next := i + g + 1
		if next > len(cells) {
			next = len(cells)
		}
		result += c.count(cellAt+next, groupAt+1)
	}

	c.memo[key] = result
	return result
}

// placeable reports whether a run of length g can start at offset i: the
// run window must not contain Clear, and the cell after it, if any, must
// not be Blocked, so the run terminates there.
func placeable(cells []records.Cell, i, g int) bool {
	for _, cell := range cells[i : i+g] {
		if cell == records.Clear {
			return false
		}
	}
	if end := i + g; end < len(cells) && cells[end] == records.Blocked {
		return false
	}
	return true
}
