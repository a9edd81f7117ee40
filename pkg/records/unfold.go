package records

import "fmt"

// Capacity limits checked before an unfolded record is materialized.
// Anything beyond these would make the memo table itself the bottleneck.
const (
	MaxCells  = 16384
	MaxGroups = 4096
)

// Unfold replicates rs factor times: the record copies are joined by a
// single Unknown cell (no separator before the first or after the last
// copy), and the groups are concatenated with no insertions.
//
// Unfold is pure; identical inputs always produce identical output.
func Unfold(rs RecordSpec, factor int) (RecordSpec, error) {
	if factor < 1 {
		return RecordSpec{}, fmt.Errorf("unfold factor must be at least 1, got %d", factor)
	}

	numCells := rs.Record.Len()*factor + (factor - 1)
	if numCells > MaxCells {
		return RecordSpec{}, fmt.Errorf("unfolded record too large: %d cells exceeds the %d-cell limit", numCells, MaxCells)
	}
	numGroups := len(rs.Groups) * factor
	if numGroups > MaxGroups {
		return RecordSpec{}, fmt.Errorf("unfolded spec too large: %d groups exceeds the %d-group limit", numGroups, MaxGroups)
	}

	src := rs.Record.Cells()
	cells := make([]Cell, 0, numCells)
	groups := make(GroupSpec, 0, numGroups)
	for i := 0; i < factor; i++ {
		if i > 0 {
			cells = append(cells, Unknown)
		}
		cells = append(cells, src...)
		groups = append(groups, rs.Groups...)
	}

	return RecordSpec{Record: Record{cells: cells}, Groups: groups}, nil
}
