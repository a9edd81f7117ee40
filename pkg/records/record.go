// Package records defines the condition-record value types consumed by the
// counting engine: tri-state cells, the record itself, and the group spec
// describing its required runs of blocked cells.
package records

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is one tri-state position in a condition record.
type Cell byte

const (
	Clear   Cell = '.'
	Blocked Cell = '#'
	Unknown Cell = '?'
)

// Valid reports whether c is one of the three legal cell states.
func (c Cell) Valid() bool {
	return c == Clear || c == Blocked || c == Unknown
}

// Record is an immutable sequence of cells.
//
// It is never mutated after construction; every transformation produces a
// fresh Record.
type Record struct {
	cells []Cell
}

// NewRecord builds a Record from a copy of cells.
func NewRecord(cells []Cell) Record {
	copied := make([]Cell, len(cells))
	copy(copied, cells)
	return Record{cells: copied}
}

func (r Record) Len() int {
	return len(r.cells)
}

func (r Record) At(i int) Cell {
	return r.cells[i]
}

// Cells returns a copy of the record's cells.
func (r Record) Cells() []Cell {
	copied := make([]Cell, len(r.cells))
	copy(copied, r.cells)
	return copied
}

// String renders the record in its input form, e.g. "???.###".
func (r Record) String() string {
	b := make([]byte, len(r.cells))
	for i, cell := range r.cells {
		b[i] = byte(cell)
	}
	return string(b)
}

// GroupSpec is the ordered list of required blocked-run lengths.
// Every element is at least 1.
type GroupSpec []int

// Sum returns the total number of blocked cells the spec demands.
func (g GroupSpec) Sum() int {
	sum := 0
	for _, n := range g {
		sum += n
	}
	return sum
}

// String renders the spec in its input form, e.g. "1,1,3".
func (g GroupSpec) String() string {
	parts := make([]string, len(g))
	for i, n := range g {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// RecordSpec is one parsed input line: a record and the run lengths its
// arrangements must produce.
type RecordSpec struct {
	Record Record
	Groups GroupSpec
}

func (rs RecordSpec) String() string {
	return rs.Record.String() + " " + rs.Groups.String()
}

// ParseRecord parses a string over the alphabet {'.', '#', '?'}.
func ParseRecord(s string) (Record, error) {
	if s == "" {
		return Record{}, fmt.Errorf("empty record")
	}

	cells := make([]Cell, len(s))
	for i := 0; i < len(s); i++ {
		cell := Cell(s[i])
		if !cell.Valid() {
			return Record{}, fmt.Errorf("illegal cell %q at offset %d", s[i], i)
		}
		cells[i] = cell
	}
	return Record{cells: cells}, nil
}

// ParseGroups parses a comma-separated list of positive decimal integers.
func ParseGroups(s string) (GroupSpec, error) {
	if s == "" {
		return nil, fmt.Errorf("empty group spec")
	}

	parts := strings.Split(s, ",")
	groups := make(GroupSpec, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("group length %q: %w", part, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("group length must be at least 1, got %d", n)
		}
		groups = append(groups, n)
	}
	return groups, nil
}

// ParseLine parses one "<record> <groups>" input line, e.g. "???.### 1,1,3".
func ParseLine(line string) (RecordSpec, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return RecordSpec{}, fmt.Errorf("want \"<record> <groups>\", got %d fields", len(fields))
	}

	record, err := ParseRecord(fields[0])
	if err != nil {
		return RecordSpec{}, fmt.Errorf("record %q: %w", fields[0], err)
	}

	groups, err := ParseGroups(fields[1])
	if err != nil {
		return RecordSpec{}, fmt.Errorf("groups %q: %w", fields[1], err)
	}

	return RecordSpec{Record: record, Groups: groups}, nil
}
