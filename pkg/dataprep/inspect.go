package dataprep

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrMissingColumn is returned when the column to inspect is absent.
	ErrMissingColumn = errors.New("dataprep: missing column")
	// ErrEmptyColumn is returned when the column has no rows.
	ErrEmptyColumn = errors.New("dataprep: empty column")
)

// ColumnError attaches the column name to a dataprep failure.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string { return fmt.Sprintf("column %q: %v", e.Column, e.Err) }

func (e *ColumnError) Unwrap() error { return e.Err }

// Frequency is one row of a frequency table.
type Frequency[T cmp.Ordered] struct {
	Value      T
	Count      int
	Percentage float64 // Count / total rows
	Accepted   bool
}

// FrequencyTable lists every observed value in ascending order.
type FrequencyTable[T cmp.Ordered] []Frequency[T]

// Total returns the number of rows the table was built from.
func (ft FrequencyTable[T]) Total() int {
	n := 0
	for _, f := range ft {
		n += f.Count
	}
	return n
}

// Inspection is the result of inspecting a categorical column.
type Inspection[T cmp.Ordered] struct {
	Table FrequencyTable[T]
	// Flags[i] is true when row i holds a value outside the accepted set.
	Flags []bool
}

// Clean reports whether no row was flagged.
func (in *Inspection[T]) Clean() bool {
	for _, f := range in.Table {
		if !f.Accepted {
			return false
		}
	}
	return true
}

// Invalid returns the distinct values outside the accepted set, ascending.
func (in *Inspection[T]) Invalid() []T {
	var out []T
	for _, f := range in.Table {
		if !f.Accepted {
			out = append(out, f.Value)
		}
	}
	return out
}

// FlaggedRows returns the indices of flagged rows.
func (in *Inspection[T]) FlaggedRows() []int {
	var rows []int
	for i, bad := range in.Flags {
		if bad {
			rows = append(rows, i)
		}
	}
	return rows
}

// Inspect tabulates col and flags every row whose value is not in accepted.
// An empty accepted set flags every row. col is not modified.
func Inspect[T cmp.Ordered](col []T, accepted []T) (*Inspection[T], error) {
	if col == nil {
		return nil, ErrMissingColumn
	}
	if len(col) == 0 {
		return nil, ErrEmptyColumn
	}

	allowed := make(map[T]struct{}, len(accepted))
	for _, v := range accepted {
		allowed[v] = struct{}{}
	}

	counts := make(map[T]int)
	flags := make([]bool, len(col))
	for i, v := range col {
		counts[v]++
		_, ok := allowed[v]
		flags[i] = !ok
	}

	values := make([]T, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	slices.Sort(values)

	n := float64(len(col))
	table := make(FrequencyTable[T], len(values))
	for i, v := range values {
		_, ok := allowed[v]
		table[i] = Frequency[T]{
			Value:      v,
			Count:      counts[v],
			Percentage: float64(counts[v]) / n,
			Accepted:   ok,
		}
	}
	return &Inspection[T]{Table: table, Flags: flags}, nil
}

// Recode maps every value outside accepted to fallback and returns a new slice.
func Recode[T comparable](col []T, accepted []T, fallback T) []T {
	allowed := make(map[T]struct{}, len(accepted))
	for _, v := range accepted {
		allowed[v] = struct{}{}
	}
	out := make([]T, len(col))
	for i, v := range col {
		if _, ok := allowed[v]; ok {
			out[i] = v
		} else {
			out[i] = fallback
		}
	}
	return out
}
