package dataprep

import "strings"

// Columns is the read side of a table as seen by the cleaning checks.
type Columns interface {
	Names() []string
	Strings(name string) ([]string, error)
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "NaN", "null":
		return true
	}
	return false
}

// MissingCounts returns the number of missing cells per column, omitting
// columns with none.
func MissingCounts(t Columns) (map[string]int, error) {
	out := make(map[string]int)
	for _, name := range t.Names() {
		col, err := t.Strings(name)
		if err != nil {
			return nil, &ColumnError{Column: name, Err: err}
		}
		for _, v := range col {
			if IsMissing(v) {
				out[name]++
			}
		}
	}
	return out, nil
}
