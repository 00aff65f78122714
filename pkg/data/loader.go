package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cast"

	"creditwrangle/pkg/dataprep"
)

var (
	// ErrMalformedTable is returned when the input cannot be parsed as a table.
	ErrMalformedTable = errors.New("data: malformed table")
	// ErrNotNumeric is returned when a numeric view is requested over a
	// column holding non-numeric cells.
	ErrNotNumeric = errors.New("data: non-numeric cell")
)

// Table is a CSV table whose cells are kept as the raw strings read from
// disk. Columns only change when a cleaning step rewrites them.
type Table struct {
	// Group is the optional header line above the column names
	// (",X1,X2,...,Y" in the credit card dataset).
	Group []string
	frame dataframe.DataFrame
}

type readOptions struct {
	groupHeader bool
}

// ReadOption configures Read and Load.
type ReadOption func(*readOptions)

// WithGroupHeader expects an extra header line above the column names.
func WithGroupHeader() ReadOption {
	return func(o *readOptions) { o.groupHeader = true }
}

// Load reads a table from a CSV file.
func Load(path string, opts ...ReadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, opts...)
}

// Read parses a CSV table. The first column is the record identifier.
func Read(r io.Reader, opts ...ReadOption) (*Table, error) {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	br := bufio.NewReader(r)
	t := &Table{}
	if o.groupHeader {
		group, _, err := readHeader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: group header: %v", ErrMalformedTable, err)
		}
		t.Group = group
	}

	// gota renames blank and repeated column names, so the names line is
	// checked here and handed back to it unchanged.
	names, line, err := readHeader(br)
	if err != nil {
		return nil, fmt.Errorf("%w: column names: %v", ErrMalformedTable, err)
	}
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrMalformedTable, i)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrMalformedTable, n)
		}
		seen[n] = true
	}

	t.frame = dataframe.ReadCSV(io.MultiReader(strings.NewReader(line), br),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if t.frame.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, t.frame.Err)
	}
	if t.frame.Ncol() == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrMalformedTable)
	}
	if !slices.Equal(names, t.frame.Names()) {
		return nil, fmt.Errorf("%w: column names %v read as %v", ErrMalformedTable, names, t.frame.Names())
	}
	if t.Group != nil && len(t.Group) != t.frame.Ncol() {
		return nil, fmt.Errorf("%w: group header has %d cells, table has %d columns",
			ErrMalformedTable, len(t.Group), t.frame.Ncol())
	}
	return t, nil
}

// readHeader reads one header line and returns its cells and raw text.
func readHeader(br *bufio.Reader) ([]string, string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, "", err
	}
	rec, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, "", err
	}
	return rec, line, nil
}

// Names returns the column names in file order.
func (t *Table) Names() []string { return t.frame.Names() }

// Len returns the number of records.
func (t *Table) Len() int { return t.frame.Nrow() }

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	for _, n := range t.frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func (t *Table) column(name string) (series.Series, error) {
	if !t.Has(name) {
		return series.Series{}, &dataprep.ColumnError{Column: name, Err: dataprep.ErrMissingColumn}
	}
	s := t.frame.Col(name)
	if s.Err != nil {
		return series.Series{}, &dataprep.ColumnError{Column: name, Err: s.Err}
	}
	return s, nil
}

// Strings returns a copy of the raw cells of a column.
func (t *Table) Strings(name string) ([]string, error) {
	s, err := t.column(name)
	if err != nil {
		return nil, err
	}
	return s.Records(), nil
}

// Float returns a column converted to float64.
func (t *Table) Float(name string) ([]float64, error) {
	raw, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		if dataprep.IsMissing(v) {
			return nil, &dataprep.ColumnError{Column: name, Err: fmt.Errorf("%w: row %d: missing value %q", ErrNotNumeric, i, v)}
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return nil, &dataprep.ColumnError{Column: name, Err: fmt.Errorf("%w: row %d: %q", ErrNotNumeric, i, v)}
		}
		out[i] = f
	}
	return out, nil
}

// SetStrings replaces the cells of an existing column.
func (t *Table) SetStrings(name string, values []string) error {
	if _, err := t.column(name); err != nil {
		return err
	}
	if len(values) != t.Len() {
		return &dataprep.ColumnError{Column: name, Err: fmt.Errorf("%w: %d values for %d rows", ErrMalformedTable, len(values), t.Len())}
	}
	df := t.frame.Mutate(series.New(values, series.String, name))
	if df.Err != nil {
		return &dataprep.ColumnError{Column: name, Err: df.Err}
	}
	t.frame = df
	return nil
}

// SetFloat replaces the cells of an existing column with formatted numbers.
func (t *Table) SetFloat(name string, values []float64) error {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return t.SetStrings(name, cells)
}

// Rename renames a column. The group header is left as it is.
func (t *Table) Rename(from, to string) error {
	if _, err := t.column(from); err != nil {
		return err
	}
	if to == "" {
		return &dataprep.ColumnError{Column: from, Err: fmt.Errorf("%w: empty column name", ErrMalformedTable)}
	}
	if from != to && t.Has(to) {
		return &dataprep.ColumnError{Column: to, Err: fmt.Errorf("%w: duplicate column", ErrMalformedTable)}
	}
	df := t.frame.Rename(to, from)
	if df.Err != nil {
		return &dataprep.ColumnError{Column: from, Err: df.Err}
	}
	t.frame = df
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{frame: t.frame.Copy()}
	if t.Group != nil {
		c.Group = append([]string(nil), t.Group...)
	}
	return c
}

// Write encodes the table as CSV. When a group header is present it is
// written first with its identifier cell blanked.
func (t *Table) Write(w io.Writer) error {
	if len(t.Group) > 0 {
		group := append([]string(nil), t.Group...)
		group[0] = ""
		cw := csv.NewWriter(w)
		if err := cw.Write(group); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}
	return t.frame.WriteCSV(w)
}

// Save writes the table to path, replacing any existing file.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
