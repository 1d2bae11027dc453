package dataset

import (
	"fmt"
	"path/filepath"
)

// Dataset is an ordered collection of uniquely named columns sharing one row count.
// Datasets returned by the loader and the reconciler are not mutated afterwards,
// except through the explicit SortBy presentation helper.
type Dataset struct {
	// Name identifies the source (usually the file name) in summaries.
	Name string

	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a dataset from columns, rejecting duplicate names and unequal lengths.
func New(name string, columns ...*Column) (*Dataset, error) {
	ds := &Dataset{
		Name:    name,
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := ds.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			ds.rows = col.Len()
		} else if col.Len() != ds.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), ds.rows)
		}
		ds.index[col.Name] = len(ds.columns)
		ds.columns = append(ds.columns, col)
	}
	return ds, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed tables.
func MustNew(name string, columns ...*Column) *Dataset {
	ds, err := New(name, columns...)
	if err != nil {
		panic(err)
	}
	return ds
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	return d.rows
}

// NumCols returns the column count.
func (d *Dataset) NumCols() int {
	return len(d.columns)
}

// Columns returns the columns in order. The slice must not be modified.
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil.
func (d *Dataset) Column(name string) *Column {
	if i, ok := d.index[name]; ok {
		return d.columns[i]
	}
	return nil
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []any {
	row := make([]any, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Select returns a new dataset holding copies of the named columns in the given order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c := d.Column(n)
		if c == nil {
			return nil, fmt.Errorf("column %q not found", n)
		}
		cols = append(cols, c.Clone())
	}
	out, err := New(d.Name, cols...)
	if err != nil {
		return nil, err
	}
	out.rows = d.rows
	return out, nil
}

// Take returns a new dataset holding the given rows, in the given order.
func (d *Dataset) Take(indices []int) *Dataset {
	cols := make([]*Column, len(d.columns))
	for j, c := range d.columns {
		values := make([]any, len(indices))
		for i, idx := range indices {
			values[i] = c.Values[idx]
		}
		cols[j] = &Column{Name: c.Name, Kind: c.Kind, Values: values}
	}
	out := MustNew(d.Name, cols...)
	out.rows = len(indices)
	return out
}

// Clone returns a deep copy of the dataset's column slices.
func (d *Dataset) Clone() *Dataset {
	cols := make([]*Column, len(d.columns))
	for i, c := range d.columns {
		cols[i] = c.Clone()
	}
	out := MustNew(d.Name, cols...)
	out.rows = d.rows
	return out
}

// Head returns a bounded preview of the first n rows without touching the receiver.
// A non-positive n, or one beyond the row count, previews every row.
func (d *Dataset) Head(n int) *Dataset {
	if n <= 0 || n > d.rows {
		n = d.rows
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return d.Take(indices)
}

// Summary renders the status line "<filename> :: <rows> rows :: <cols> columns".
// An empty filename falls back to the dataset name.
func (d *Dataset) Summary(filename string) string {
	if filename == "" {
		filename = d.Name
	}
	return fmt.Sprintf("%s :: %d rows :: %d columns", filepath.Base(filename), d.rows, len(d.columns))
}

// Schema lists column names with their kinds.
func (d *Dataset) Schema() []ColumnInfo {
	info := make([]ColumnInfo, len(d.columns))
	for i, c := range d.columns {
		info[i] = ColumnInfo{Name: c.Name, Kind: c.Kind, Nullable: c.Nullable()}
	}
	return info
}

// ColumnInfo describes one column of a dataset.
type ColumnInfo struct {
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Nullable bool   `json:"nullable" yaml:"nullable"`
}
