package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"data-reconciler/core/dataset"
)

// errNoColumns mirrors the failure for inputs without a header row.
var errNoColumns = fmt.Errorf("no columns to parse from file")

// fromRecords builds a dataset from a header and text rows. Short rows are padded
// with missing values; every column is typed by inspecting all of its cells.
func fromRecords(path string, header []string, rows [][]string) (*dataset.Dataset, error) {
	names := dataset.UniqueNames(header)
	cols := make([]*dataset.Column, len(names))
	raw := make([]string, len(rows))
	for j, name := range names {
		for i, row := range rows {
			if j < len(row) {
				raw[i] = row[j]
			} else {
				raw[i] = ""
			}
		}
		cols[j] = dataset.InferColumn(name, raw)
	}
	return dataset.New(filepath.Base(path), cols...)
}

// fromGrid treats the first row of a cell grid as the header. The grid is first
// trimmed of trailing blank rows and columns.
func fromGrid(path string, grid [][]string) (*dataset.Dataset, error) {
	grid = trimGrid(grid)
	if len(grid) == 0 {
		return nil, errNoColumns
	}
	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, grid[0])
	return fromRecords(path, header, grid[1:])
}

func trimGrid(grid [][]string) [][]string {
	for len(grid) > 0 && blankRow(grid[len(grid)-1]) {
		grid = grid[:len(grid)-1]
	}
	width := 0
	for _, row := range grid {
		for j := len(row) - 1; j >= 0; j-- {
			if strings.TrimSpace(row[j]) != "" {
				width = max(width, j+1)
				break
			}
		}
	}
	out := make([][]string, len(grid))
	for i, row := range grid {
		if len(row) > width {
			row = row[:width]
		}
		out[i] = row
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// fromObjects builds a dataset from ordered rows of decoded values. Column order is
// the order in which names first appear; absent names are missing.
func fromObjects(path string, rows []*object) (*dataset.Dataset, error) {
	var order []string
	seen := map[string]bool{}
	for _, r := range rows {
		for _, k := range r.keys {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}
	cols := make([]*dataset.Column, len(order))
	for j, name := range order {
		values := make([]any, len(rows))
		for i, r := range rows {
			values[i] = r.values[name]
		}
		cols[j] = dataset.NewColumnFromValues(name, values)
	}
	return dataset.New(filepath.Base(path), cols...)
}

// object is a decoded mapping that remembers key order.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object {
	return &object{values: map[string]any{}}
}

func (o *object) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}
