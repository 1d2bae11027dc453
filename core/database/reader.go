package database

import (
	"context"
	"fmt"

	"data-reconciler/core/dataset"

	"gorm.io/gorm"
)

// ReadTable loads every row of table into a dataset named after the table.
// Columns the driver returns as raw bytes are inferred the way delimited text is;
// typed driver values keep their type.
func ReadTable(ctx context.Context, db *gorm.DB, table string) (*dataset.Dataset, error) {
	if !ValidTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := db.WithContext(ctx).Table(table).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	values := make([][]any, len(names))
	cells := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range cells {
		ptrs[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		for i, v := range cells {
			// Drivers may reuse byte buffers between rows.
			if b, ok := v.([]byte); ok {
				v = append([]byte(nil), b...)
			}
			values[i] = append(values[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	names = dataset.UniqueNames(names)
	cols := make([]*dataset.Column, len(names))
	for i, n := range names {
		cols[i] = tableColumn(n, values[i])
	}
	return dataset.New(table, cols...)
}

func tableColumn(name string, values []any) *dataset.Column {
	if values == nil {
		values = []any{}
	}
	raw := make([]string, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case nil:
		case []byte:
			raw[i] = string(x)
		default:
			return dataset.NewColumnFromValues(name, values)
		}
	}
	return dataset.InferColumn(name, raw)
}
