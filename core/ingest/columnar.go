package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"data-reconciler/core/dataset"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
)

// LoadParquet reads every row group of a Parquet file.
func LoadParquet(path string) (*dataset.Dataset, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, err
	}
	tbl, err := fr.ReadTable(context.Background())
	if err != nil {
		return nil, err
	}
	defer tbl.Release()

	cols := make([]*dataset.Column, 0, tbl.NumCols())
	for i := 0; i < int(tbl.NumCols()); i++ {
		col := tbl.Column(i)
		if indexColumn(col.Name()) {
			continue
		}
		values := make([]any, 0, tbl.NumRows())
		for _, chunk := range col.Data().Chunks() {
			values = appendArrow(values, chunk)
		}
		cols = append(cols, dataset.NewColumnFromValues(col.Name(), values))
	}
	return dataset.New(filepath.Base(path), cols...)
}

// LoadFeather reads a Feather (Arrow IPC file format) file.
func LoadFeather(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	schema := r.Schema()
	values := make([][]any, schema.NumFields())
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("record batch %d: %w", i, err)
		}
		for j := range values {
			values[j] = appendArrow(values[j], rec.Column(j))
		}
	}

	cols := make([]*dataset.Column, 0, len(values))
	for j, field := range schema.Fields() {
		if indexColumn(field.Name) {
			continue
		}
		if values[j] == nil {
			values[j] = []any{}
		}
		cols = append(cols, dataset.NewColumnFromValues(field.Name, values[j]))
	}
	return dataset.New(filepath.Base(path), cols...)
}

// indexColumn reports whether name is a stored dataframe index rather than data.
func indexColumn(name string) bool {
	return strings.HasPrefix(name, "__index_level_") && strings.HasSuffix(name, "__")
}

func appendArrow(values []any, arr arrow.Array) []any {
	for i := 0; i < arr.Len(); i++ {
		values = append(values, arrowValue(arr, i))
	}
	return values
}

func arrowValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	case *array.Date32:
		return a.Value(i).ToTime().UTC()
	case *array.Date64:
		return a.Value(i).ToTime().UTC()
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit).UTC()
	case *array.Dictionary:
		return arrowValue(a.Dictionary(), a.GetValueIndex(i))
	default:
		return arr.ValueStr(i)
	}
}
