package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"data-reconciler/core/dataset"
	"data-reconciler/core/errors"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T) (*arrow.Schema, arrow.Record) {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues([]string{"a", "", "c"}, []bool{true, false, true})
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{0.5, 1, 0}, []bool{true, true, false})
	return schema, b.NewRecord()
}

func assertSample(t *testing.T, ds *dataset.Dataset) {
	t.Helper()
	assert.Equal(t, []string{"name", "id", "score"}, ds.ColumnNames())
	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []any{"a", nil, "c"}, ds.Column("name").Values)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, ds.Column("id").Values)
	assert.Equal(t, []any{0.5, 1.0, nil}, ds.Column("score").Values)
}

func TestLoadParquet(t *testing.T) {
	schema, rec := sampleRecord(t)
	defer rec.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assertSample(t, ds)
}

func TestLoadFeather(t *testing.T) {
	schema, rec := sampleRecord(t)
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "data.feather")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(memory.DefaultAllocator))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	ds, err := Load(path)
	require.NoError(t, err)
	assertSample(t, ds)
}

func TestLoadColumnar_Corrupt(t *testing.T) {
	for _, name := range []string{"bad.parquet", "bad.feather"} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, name, "definitely not columnar"))
			assert.ErrorIs(t, err, errors.ErrLoad)
		})
	}
}

func TestIndexColumn(t *testing.T) {
	assert.True(t, indexColumn("__index_level_0__"))
	assert.False(t, indexColumn("index"))
}
