package dataset

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := New("people.csv",
		NewColumn("id", KindInt, []any{int64(3), int64(1), int64(2)}),
		NewColumn("name", KindString, []any{"carol", nil, "bob"}),
	)
	require.NoError(t, err)
	return ds
}

func TestNew(t *testing.T) {
	t.Run("DuplicateName", func(t *testing.T) {
		_, err := New("x",
			NewColumn("a", KindInt, []any{int64(1)}),
			NewColumn("a", KindInt, []any{int64(2)}),
		)
		assert.Error(t, err)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		_, err := New("x",
			NewColumn("a", KindInt, []any{int64(1)}),
			NewColumn("b", KindInt, []any{int64(1), int64(2)}),
		)
		assert.Error(t, err)
	})

	t.Run("Valid", func(t *testing.T) {
		ds := sample(t)
		assert.Equal(t, 3, ds.NumRows())
		assert.Equal(t, 2, ds.NumCols())
		assert.Equal(t, []string{"id", "name"}, ds.ColumnNames())
		assert.Equal(t, 1, ds.ColumnIndex("name"))
		assert.Equal(t, -1, ds.ColumnIndex("nope"))
		assert.True(t, ds.Column("name").Nullable())
		assert.False(t, ds.Column("id").Nullable())
	})
}

func TestSelectDoesNotShareValues(t *testing.T) {
	ds := sample(t)
	sel, err := ds.Select("name", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id"}, sel.ColumnNames())

	sel.Column("id").Values[0] = int64(99)
	assert.Equal(t, int64(3), ds.Column("id").Values[0])

	_, err = ds.Select("missing")
	assert.Error(t, err)
}

func TestHead(t *testing.T) {
	ds := sample(t)

	assert.Equal(t, 2, ds.Head(2).NumRows())
	assert.Equal(t, 3, ds.Head(0).NumRows())
	assert.Equal(t, 3, ds.Head(10).NumRows())
	assert.Equal(t, 3, ds.NumRows())
}

func TestSummary(t *testing.T) {
	ds := sample(t)
	assert.Equal(t, "people.csv :: 3 rows :: 2 columns", ds.Summary("/tmp/data/people.csv"))
	assert.Equal(t, "people.csv :: 3 rows :: 2 columns", ds.Summary(""))
}

func TestSortBy(t *testing.T) {
	t.Run("Ascending", func(t *testing.T) {
		ds := sample(t)
		require.NoError(t, ds.SortBy([]string{"id"}, false))
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, ds.Column("id").Values)
		assert.Equal(t, []any{nil, "bob", "carol"}, ds.Column("name").Values)
	})

	t.Run("MissingLast", func(t *testing.T) {
		ds := sample(t)
		require.NoError(t, ds.SortBy([]string{"name"}, true))
		assert.Equal(t, []any{"carol", "bob", nil}, ds.Column("name").Values)
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		ds := sample(t)
		assert.Error(t, ds.SortBy([]string{"nope"}, false))
	})
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(int64(2), float64(2)))
	assert.Equal(t, -1, Compare(int64(1), float64(1.5)))
	assert.Equal(t, 1, Compare("b", "a"))
	assert.Equal(t, -1, Compare(false, true))
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, -1, Compare(d1, d1.Add(time.Hour)))
}

func TestWriteCSV(t *testing.T) {
	ds := sample(t)
	var buf bytes.Buffer
	require.NoError(t, ds.WriteCSV(&buf))
	assert.Equal(t, "id,name\n3,carol\n1,\n2,bob\n", buf.String())
}

func TestMarshalJSON(t *testing.T) {
	ds := sample(t)
	b, err := json.Marshal(ds)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, float64(3), out["row_count"])
	cols := out["columns"].([]any)
	assert.Equal(t, "int64", cols[0].(map[string]any)["kind"])
	rows := out["rows"].([]any)
	assert.Len(t, rows, 3)
	assert.Nil(t, rows[1].([]any)[1])
}

func TestNewColumnFromValues(t *testing.T) {
	col := NewColumnFromValues("n", []any{1, 2.5, nil})
	assert.Equal(t, KindFloat, col.Kind)
	assert.Equal(t, []any{float64(1), 2.5, nil}, col.Values)

	col = NewColumnFromValues("m", []any{"a", int64(1)})
	assert.Equal(t, KindMixed, col.Kind)

	col = NewColumnFromValues("e", []any{nil, nil})
	assert.Equal(t, KindString, col.Kind)
}
