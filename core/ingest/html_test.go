package ingest

import (
	"testing"

	"data-reconciler/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHTML(t *testing.T) {
	t.Run("HeaderFromThead", func(t *testing.T) {
		page := `<html><body><p>intro</p>
<table>
  <thead><tr><th>id</th><th>name</th></tr></thead>
  <tbody>
    <tr><td>1</td><td>alice <b>a.</b></td></tr>
    <tr><td>2</td><td>bob</td></tr>
  </tbody>
</table>
<table><tr><th>other</th></tr></table>
</body></html>`
		ds, err := Load(writeFile(t, "t.html", page))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, ds.ColumnNames())
		assert.Equal(t, []any{int64(1), int64(2)}, ds.Column("id").Values)
		assert.Equal(t, []any{"alice a.", "bob"}, ds.Column("name").Values)
	})

	t.Run("HeaderFromLeadingThRows", func(t *testing.T) {
		page := `<table><tr><th>k</th><th>v</th></tr><tr><td>x</td><td>1</td></tr></table>`
		ds, err := Load(writeFile(t, "th.html", page))
		require.NoError(t, err)
		assert.Equal(t, []string{"k", "v"}, ds.ColumnNames())
		assert.Equal(t, 1, ds.NumRows())
	})

	t.Run("NoHeader", func(t *testing.T) {
		page := `<table><tr><td>a</td><td>1</td></tr><tr><td>b</td><td>2</td></tr></table>`
		ds, err := Load(writeFile(t, "nh.html", page))
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1"}, ds.ColumnNames())
		assert.Equal(t, 2, ds.NumRows())
	})

	t.Run("Colspan", func(t *testing.T) {
		page := `<table><tr><th>a</th><th>b</th><th>c</th></tr><tr><td colspan="2">x</td><td>y</td></tr></table>`
		ds, err := Load(writeFile(t, "span.html", page))
		require.NoError(t, err)
		assert.Equal(t, []any{"x"}, ds.Column("b").Values)
		assert.Equal(t, []any{"y"}, ds.Column("c").Values)
	})

	t.Run("NoTables", func(t *testing.T) {
		_, err := Load(writeFile(t, "none.html", `<html><body><p>nothing</p></body></html>`))
		assert.ErrorIs(t, err, errors.ErrLoad)
		assert.Contains(t, err.Error(), "no tables found")
	})
}
