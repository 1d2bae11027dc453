package ingest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"data-reconciler/core/dataset"
	"data-reconciler/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(s string) []byte {
	b := bytes.Repeat([]byte(" "), xptCard)
	copy(b, s)
	return b
}

func namestr(numeric bool, length, offset int, name string) []byte {
	d := make([]byte, xptDefaultDesc)
	typ := uint16(2)
	if numeric {
		typ = xptNumeric
	}
	binary.BigEndian.PutUint16(d[0:], typ)
	binary.BigEndian.PutUint16(d[4:], uint16(length))
	copy(d[8:16], []byte(name+strings.Repeat(" ", 8-len(name))))
	binary.BigEndian.PutUint32(d[84:], uint32(offset))
	return d
}

// toIBM encodes f as an 8-byte IBM System/360 double.
func toIBM(f float64) []byte {
	out := make([]byte, 8)
	if f == 0 {
		return out
	}
	var sign byte
	if f < 0 {
		sign = 0x80
		f = -f
	}
	frac, exp2 := math.Frexp(f)
	exp16 := int(math.Ceil(float64(exp2) / 4))
	frac = math.Ldexp(frac, exp2-4*exp16)
	binary.BigEndian.PutUint64(out, uint64(math.Ldexp(frac, 56)))
	out[0] = sign | byte(exp16+64)
	return out
}

func xportFixture(rows [][]byte) []byte {
	var buf bytes.Buffer
	buf.Write(card(xptLibrary + strings.Repeat("0", 30)))
	buf.Write(card("SAS     SAS     SASLIB  9.4     Linux"))
	buf.Write(card("01JAN24:00:00:00"))
	buf.Write(card(xptMember + strings.Repeat("0", 17) + "160" + "000000" + "0140"))
	buf.Write(card("HEADER RECORD*******DSCRPTR HEADER RECORD!!!!!!!" + strings.Repeat("0", 30)))
	buf.Write(card("SAS     PEOPLE  SASDATA 9.4     Linux"))
	buf.Write(card("01JAN24:00:00:00"))
	buf.Write(card(xptNamestr + "000000" + "0002" + strings.Repeat("0", 20)))

	var ns bytes.Buffer
	ns.Write(namestr(true, 8, 0, "X"))
	ns.Write(namestr(false, 8, 8, "NAME"))
	for ns.Len()%xptCard != 0 {
		ns.WriteByte(' ')
	}
	buf.Write(ns.Bytes())
	buf.Write(card(xptObs + strings.Repeat("0", 30)))

	var body bytes.Buffer
	for _, r := range rows {
		body.Write(r)
	}
	for body.Len()%xptCard != 0 {
		body.WriteByte(' ')
	}
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func xptRow(num []byte, name string) []byte {
	return append(append([]byte{}, num...), []byte(name+strings.Repeat(" ", 8-len(name)))...)
}

func TestLoadXPORT(t *testing.T) {
	missing := append([]byte{'.'}, make([]byte, 7)...)
	data := xportFixture([][]byte{
		xptRow(toIBM(1), "alice"),
		xptRow(toIBM(-2.5), "bob"),
		xptRow(missing, ""),
	})
	path := filepath.Join(t.TempDir(), "people.xpt")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "NAME"}, ds.ColumnNames())
	assert.Equal(t, dataset.KindFloat, ds.Column("X").Kind)
	assert.Equal(t, []any{1.0, -2.5, nil}, ds.Column("X").Values)
	assert.Equal(t, []any{"alice", "bob", nil}, ds.Column("NAME").Values)
}

func TestIBMFloat(t *testing.T) {
	for _, f := range []float64{0, 1, 2, 3, -2.5, 100, 0.125, 123456.75} {
		got, ok := ibmFloat(toIBM(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
	for _, c := range []byte{'.', '_', 'A', 'Z'} {
		_, ok := ibmFloat(append([]byte{c}, make([]byte, 7)...))
		assert.False(t, ok, string(c))
	}
}

func TestLoadStatistical_Invalid(t *testing.T) {
	for _, name := range []string{"bad.dta", "bad.sas7bdat", "bad.xpt"} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, name, strings.Repeat("garbage ", 40)))
			assert.ErrorIs(t, err, errors.ErrLoad)
		})
	}
}

func TestLoadStata(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "generated_117.dta"))
	require.NoError(t, err)
	assert.Equal(t, 10, ds.NumRows())
	assert.Len(t, ds.ColumnNames(), 100)
	assert.Equal(t, []string{"column1", "column2", "column3"}, ds.ColumnNames()[:3])

	assert.InDelta(t, 0.636, ds.Column("column1").Values[0], 1e-6)
	assert.Equal(t, []any{"pear", "dog", "pear"}, ds.Column("column2").Values[:3])

	amount := ds.Column("column3")
	assert.Equal(t, dataset.KindInt, amount.Kind)
	assert.Equal(t, []any{int64(84), int64(49), int64(35)}, amount.Values[:3])
	assert.Nil(t, amount.Values[9])

	day, ok := ds.Column("column4").Values[0].(time.Time)
	require.True(t, ok)
	assert.True(t, day.Equal(time.Date(1965, 12, 10, 0, 0, 0, 0, time.UTC)), day.String())
}

func TestLoadSAS7BDAT(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "generated.sas7bdat"))
	require.NoError(t, err)
	assert.Equal(t, 10, ds.NumRows())
	assert.Len(t, ds.ColumnNames(), 100)
	assert.Equal(t, []string{"Column1", "Column2", "Column3"}, ds.ColumnNames()[:3])

	assert.InDelta(t, 0.636, ds.Column("Column1").Values[0], 1e-9)
	assert.Nil(t, ds.Column("Column1").Values[8])
	assert.Equal(t, []any{"pear", "dog", "pear"}, ds.Column("Column2").Values[:3])

	amount := ds.Column("Column3")
	assert.Equal(t, dataset.KindFloat, amount.Kind)
	assert.Equal(t, []any{84.0, 49.0, 35.0}, amount.Values[:3])
	assert.Nil(t, amount.Values[9])

	day, ok := ds.Column("Column4").Values[1].(time.Time)
	require.True(t, ok)
	assert.True(t, day.Equal(time.Date(1977, 3, 7, 0, 0, 0, 0, time.UTC)), day.String())
}
