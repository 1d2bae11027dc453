package dataset

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"data-reconciler/core/utils"
)

// Header returns the column names, for tabular rendering.
func (d *Dataset) Header() []string {
	return d.ColumnNames()
}

// Records renders every row as text. Missing values render empty.
func (d *Dataset) Records() [][]string {
	records := make([][]string, d.rows)
	for i := 0; i < d.rows; i++ {
		rec := make([]string, len(d.columns))
		for j, c := range d.columns {
			rec[j] = utils.ToString(c.Values[i])
		}
		records[i] = rec
	}
	return records
}

// WriteCSV writes the dataset as comma separated text with a header row.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(d.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// Table is the serializable form of a dataset used by the HTTP and CLI outputs.
type Table struct {
	Name    string       `json:"name" yaml:"name"`
	Rows    int          `json:"row_count" yaml:"row_count"`
	Columns []ColumnInfo `json:"columns" yaml:"columns"`
	Data    [][]any      `json:"rows" yaml:"rows"`
}

// Table converts the first limit rows into a Table. The row count reports the full
// dataset, not the preview.
func (d *Dataset) Table(limit int) Table {
	preview := d.Head(limit)
	data := make([][]any, preview.NumRows())
	for i := range data {
		row := preview.Row(i)
		for j, v := range row {
			if _, ok := v.(string); !ok && v != nil && preview.columns[j].Kind == KindMixed {
				row[j] = utils.ToString(v)
			}
		}
		data[i] = row
	}
	return Table{
		Name:    d.Name,
		Rows:    d.rows,
		Columns: d.Schema(),
		Data:    data,
	}
}

// MarshalJSON encodes the full dataset as a Table.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Table(0))
}
