package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"data-reconciler/core/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Delimited returns a strategy for separator-delimited text. The whole file is
// read before any column is typed.
func Delimited(sep rune) Strategy {
	return func(path string) (*dataset.Dataset, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readDelimited(path, f, sep)
	}
}

func readDelimited(path string, r io.Reader, sep rune) (*dataset.Dataset, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errNoColumns
	}

	header := records[0]
	rows := records[1:]
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("error tokenizing data: expected %d fields in line %d, saw %d",
				len(header), i+2, len(row))
		}
	}
	return fromRecords(path, header, rows)
}
