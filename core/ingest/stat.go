package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"data-reconciler/core/dataset"

	"github.com/kshedden/datareader"
)

// statReader is the chunked reader shared by the Stata and SAS7BDAT readers.
type statReader interface {
	ColumnNames() []string
	RowCount() int
	Read(rows int) ([]*datareader.Series, error)
}

// LoadStata reads a Stata .dta file (formats 115 to 117).
func LoadStata(path string) (*dataset.Dataset, error) {
	return loadStat(path, func(r io.ReadSeeker) (statReader, error) {
		return datareader.NewStataReader(r)
	})
}

// LoadSAS7BDAT reads a SAS7BDAT file.
func LoadSAS7BDAT(path string) (*dataset.Dataset, error) {
	return loadStat(path, func(r io.ReadSeeker) (statReader, error) {
		sas, err := datareader.NewSAS7BDATReader(r)
		if err != nil {
			return nil, err
		}
		sas.ConvertDates = true
		sas.TrimStrings = true
		return sas, nil
	})
}

func loadStat(path string, open func(io.ReadSeeker) (statReader, error)) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr, err := open(f)
	if err != nil {
		return nil, err
	}
	names := rdr.ColumnNames()
	values := make([][]any, len(names))

	if n := rdr.RowCount(); n > 0 {
		series, err := rdr.Read(n)
		if err != nil && err != io.EOF {
			return nil, err
		}
		if len(series) != len(names) {
			return nil, fmt.Errorf("read %d columns, header declares %d", len(series), len(names))
		}
		for j, s := range series {
			if values[j], err = seriesValues(s); err != nil {
				return nil, fmt.Errorf("column %q: %w", names[j], err)
			}
		}
	}

	cols := make([]*dataset.Column, len(names))
	for j, name := range names {
		if values[j] == nil {
			values[j] = []any{}
		}
		cols[j] = dataset.NewColumnFromValues(name, values[j])
	}
	return dataset.New(filepath.Base(path), cols...)
}

func seriesValues(s *datareader.Series) ([]any, error) {
	missing := s.Missing()
	switch d := s.Data().(type) {
	case []float64:
		return boxed(d, missing, nil), nil
	case []float32:
		return boxed(d, missing, nil), nil
	case []int64:
		return boxed(d, missing, nil), nil
	case []int32:
		return boxed(d, missing, nil), nil
	case []int16:
		return boxed(d, missing, nil), nil
	case []int8:
		return boxed(d, missing, nil), nil
	case []time.Time:
		return boxed(d, missing, nil), nil
	case []string:
		return boxed(d, missing, func(v string) any { return strings.TrimRight(v, " ") }), nil
	default:
		return nil, fmt.Errorf("unsupported series type %T", d)
	}
}

func boxed[T any](data []T, missing []bool, conv func(T) any) []any {
	out := make([]any, len(data))
	for i, v := range data {
		if missing != nil && i < len(missing) && missing[i] {
			continue
		}
		if conv != nil {
			out[i] = conv(v)
		} else {
			out[i] = v
		}
	}
	return out
}
