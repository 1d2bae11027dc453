package ingest

import (
	"fmt"
	"math/big"
	"path/filepath"

	"data-reconciler/core/dataset"
	"data-reconciler/core/utils"

	"github.com/nlpodyssey/gopickle/pickle"
)

// pyList and pyDict are the views of unpickled Python containers used here.
type pyList interface {
	Len() int
	Get(i int) interface{}
}

type pyDict interface {
	Keys() []interface{}
	Get(key interface{}) (interface{}, bool)
}

// LoadPickle reads a pickled table made of plain Python values: a list of row
// dicts, or a dict mapping column names to equal-length lists.
func LoadPickle(path string) (*dataset.Dataset, error) {
	obj, err := pickle.Load(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)

	switch v := obj.(type) {
	case pyList:
		rows := make([]*object, v.Len())
		for i := range rows {
			d, ok := v.Get(i).(pyDict)
			if !ok {
				return nil, fmt.Errorf("row %d is %T, not a dict", i, v.Get(i))
			}
			rows[i] = pyRow(d)
		}
		return fromObjects(name, rows)
	case pyDict:
		return pickledColumns(name, v)
	}
	return nil, fmt.Errorf("unsupported pickled object %T", obj)
}

func pickledColumns(name string, d pyDict) (*dataset.Dataset, error) {
	cols := make([]*dataset.Column, 0)
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		list, ok := v.(pyList)
		if !ok {
			return nil, fmt.Errorf("column %v is %T, not a list", k, v)
		}
		values := make([]any, list.Len())
		for i := range values {
			values[i] = pyValue(list.Get(i))
		}
		cols = append(cols, dataset.NewColumnFromValues(utils.ToString(pyValue(k)), values))
	}
	return dataset.New(name, cols...)
}

func pyRow(d pyDict) *object {
	row := newObject()
	for _, k := range d.Keys() {
		v, _ := d.Get(k)
		row.set(utils.ToString(pyValue(k)), pyValue(v))
	}
	return row
}

func pyValue(v interface{}) any {
	switch x := v.(type) {
	case *big.Int:
		if i, ok := utils.ToInt64(x); ok {
			return i
		}
		f, _ := utils.ToFloat64(x)
		return f
	case pyList:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = pyValue(x.Get(i))
		}
		return out
	default:
		return v
	}
}
