package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"data-reconciler/core/dataset"
	"data-reconciler/core/errors"
)

// jsonDocument is the outcome of parsing a file as one JSON value.
type jsonDocument struct {
	path string
	data []byte

	// value is set when the document is exactly one well-formed value.
	value any
	// multiple is set when a complete value is followed by further values.
	multiple bool
	// malformed holds the parse failure of the single-value read.
	malformed error
}

// jsonStage is one step of the fallback chain. A stage that does not apply to the
// document returns errSkipStage so the next one is tried.
type jsonStage struct {
	name string
	run  func(doc *jsonDocument) (*dataset.Dataset, error)
}

var errSkipStage = errors.New("stage does not apply")

// jsonStages are tried in order; the first stage producing a dataset wins.
var jsonStages = []jsonStage{
	{name: "records", run: recordsStage},
	{name: "lines", run: linesStage},
	{name: "normalize", run: normalizeStage},
}

// LoadJSON reads a JSON document. It accepts an array of row objects, a column
// mapping of equal-length arrays, line-delimited objects, and envelopes or single
// objects that can be normalized into rows.
func LoadJSON(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseJSON(path, data)
}

func parseJSON(path string, data []byte) (*dataset.Dataset, error) {
	doc := readDocument(path, data)
	for _, stage := range jsonStages {
		ds, err := stage.run(doc)
		if err == errSkipStage {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("json %s: %w", stage.name, err)
		}
		return ds, nil
	}
	if doc.malformed != nil {
		return nil, doc.malformed
	}
	return nil, &errors.UnsupportedJSONStructureError{Path: path, Shape: shapeOf(doc.value)}
}

func readDocument(path string, data []byte) *jsonDocument {
	doc := &jsonDocument{path: path, data: data}
	dec := newDecoder(data)
	v, err := readValue(dec)
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("expected object or value")
		}
		doc.malformed = err
		return doc
	}
	_, err = dec.Token()
	switch {
	case err == io.EOF:
		doc.value = v
	case err == nil:
		doc.multiple = true
	default:
		doc.malformed = err
	}
	return doc
}

// recordsStage accepts an array of objects or a mapping of column arrays.
func recordsStage(doc *jsonDocument) (*dataset.Dataset, error) {
	if doc.multiple || doc.malformed != nil {
		return nil, errSkipStage
	}
	switch v := doc.value.(type) {
	case []any:
		rows, ok := objectRows(v)
		if !ok {
			return nil, errSkipStage
		}
		return fromObjects(doc.path, rows)
	case *object:
		if rows, ok := columnRows(v); ok {
			return fromObjects(doc.path, rows)
		}
	}
	return nil, errSkipStage
}

// linesStage reads a stream of top-level values, one row object each.
func linesStage(doc *jsonDocument) (*dataset.Dataset, error) {
	if !doc.multiple && doc.malformed == nil {
		return nil, errSkipStage
	}
	dec := newDecoder(doc.data)
	var rows []*object
	for dec.More() {
		v, err := readValue(dec)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			if doc.malformed != nil {
				return nil, doc.malformed
			}
			return nil, err
		}
		obj, ok := v.(*object)
		if !ok {
			// A syntax error later in the file outranks the shape of the first value.
			if doc.malformed != nil {
				return nil, doc.malformed
			}
			return nil, &errors.UnsupportedJSONStructureError{
				Path:  doc.path,
				Shape: "line-delimited " + shapeOf(v),
			}
		}
		rows = append(rows, flatten(obj))
	}
	if len(rows) == 0 {
		if doc.malformed != nil {
			return nil, doc.malformed
		}
		return nil, fmt.Errorf("no JSON values found")
	}
	return fromObjects(doc.path, rows)
}

// normalizeStage flattens a single well-formed value by hand: arrays of objects
// become rows and any object without array fields becomes a single row. For an
// object holding array fields only the first one in document order is used,
// whatever it holds: objects become rows, scalars become a column named after
// the field, and anything mixed is rejected.
func normalizeStage(doc *jsonDocument) (*dataset.Dataset, error) {
	if doc.multiple || doc.malformed != nil {
		return nil, errSkipStage
	}
	switch v := doc.value.(type) {
	case []any:
		if rows, ok := objectRows(v); ok {
			return fromObjects(doc.path, rows)
		}
	case *object:
		for _, k := range v.keys {
			arr, ok := v.values[k].([]any)
			if !ok {
				continue
			}
			if rows, ok := objectRows(arr); ok {
				return fromObjects(doc.path, rows)
			}
			if scalars(arr) {
				return fromObjects(doc.path, scalarRows(k, arr))
			}
			return nil, &errors.UnsupportedJSONStructureError{Path: doc.path, Shape: "array of mixed values in " + strconv.Quote(k)}
		}
		return fromObjects(doc.path, []*object{flatten(v)})
	}
	return nil, &errors.UnsupportedJSONStructureError{Path: doc.path, Shape: shapeOf(doc.value)}
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

// readValue decodes the next value from dec, keeping object key order.
func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := newObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("invalid object key %v", kt)
			}
			v, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
}

func objectRows(arr []any) ([]*object, bool) {
	rows := make([]*object, len(arr))
	for i, v := range arr {
		obj, ok := v.(*object)
		if !ok {
			return nil, false
		}
		rows[i] = flatten(obj)
	}
	return rows, true
}

// columnRows turns {"a": [..], "b": [..]} into rows when every field is an array of
// scalars and all arrays share one length.
func columnRows(obj *object) ([]*object, bool) {
	if len(obj.keys) == 0 {
		return nil, false
	}
	n := -1
	for _, k := range obj.keys {
		arr, ok := obj.values[k].([]any)
		if !ok || !scalars(arr) {
			return nil, false
		}
		if n >= 0 && len(arr) != n {
			return nil, false
		}
		n = len(arr)
	}
	rows := make([]*object, n)
	for i := range rows {
		r := newObject()
		for _, k := range obj.keys {
			r.set(k, plain(obj.values[k].([]any)[i]))
		}
		rows[i] = r
	}
	return rows, true
}

func scalarRows(name string, arr []any) []*object {
	rows := make([]*object, len(arr))
	for i, v := range arr {
		r := newObject()
		r.set(name, plain(v))
		rows[i] = r
	}
	return rows
}

func scalars(arr []any) bool {
	for _, v := range arr {
		switch v.(type) {
		case *object, []any:
			return false
		}
	}
	return true
}

// flatten joins nested object names with "." so {"a": {"b": 1}} becomes "a.b".
func flatten(obj *object) *object {
	out := newObject()
	flattenInto(out, "", obj)
	return out
}

func flattenInto(dst *object, prefix string, src *object) {
	for _, k := range src.keys {
		v := src.values[k]
		if nested, ok := v.(*object); ok && len(nested.keys) > 0 {
			flattenInto(dst, prefix+k+".", nested)
			continue
		}
		dst.set(prefix+k, plain(v))
	}
}

// plain converts decoded values to dataset cell values.
func plain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case *object:
		m := make(map[string]any, len(x.keys))
		for _, k := range x.keys {
			m[k] = plain(x.values[k])
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

func shapeOf(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case *object:
		return "object"
	case []any:
		if len(x) > 0 {
			return "array of " + shapeOf(x[0])
		}
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
