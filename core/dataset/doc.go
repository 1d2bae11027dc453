// Package dataset defines the tabular value shared by the loader and the reconciler.
//
// A Dataset is an ordered sequence of uniquely named columns. Every column has a
// uniform Kind (string, int64, float64, bool, datetime, or object for mixed
// values) and all columns share one row count. A missing value is the nil marker,
// never the zero value of the column's type.
//
// # Construction
//
// Loaders build columns either from raw text with InferColumn, which inspects the
// whole column before committing to a kind, or from decoded values with
// NewColumnFromValues.
//
//	id := dataset.InferColumn("id", []string{"1", "2", ""})
//	ds, err := dataset.New("a.csv", id)
//
// # Views
//
// Select, Take and Head return new datasets and never mutate the receiver.
// SortBy is the one in-place operation and exists for presentation ordering.
package dataset
